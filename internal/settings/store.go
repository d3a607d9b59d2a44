// Package settings caches the system_settings table for the policy code.
//
// A Store holds one immutable Snapshot of the whole table. Reads against a
// fresh snapshot never block. When the snapshot is missing, older than the
// TTL or invalidated, the next read reloads it; concurrent readers share a
// single in-flight load. A failed reload keeps serving the previous snapshot.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"golang.org/x/sync/singleflight"
)

var log = debug.With("settings")

var (
	// ErrConfigUnavailable means no snapshot has ever loaded. It is retryable.
	ErrConfigUnavailable = errors.New("configuration unavailable")
	// ErrStoreClosed is returned by reads after Close.
	ErrStoreClosed = errors.New("settings store closed")
)

// Source loads every settings row in one round trip.
type Source interface {
	LoadAll(ctx context.Context) ([]models.SettingEntry, error)
}

// Options tune a Store. Zero fields take defaults.
type Options struct {
	TTL           time.Duration // snapshot lifetime, default 30s
	ReloadTimeout time.Duration // bound on one load, default 5s
	RetryBackoff  time.Duration // pause after a failed reload while serving stale, default 5s
	Clock         Clock
}

const (
	DefaultTTL           = 30 * time.Second
	DefaultReloadTimeout = 5 * time.Second
	DefaultRetryBackoff  = 5 * time.Second
)

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.ReloadTimeout <= 0 {
		o.ReloadTimeout = DefaultReloadTimeout
	}
	if o.RetryBackoff < 0 {
		o.RetryBackoff = 0
	} else if o.RetryBackoff == 0 {
		o.RetryBackoff = DefaultRetryBackoff
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	return o
}

// Store is the process-local settings cache. Construct it with New.
type Store struct {
	source Source
	opts   Options

	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
	retryAfter atomic.Int64 // unix nanos; zero when not backing off
	closed     atomic.Bool
	loads      atomic.Uint64

	group singleflight.Group

	// parent of every reload; cancelled by Close
	baseCtx context.Context
	cancel  context.CancelFunc
}

type loadResult struct {
	snap  *Snapshot
	fresh bool // false when the load failed and snap is the previous snapshot
}

// New creates a Store over source. Nothing is loaded until the first read or
// Warm.
func New(source Source, opts Options) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		source:  source,
		opts:    opts.withDefaults(),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Snapshot returns a consistent view of every setting. Callers that make
// several related decisions should read one snapshot and use it throughout.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	snap := s.current.Load()
	now := s.opts.Clock.Now()
	if s.valid(snap, now) {
		return snap, nil
	}
	if snap != nil && s.backingOff(now) {
		return snap, nil
	}
	return s.reload(ctx)
}

// Warm loads a snapshot regardless of the current one. It fails only when the
// load fails and no earlier snapshot exists.
func (s *Store) Warm(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	_, err := s.reload(ctx)
	return err
}

// Invalidate makes the current snapshot stale. It does not reload; the next
// read does. A load already in flight still completes, but its result is
// stale for every read that starts after this call.
func (s *Store) Invalidate() {
	s.generation.Add(1)
	s.retryAfter.Store(0)
	log.Debug("Settings cache invalidated")
}

// Close stops the store. An in-flight reload is cancelled and later reads
// fail with ErrStoreClosed.
func (s *Store) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.cancel()
}

// Loads reports how many loads have reached the source.
func (s *Store) Loads() uint64 { return s.loads.Load() }

func (s *Store) valid(snap *Snapshot, now time.Time) bool {
	return snap != nil &&
		snap.generation == s.generation.Load() &&
		now.Sub(snap.loadedAt) < s.opts.TTL
}

func (s *Store) backingOff(now time.Time) bool {
	until := s.retryAfter.Load()
	return until != 0 && now.UnixNano() < until
}

func (s *Store) reload(ctx context.Context) (*Snapshot, error) {
	// A read that starts after Invalidate must not be satisfied by a load that
	// began before it, so a generation mismatch waits out the old flight and
	// joins a new one once.
	for attempt := 0; ; attempt++ {
		want := s.generation.Load()
		ch := s.group.DoChan("snapshot", func() (interface{}, error) {
			return s.load()
		})

		select {
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
			lr := res.Val.(loadResult)
			if lr.fresh && lr.snap.generation < want && attempt == 0 {
				continue
			}
			return lr.snap, nil
		case <-ctx.Done():
			if prev := s.current.Load(); prev != nil {
				return prev, nil
			}
			return nil, fmt.Errorf("%w: %w", ErrConfigUnavailable, ctx.Err())
		}
	}
}

// load runs inside the single flight with its own timeout so that callers
// giving up do not abort it for everyone else.
func (s *Store) load() (loadResult, error) {
	gen := s.generation.Load()
	start := s.opts.Clock.Now()

	ctx, cancel := context.WithTimeout(s.baseCtx, s.opts.ReloadTimeout)
	defer cancel()

	s.loads.Add(1)
	entries, err := s.source.LoadAll(ctx)
	if err != nil {
		prev := s.current.Load()
		if prev == nil {
			log.Error("Failed to load settings and no cached copy exists: %v", err)
			return loadResult{}, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
		}
		if s.opts.RetryBackoff > 0 {
			s.retryAfter.Store(s.opts.Clock.Now().Add(s.opts.RetryBackoff).UnixNano())
		}
		log.Warning("Settings reload failed, serving snapshot from %s: %v",
			prev.loadedAt.Format(time.RFC3339), err)
		return loadResult{snap: prev}, nil
	}

	snap := newSnapshot(entries, start, gen)
	s.current.Store(snap)
	s.retryAfter.Store(0)
	log.Debug("Loaded %d settings (generation %d)", snap.Len(), gen)
	return loadResult{snap: snap, fresh: true}, nil
}

// Get returns the raw value of key. ok is false for unknown keys and NULL
// values.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok := snap.Get(key)
	return v, ok, nil
}

// GetBool is true only for the exact raw value "true".
func (s *Store) GetBool(ctx context.Context, key string) (bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	return snap.Bool(key), nil
}

// GetInt parses key as a base-10 integer, returning fallback when it is absent
// or malformed.
func (s *Store) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return fallback, err
	}
	return snap.Int(key, fallback), nil
}

// GetMany returns every requested key from one snapshot.
func (s *Store) GetMany(ctx context.Context, keys []string) (map[string]*string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Many(keys), nil
}
