package settings

import (
	"sync"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
)

// Opener decrypts a stored encrypted value.
type Opener interface {
	Open(raw string) (string, error)
}

// Snapshot is one complete load of the settings table. It is never modified
// after construction, so any number of goroutines may read it.
type Snapshot struct {
	values     map[string]*string
	types      map[string]models.ValueType
	loadedAt   time.Time
	generation uint64

	// keys already reported as malformed in this snapshot
	warned sync.Map
}

func newSnapshot(entries []models.SettingEntry, loadedAt time.Time, generation uint64) *Snapshot {
	s := &Snapshot{
		values:     make(map[string]*string, len(entries)),
		types:      make(map[string]models.ValueType, len(entries)),
		loadedAt:   loadedAt,
		generation: generation,
	}
	for _, e := range entries {
		var v *string
		if e.Value != nil {
			copied := *e.Value
			v = &copied
		}
		s.values[e.Key] = v
		s.types[e.Key] = e.ValueType
	}
	return s
}

// NewSnapshot builds a detached snapshot from entries. Policy code that is
// handed configuration directly, such as tests or the admin CLI, uses this.
func NewSnapshot(entries []models.SettingEntry, loadedAt time.Time) *Snapshot {
	return newSnapshot(entries, loadedAt, 0)
}

// SnapshotOf builds a detached snapshot of plain string values.
func SnapshotOf(values map[string]string) *Snapshot {
	entries := make([]models.SettingEntry, 0, len(values))
	for k, v := range values {
		v := v
		entries = append(entries, models.SettingEntry{Key: k, Value: &v, ValueType: models.ValueTypeString})
	}
	return NewSnapshot(entries, time.Time{})
}

// LoadedAt is when the underlying load started.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Len is the number of keys in the snapshot.
func (s *Snapshot) Len() int { return len(s.values) }

// Get returns the raw value. ok is false for unknown keys and NULL values.
func (s *Snapshot) Get(key string) (string, bool) {
	v, found := s.values[key]
	if !found || v == nil {
		return "", false
	}
	return *v, true
}

// Bool is true only for the exact raw value "true".
func (s *Snapshot) Bool(key string) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if raw != "true" && raw != "false" && s.types[key] == models.ValueTypeBool {
		s.malformed(key, raw)
	}
	return raw == "true"
}

// Int parses the raw value as a base-10 integer. Absent, empty and
// unparsable values yield fallback.
func (s *Snapshot) Int(key string, fallback int) int {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return fallback
	}
	n, err := parseInt(raw)
	if err != nil {
		s.malformed(key, raw)
		return fallback
	}
	return n
}

// String returns the raw value, or fallback when it is absent or empty.
func (s *Snapshot) String(key, fallback string) string {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return fallback
	}
	return raw
}

// Many is the batched form of Get. Every requested key is present in the
// result; absent keys map to nil.
func (s *Snapshot) Many(keys []string) map[string]*string {
	out := make(map[string]*string, len(keys))
	for _, k := range keys {
		if raw, ok := s.Get(k); ok {
			raw := raw
			out[k] = &raw
		} else {
			out[k] = nil
		}
	}
	return out
}

// Typed parses the value according to its declared type. ok is false when
// the key is absent or the value does not parse.
func (s *Snapshot) Typed(key string) (Value, bool) {
	raw, ok := s.Get(key)
	if !ok {
		return Value{}, false
	}
	vt, known := s.types[key]
	if !known || vt == "" {
		vt = models.ValueTypeString
	}
	v, err := Parse(vt, raw)
	if err != nil {
		s.malformed(key, raw)
		return Value{}, false
	}
	return v, true
}

// Secret opens an encrypted value. An empty or undecryptable value yields
// ok=false.
func (s *Snapshot) Secret(key string, opener Opener) (string, bool) {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return "", false
	}
	if opener == nil {
		return raw, true
	}
	plain, err := opener.Open(raw)
	if err != nil {
		if _, seen := s.warned.LoadOrStore(key, struct{}{}); !seen {
			log.Warning("Failed to open encrypted setting %s: %v", key, err)
		}
		return "", false
	}
	return plain, true
}

func (s *Snapshot) malformed(key, raw string) {
	if _, seen := s.warned.LoadOrStore(key, struct{}{}); seen {
		return
	}
	log.Warning("Setting %s has malformed %s value %q, using default", key, s.types[key], raw)
}
