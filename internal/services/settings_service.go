package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/events"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
)

// SettingsRepository is the settings-table storage used by administrative writes.
type SettingsRepository interface {
	LoadAll(ctx context.Context) ([]models.SettingEntry, error)
	GetSetting(ctx context.Context, key string) (*models.SettingEntry, error)
	ListByCategory(ctx context.Context, category string) ([]models.SettingEntry, error)
	UpdateOne(ctx context.Context, key, value string) error
	UpdateMany(ctx context.Context, updates []models.SettingUpdate) error
}

// Sealer encrypts values declared as encrypted. *secret.Box implements it.
type Sealer interface {
	HasKey() bool
	Seal(plaintext string) (string, error)
}

// SettingsService applies administrative settings changes. Every write goes
// to storage first, then drops the local cache, then tells other instances.
type SettingsService struct {
	repo      SettingsRepository
	cache     events.Invalidator
	publisher events.Publisher
	sealer    Sealer
	origin    string
	log       *debug.Logger
}

// NewSettingsService creates a SettingsService. publisher and sealer may be nil.
func NewSettingsService(repo SettingsRepository, cache events.Invalidator, publisher events.Publisher, sealer Sealer, origin string) *SettingsService {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &SettingsService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		sealer:    sealer,
		origin:    origin,
		log:       debug.With("settings-admin"),
	}
}

// ListByCategory returns a category's settings with sensitive values masked.
func (s *SettingsService) ListByCategory(ctx context.Context, category string) ([]models.SettingEntry, error) {
	entries, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]models.SettingEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Masked()
	}
	return out, nil
}

// GetSetting returns one setting with a sensitive value masked.
func (s *SettingsService) GetSetting(ctx context.Context, key string) (*models.SettingEntry, error) {
	entry, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		return nil, err
	}
	masked := entry.Masked()
	return &masked, nil
}

// UpdateSetting validates and stores one value.
func (s *SettingsService) UpdateSetting(ctx context.Context, key, value string) error {
	entry, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		return err
	}
	stored, skip, err := s.prepare(*entry, value)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}
	if err := s.repo.UpdateOne(ctx, key, stored); err != nil {
		return err
	}
	s.changed(ctx, []string{key})
	return nil
}

// UpdateSettings validates every value, then stores them all or none.
func (s *SettingsService) UpdateSettings(ctx context.Context, updates []models.SettingUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	existing, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	byKey := make(map[string]models.SettingEntry, len(existing))
	for _, e := range existing {
		byKey[e.Key] = e
	}

	batch := make([]models.SettingUpdate, 0, len(updates))
	keys := make([]string, 0, len(updates))
	for _, u := range updates {
		entry, ok := byKey[u.Key]
		if !ok {
			return fmt.Errorf("system setting with key '%s' not found: %w", u.Key, models.ErrNotFound)
		}
		stored, skip, err := s.prepare(entry, u.Value)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		batch = append(batch, models.SettingUpdate{Key: u.Key, Value: stored})
		keys = append(keys, u.Key)
	}
	if len(batch) == 0 {
		return nil
	}

	if err := s.repo.UpdateMany(ctx, batch); err != nil {
		return err
	}
	sort.Strings(keys)
	s.changed(ctx, keys)
	return nil
}

// prepare converts a submitted value into its stored form. skip is true for
// the display mask sent back unchanged.
func (s *SettingsService) prepare(entry models.SettingEntry, value string) (stored string, skip bool, err error) {
	if entry.Sensitive && value == models.MaskedValue {
		return "", true, nil
	}
	v, err := settings.Parse(entry.ValueType, value)
	if err != nil {
		return "", false, fmt.Errorf("setting %s: %w", entry.Key, err)
	}
	if entry.ValueType != models.ValueTypeEncrypted {
		if entry.ValueType == models.ValueTypeString {
			return value, false, nil
		}
		return v.String(), false, nil
	}

	if value == "" {
		return "", false, nil
	}
	if s.sealer == nil || !s.sealer.HasKey() {
		s.log.Warning("No settings encryption key configured, storing %s unencrypted", entry.Key)
		return value, false, nil
	}
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return "", false, fmt.Errorf("failed to encrypt setting %s: %w", entry.Key, err)
	}
	return sealed, false, nil
}

func (s *SettingsService) changed(ctx context.Context, keys []string) {
	s.cache.Invalidate()
	s.log.Info("Updated settings %v", keys)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	evt := events.SettingsInvalidated{Keys: keys, Origin: s.origin, At: time.Now().UTC()}
	if err := s.publisher.Publish(pubCtx, events.TopicSettingsInvalidated, evt); err != nil {
		// Other instances still converge within one cache TTL.
		s.log.Warning("Failed to broadcast settings invalidation: %v", err)
	}
}
