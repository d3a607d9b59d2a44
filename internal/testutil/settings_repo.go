package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
)

// MemorySettingsRepo is an in-memory system_settings table with the admin
// write interface of the repository.
type MemorySettingsRepo struct {
	mu      sync.Mutex
	entries map[string]models.SettingEntry

	UpdateErr error
	Writes    int
}

// Setting builds a row for NewMemorySettingsRepo.
func Setting(key, value string, vt models.ValueType, category string, sensitive bool) models.SettingEntry {
	return models.SettingEntry{Key: key, Value: &value, ValueType: vt, Category: category, Sensitive: sensitive}
}

// NewMemorySettingsRepo creates a repo holding entries.
func NewMemorySettingsRepo(entries ...models.SettingEntry) *MemorySettingsRepo {
	r := &MemorySettingsRepo{entries: make(map[string]models.SettingEntry)}
	for _, e := range entries {
		r.entries[e.Key] = e
	}
	return r
}

func (r *MemorySettingsRepo) LoadAll(ctx context.Context) ([]models.SettingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.SettingEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *MemorySettingsRepo) GetSetting(ctx context.Context, key string) (*models.SettingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, fmt.Errorf("system setting with key '%s' not found: %w", key, models.ErrNotFound)
	}
	return &e, nil
}

func (r *MemorySettingsRepo) ListByCategory(ctx context.Context, category string) ([]models.SettingEntry, error) {
	all, _ := r.LoadAll(ctx)
	var out []models.SettingEntry
	for _, e := range all {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemorySettingsRepo) UpdateOne(ctx context.Context, key, value string) error {
	return r.UpdateMany(ctx, []models.SettingUpdate{{Key: key, Value: value}})
}

// UpdateMany applies every update or none.
func (r *MemorySettingsRepo) UpdateMany(ctx context.Context, updates []models.SettingUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	for _, u := range updates {
		if _, ok := r.entries[u.Key]; !ok {
			return fmt.Errorf("system setting with key '%s' not found: %w", u.Key, models.ErrNotFound)
		}
	}
	for _, u := range updates {
		e := r.entries[u.Key]
		v := u.Value
		e.Value = &v
		r.entries[u.Key] = e
	}
	r.Writes++
	return nil
}

// Value returns the stored raw value of key.
func (r *MemorySettingsRepo) Value(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.entries[key].Value; v != nil {
		return *v
	}
	return ""
}

// DefaultSettingsRepo holds a small mixed-type catalog.
func DefaultSettingsRepo() *MemorySettingsRepo {
	return NewMemorySettingsRepo(
		Setting("max_login_attempts", "5", models.ValueTypeInt, "auth", false),
		Setting("maintenance_mode", "false", models.ValueTypeBool, "general", false),
		Setting("site_name", "PriceFeed", models.ValueTypeString, "general", false),
		Setting("smtp_password", "enc:v1:old", models.ValueTypeEncrypted, "email", true),
		Setting("smtp_host", "mail.example.com", models.ValueTypeString, "email", false),
	)
}
