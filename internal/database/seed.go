package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
)

//go:embed defaults.toml
var defaultsTOML string

type catalog struct {
	Settings []defaultSetting `toml:"setting"`
}

type defaultSetting struct {
	Key         string `toml:"key"`
	Value       string `toml:"value"`
	Type        string `toml:"type"`
	Category    string `toml:"category"`
	Description string `toml:"description"`
	Sensitive   bool   `toml:"sensitive"`
}

// Seeder inserts settings rows that are missing.
// *repository.SystemSettingsRepository implements it.
type Seeder interface {
	Seed(ctx context.Context, entries []models.SettingEntry) (int, error)
}

// DefaultSettings parses the embedded catalog. Every value is checked
// against its declared type.
func DefaultSettings() ([]models.SettingEntry, error) {
	return parseCatalog(defaultsTOML)
}

func parseCatalog(data string) ([]models.SettingEntry, error) {
	var c catalog
	meta, err := toml.Decode(data, &c)
	if err != nil {
		return nil, fmt.Errorf("decode settings catalog: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown fields in settings catalog: %v", undecoded)
	}

	seen := make(map[string]bool, len(c.Settings))
	entries := make([]models.SettingEntry, 0, len(c.Settings))
	for _, s := range c.Settings {
		if s.Key == "" {
			return nil, fmt.Errorf("settings catalog entry without key: %w", models.ErrInvalidInput)
		}
		if seen[s.Key] {
			return nil, fmt.Errorf("duplicate setting %q in catalog: %w", s.Key, models.ErrInvalidInput)
		}
		seen[s.Key] = true

		vt, err := models.ParseValueType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", s.Key, err)
		}
		if s.Value != "" {
			if _, err := settings.Parse(vt, s.Value); err != nil {
				return nil, fmt.Errorf("default for %q: %w", s.Key, err)
			}
		}

		value := s.Value
		entries = append(entries, models.SettingEntry{
			Key:         s.Key,
			Value:       &value,
			ValueType:   vt,
			Category:    s.Category,
			Description: s.Description,
			Sensitive:   s.Sensitive,
		})
	}
	return entries, nil
}

// SeedDefaults inserts the default catalog, leaving existing rows alone.
func SeedDefaults(ctx context.Context, seeder Seeder) (int, error) {
	entries, err := DefaultSettings()
	if err != nil {
		return 0, err
	}
	n, err := seeder.Seed(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("seed default settings: %w", err)
	}
	debug.Info("Seeded %d of %d default settings", n, len(entries))
	return n, nil
}
