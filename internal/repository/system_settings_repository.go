package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/db"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/db/queries"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/lib/pq"
)

// SystemSettingsRepository handles database operations for system settings.
type SystemSettingsRepository struct {
	db  *db.DB
	now func() time.Time
}

// NewSystemSettingsRepository creates a new instance of SystemSettingsRepository.
func NewSystemSettingsRepository(database *db.DB) *SystemSettingsRepository {
	return &SystemSettingsRepository{db: database, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSetting(row rowScanner) (models.SettingEntry, error) {
	var (
		setting   models.SettingEntry
		valueType string
	)
	err := row.Scan(
		&setting.Key,
		&setting.Value,
		&valueType,
		&setting.Category,
		&setting.Description,
		&setting.Sensitive,
		&setting.UpdatedAt,
	)
	if err != nil {
		return setting, err
	}
	vt, err := models.ParseValueType(valueType)
	if err != nil {
		// Readers fall back to defaults for values they cannot interpret, so an
		// unknown tag is treated as a plain string rather than failing the load.
		debug.Warning("Setting %s has unknown value_type %q, treating as string", setting.Key, valueType)
		vt = models.ValueTypeString
	}
	setting.ValueType = vt
	return setting, nil
}

func (r *SystemSettingsRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.SettingEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list system settings: %w", err)
	}
	defer rows.Close()

	var settings []models.SettingEntry
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan system setting row: %w", err)
		}
		settings = append(settings, setting)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating system setting rows: %w", err)
	}
	return settings, nil
}

// LoadAll reads the whole settings table in one round trip.
func (r *SystemSettingsRepository) LoadAll(ctx context.Context) ([]models.SettingEntry, error) {
	return r.list(ctx, queries.LoadAllSettings)
}

// ListByCategory returns the settings of one category ordered by key.
func (r *SystemSettingsRepository) ListByCategory(ctx context.Context, category string) ([]models.SettingEntry, error) {
	return r.list(ctx, queries.ListSettingsByCategory, category)
}

// GetSetting retrieves a specific setting by its key.
func (r *SystemSettingsRepository) GetSetting(ctx context.Context, key string) (*models.SettingEntry, error) {
	setting, err := scanSetting(r.db.QueryRowContext(ctx, queries.GetSettingByKey, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("system setting with key '%s' not found: %w", key, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get system setting by key '%s': %w", key, err)
	}
	return &setting, nil
}

// UpdateOne sets a single setting's value.
func (r *SystemSettingsRepository) UpdateOne(ctx context.Context, key, value string) error {
	// Values may be secrets, so this bypasses the argument-logging wrapper.
	result, err := r.db.DB.ExecContext(ctx, queries.UpdateSettingValue, value, r.now(), key)
	if err != nil {
		return fmt.Errorf("failed to set system setting '%s': %w", key, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		debug.Warning("Could not get rows affected after updating system setting %s: %v", key, err)
	} else if rowsAffected == 0 {
		return fmt.Errorf("system setting with key '%s' not found for update: %w", key, models.ErrNotFound)
	}
	return nil
}

// UpdateMany applies a batch of updates atomically. If any key does not exist
// nothing is written. Later duplicates of a key win.
func (r *SystemSettingsRepository) UpdateMany(ctx context.Context, updates []models.SettingUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	index := make(map[string]int, len(updates))
	keys := make([]string, 0, len(updates))
	values := make([]string, 0, len(updates))
	for _, u := range updates {
		if i, seen := index[u.Key]; seen {
			values[i] = u.Value
			continue
		}
		index[u.Key] = len(keys)
		keys = append(keys, u.Key)
		values = append(values, u.Value)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, queries.UpdateSettingValues, pq.Array(keys), pq.Array(values), r.now())
		if err != nil {
			return fmt.Errorf("failed to update %d system settings: %w", len(keys), err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to confirm system settings update: %w", err)
		}
		if rowsAffected != int64(len(keys)) {
			return fmt.Errorf("updated %d of %d system settings, unknown keys in batch: %w",
				rowsAffected, len(keys), models.ErrNotFound)
		}
		return nil
	})
}

// Seed inserts entries that do not exist yet and leaves existing rows alone.
// It returns the number of rows inserted.
func (r *SystemSettingsRepository) Seed(ctx context.Context, entries []models.SettingEntry) (int, error) {
	inserted := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		now := r.now()
		for _, e := range entries {
			result, err := tx.ExecContext(ctx, queries.SeedSetting,
				e.Key, e.Value, string(e.ValueType), e.Category, e.Description, e.Sensitive, now)
			if err != nil {
				return fmt.Errorf("failed to seed system setting '%s': %w", e.Key, err)
			}
			if n, err := result.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
