package queries

// System settings queries
const (
	LoadAllSettings = `
		SELECT key, value, value_type, category, description, is_sensitive, updated_at
		FROM system_settings`

	ListSettingsByCategory = `
		SELECT key, value, value_type, category, description, is_sensitive, updated_at
		FROM system_settings
		WHERE category = $1
		ORDER BY key ASC`

	GetSettingByKey = `
		SELECT key, value, value_type, category, description, is_sensitive, updated_at
		FROM system_settings
		WHERE key = $1`

	UpdateSettingValue = `
		UPDATE system_settings
		SET value = $1, updated_at = $2
		WHERE key = $3`

	// UpdateSettingValues applies a whole admin save in one statement.
	// $1 and $2 are parallel key/value arrays.
	UpdateSettingValues = `
		UPDATE system_settings AS s
		SET value = v.value, updated_at = $3
		FROM unnest($1::text[], $2::text[]) AS v(key, value)
		WHERE s.key = v.key`

	SeedSetting = `
		INSERT INTO system_settings (key, value, value_type, category, description, is_sensitive, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key) DO NOTHING`
)
