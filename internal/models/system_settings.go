package models

import (
	"fmt"
	"time"
)

// ValueType is the declared type of a setting's raw value.
type ValueType string

const (
	ValueTypeString    ValueType = "string"
	ValueTypeBool      ValueType = "bool"
	ValueTypeInt       ValueType = "int"
	ValueTypeEncrypted ValueType = "encrypted"
)

// ParseValueType validates a value_type column.
func ParseValueType(s string) (ValueType, error) {
	switch vt := ValueType(s); vt {
	case ValueTypeString, ValueTypeBool, ValueTypeInt, ValueTypeEncrypted:
		return vt, nil
	default:
		return "", fmt.Errorf("unknown setting value type %q: %w", s, ErrInvalidInput)
	}
}

// SettingEntry is one row of the system_settings table.
type SettingEntry struct {
	Key         string    `json:"key" db:"key"`
	Value       *string   `json:"value" db:"value"` // NULL-able TEXT
	ValueType   ValueType `json:"value_type" db:"value_type"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	Sensitive   bool      `json:"sensitive" db:"is_sensitive"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SettingUpdate is a single key/value pair from an administrative save.
type SettingUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MaskedValue replaces sensitive values in listings. Submitting it back
// leaves the stored value unchanged.
const MaskedValue = "********"

// Masked returns a copy safe for display: sensitive values are replaced.
func (e SettingEntry) Masked() SettingEntry {
	if !e.Sensitive || e.Value == nil || *e.Value == "" {
		return e
	}
	masked := MaskedValue
	e.Value = &masked
	return e
}
