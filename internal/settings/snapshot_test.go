package settings

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(key, value string, vt models.ValueType) models.SettingEntry {
	return models.SettingEntry{Key: key, Value: &value, ValueType: vt}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		vt      models.ValueType
		raw     string
		want    Value
		wantErr bool
	}{
		{name: "string", vt: models.ValueTypeString, raw: "hello", want: Value{Type: models.ValueTypeString, Str: "hello"}},
		{name: "bool true", vt: models.ValueTypeBool, raw: "true", want: Value{Type: models.ValueTypeBool, Bool: true}},
		{name: "bool false", vt: models.ValueTypeBool, raw: "false", want: Value{Type: models.ValueTypeBool}},
		{name: "bool rejects TRUE", vt: models.ValueTypeBool, raw: "TRUE", wantErr: true},
		{name: "bool rejects 1", vt: models.ValueTypeBool, raw: "1", wantErr: true},
		{name: "int", vt: models.ValueTypeInt, raw: "15", want: Value{Type: models.ValueTypeInt, Int: 15}},
		{name: "int trims", vt: models.ValueTypeInt, raw: " 15 ", want: Value{Type: models.ValueTypeInt, Int: 15}},
		{name: "int rejects text", vt: models.ValueTypeInt, raw: "abc", wantErr: true},
		{name: "int rejects float", vt: models.ValueTypeInt, raw: "1.5", wantErr: true},
		{name: "encrypted keeps stored form", vt: models.ValueTypeEncrypted, raw: "enc:v1:xyz", want: Value{Type: models.ValueTypeEncrypted, Sealed: "enc:v1:xyz"}},
		{name: "unknown type", vt: "json", raw: "{}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.vt, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.TrimSpace(tt.raw), got.String())
		})
	}
}

func TestSnapshot_Typed(t *testing.T) {
	snap := NewSnapshot([]models.SettingEntry{
		entry("max_login_attempts", "5", models.ValueTypeInt),
		entry("maintenance_mode", "yes", models.ValueTypeBool),
		entry("site_name", "PriceFeed", models.ValueTypeString),
	}, time.Now())

	v, ok := snap.Typed("max_login_attempts")
	require.True(t, ok)
	assert.Equal(t, 5, v.Int)

	_, ok = snap.Typed("maintenance_mode")
	assert.False(t, ok)
	assert.False(t, snap.Bool("maintenance_mode"))

	v, ok = snap.Typed("site_name")
	require.True(t, ok)
	assert.Equal(t, "PriceFeed", v.Str)

	_, ok = snap.Typed("missing")
	assert.False(t, ok)
}

func TestSnapshot_MalformedLoggedOncePerSnapshot(t *testing.T) {
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	debug.SetLevel(debug.LevelWarning)
	t.Cleanup(func() {
		debug.SetOutput(os.Stdout)
		debug.Reinitialize()
	})

	entries := []models.SettingEntry{entry("price_expiry_days", "seven", models.ValueTypeInt)}
	snap := NewSnapshot(entries, time.Now())
	for i := 0; i < 3; i++ {
		assert.Equal(t, 7, snap.Int("price_expiry_days", 7))
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "price_expiry_days"))

	next := NewSnapshot(entries, time.Now())
	next.Int("price_expiry_days", 7)
	assert.Equal(t, 2, strings.Count(buf.String(), "price_expiry_days"), "a new snapshot reports again")
}

func TestSnapshot_Secret(t *testing.T) {
	box, err := secret.NewBox("test passphrase")
	require.NoError(t, err)
	sealed, err := box.Seal("smtp-pass")
	require.NoError(t, err)

	snap := NewSnapshot([]models.SettingEntry{
		entry("smtp_password", sealed, models.ValueTypeEncrypted),
		entry("captcha_secret_key", "legacy-plain", models.ValueTypeEncrypted),
		entry("empty_secret", "", models.ValueTypeEncrypted),
	}, time.Now())

	plain, ok := snap.Secret("smtp_password", box)
	require.True(t, ok)
	assert.Equal(t, "smtp-pass", plain)

	plain, ok = snap.Secret("captcha_secret_key", box)
	require.True(t, ok)
	assert.Equal(t, "legacy-plain", plain, "values stored before a key existed read verbatim")

	_, ok = snap.Secret("empty_secret", box)
	assert.False(t, ok)

	wrongKey, err := secret.NewBox("other passphrase")
	require.NoError(t, err)
	_, ok = snap.Secret("smtp_password", wrongKey)
	assert.False(t, ok)
}

func TestSnapshot_StringFallback(t *testing.T) {
	snap := SnapshotOf(map[string]string{"site_name": "", "cors_origins": "https://a.example"})
	assert.Equal(t, "PriceFeed", snap.String("site_name", "PriceFeed"))
	assert.Equal(t, "https://a.example", snap.String("cors_origins", "*"))
	assert.Equal(t, "*", snap.String("missing", "*"))
	assert.Equal(t, 2, snap.Len())
}
