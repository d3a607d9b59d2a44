package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetOrDefault(t *testing.T) {
	t.Setenv("PF_TEST_VALUE", "")
	assert.Equal(t, "fallback", GetOrDefault("PF_TEST_VALUE", "fallback"))

	t.Setenv("PF_TEST_VALUE", "set")
	assert.Equal(t, "set", GetOrDefault("PF_TEST_VALUE", "fallback"))
}

func TestGetBool(t *testing.T) {
	for _, v := range []string{"true", "1", "yes", "Y"} {
		t.Setenv("PF_TEST_BOOL", v)
		assert.True(t, GetBool("PF_TEST_BOOL"), v)
	}
	for _, v := range []string{"", "false", "0", "on"} {
		t.Setenv("PF_TEST_BOOL", v)
		assert.False(t, GetBool("PF_TEST_BOOL"), v)
	}
}

func TestGetIntOrDefault(t *testing.T) {
	t.Setenv("PF_TEST_INT", "42")
	assert.Equal(t, 42, GetIntOrDefault("PF_TEST_INT", 7))

	t.Setenv("PF_TEST_INT", "forty")
	assert.Equal(t, 7, GetIntOrDefault("PF_TEST_INT", 7))
}

func TestGetDurationOrDefault(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"90", 90 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"soon", time.Minute},
		{"-5s", time.Minute},
	}
	for _, tt := range tests {
		t.Setenv("PF_TEST_DURATION", tt.value)
		assert.Equal(t, tt.want, GetDurationOrDefault("PF_TEST_DURATION", time.Minute), "value %q", tt.value)
	}
}
