package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox_SealOpen(t *testing.T) {
	box, err := NewBox("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, box.HasKey())

	sealed, err := box.Seal("smtp-password")
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, sealed, "smtp-password")

	again, err := box.Seal(sealed)
	require.NoError(t, err)
	assert.Equal(t, sealed, again, "sealing twice must not double-encrypt")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "smtp-password", plain)
}

func TestBox_WrongKey(t *testing.T) {
	a, err := NewBox("key-a")
	require.NoError(t, err)
	b, err := NewBox("key-b")
	require.NoError(t, err)

	sealed, err := a.Seal("value")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBox_NoKey(t *testing.T) {
	box, err := NewBox("")
	require.NoError(t, err)
	assert.False(t, box.HasKey())

	_, err = box.Seal("value")
	assert.ErrorIs(t, err, ErrNoKey)

	plain, err := box.Open("legacy plaintext")
	require.NoError(t, err)
	assert.Equal(t, "legacy plaintext", plain)

	_, err = box.Open(Prefix + "AAAA")
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestBox_OpenMalformed(t *testing.T) {
	box, err := NewBox("key")
	require.NoError(t, err)

	for _, raw := range []string{Prefix + "!!!not-base64", Prefix + "c2hvcnQ="} {
		_, err := box.Open(raw)
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
}
