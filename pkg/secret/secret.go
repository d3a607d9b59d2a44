// Package secret seals and opens setting values declared as "encrypted".
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

// Prefix marks a value produced by Seal.
const Prefix = "enc:v1:"

const nonceSize = 24

var (
	// ErrNoKey is returned when an operation needs a key and none was configured.
	ErrNoKey = errors.New("no settings encryption key configured")
	// ErrMalformed is returned for sealed values that cannot be decoded or authenticated.
	ErrMalformed = errors.New("malformed sealed value")
)

// Box holds a derived secretbox key. The zero value has no key.
type Box struct {
	key   [32]byte
	valid bool
}

// NewBox derives a 32-byte key from the passphrase with HKDF-SHA256.
// An empty passphrase yields a Box without a key.
func NewBox(passphrase string) (*Box, error) {
	b := &Box{}
	if passphrase == "" {
		return b, nil
	}
	kdf := hkdf.New(sha256.New, []byte(passphrase), nil, []byte("pricefeed-settings"))
	if _, err := io.ReadFull(kdf, b.key[:]); err != nil {
		return nil, fmt.Errorf("derive settings key: %w", err)
	}
	b.valid = true
	return b, nil
}

// HasKey reports whether the box can seal values.
func (b *Box) HasKey() bool {
	return b != nil && b.valid
}

// IsSealed reports whether raw carries the sealed-value prefix.
func IsSealed(raw string) bool {
	return strings.HasPrefix(raw, Prefix)
}

// Seal encrypts plaintext. Already sealed input is returned unchanged.
func (b *Box) Seal(plaintext string) (string, error) {
	if IsSealed(plaintext) {
		return plaintext, nil
	}
	if !b.HasKey() {
		return "", ErrNoKey
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &b.key)
	return Prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a sealed value. Values without the prefix were stored before a
// key existed and are returned verbatim.
func (b *Box) Open(raw string) (string, error) {
	if !IsSealed(raw) {
		return raw, nil
	}
	if !b.HasKey() {
		return "", ErrNoKey
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(raw, Prefix))
	if err != nil || len(data) < nonceSize+secretbox.Overhead {
		return "", ErrMalformed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])
	plain, ok := secretbox.Open(nil, data[nonceSize:], &nonce, &b.key)
	if !ok {
		return "", ErrMalformed
	}
	return string(plain), nil
}
