package credcrypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestCipher_RoundTrip(t *testing.T) {
	c, err := New(testKey)
	require.NoError(t, err)

	for _, plain := range []string{"", "x", `{"userUri":"https://api.calendly.com/users/1","password":"secret"}`, strings.Repeat("a", 16)} {
		enc, err := c.Encrypt(plain)
		require.NoError(t, err)
		assert.Contains(t, enc, ":")

		dec, err := c.Decrypt(enc)
		require.NoError(t, err)
		assert.Equal(t, plain, dec)
	}
}

func TestCipher_RandomIV(t *testing.T) {
	c, err := New(testKey)
	require.NoError(t, err)

	a, err := c.Encrypt("same")
	require.NoError(t, err)
	b, err := c.Encrypt("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestNew_InvalidKey(t *testing.T) {
	_, err := New("short")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNew_Latin1Key(t *testing.T) {
	key := strings.Repeat("k", 31) + "é"

	raw, err := latin1Bytes(key)
	require.NoError(t, err)
	require.Len(t, raw, 32)
	assert.Equal(t, byte(0xE9), raw[31])

	c, err := New(key)
	require.NoError(t, err)

	enc, err := c.Encrypt("token")
	require.NoError(t, err)
	dec, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "token", dec)
}

func TestNew_NonLatin1Key(t *testing.T) {
	_, err := New(strings.Repeat("k", 31) + "€")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestCipher_DecryptMalformed(t *testing.T) {
	c, err := New(testKey)
	require.NoError(t, err)

	for _, in := range []string{"no-separator", "zz:00", "00112233445566778899aabbccddeeff:abc", "00112233445566778899aabbccddeeff:"} {
		_, err := c.Decrypt(in)
		assert.ErrorIs(t, err, ErrMalformed, in)
	}
}

func TestCipher_DecryptWrongKey(t *testing.T) {
	c1, err := New(testKey)
	require.NoError(t, err)
	c2, err := New("fedcba9876543210fedcba9876543210")
	require.NoError(t, err)

	enc, err := c1.Encrypt("payload that spans more than one block")
	require.NoError(t, err)

	dec, err := c2.Decrypt(enc)
	if err == nil {
		assert.NotEqual(t, "payload that spans more than one block", dec)
	}
}
