package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldCipher_RoundTrip(t *testing.T) {
	c, err := NewFieldCipher("s3cret")
	require.NoError(t, err)

	for _, in := range []string{"", "asha@example.com", "pässwörd-ñ"} {
		enc, err := c.Encrypt(in)
		require.NoError(t, err)
		if in != "" {
			assert.NotContains(t, enc, in)
		}

		out, err := c.Decrypt(enc)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestFieldCipher_NonceIsRandom(t *testing.T) {
	c, err := NewFieldCipher("s3cret")
	require.NoError(t, err)

	a, _ := c.Encrypt("same")
	b, _ := c.Encrypt("same")
	assert.NotEqual(t, a, b)
}

func TestFieldCipher_RejectsTamperingAndWrongKey(t *testing.T) {
	c, _ := NewFieldCipher("s3cret")
	other, _ := NewFieldCipher("different")

	enc, err := c.Encrypt("payload")
	require.NoError(t, err)

	_, err = other.Decrypt(enc)
	assert.ErrorIs(t, err, ErrCiphertext)

	raw := []byte(enc)
	if raw[len(raw)/2] == 'A' {
		raw[len(raw)/2] = 'B'
	} else {
		raw[len(raw)/2] = 'A'
	}
	_, err = c.Decrypt(string(raw))
	assert.ErrorIs(t, err, ErrCiphertext)

	_, err = c.Decrypt("!!not-base64!!")
	assert.ErrorIs(t, err, ErrCiphertext)

	_, err = c.Decrypt("c2hvcnQ")
	assert.ErrorIs(t, err, ErrCiphertext)
}

func TestNewFieldCipher_EmptySecret(t *testing.T) {
	_, err := NewFieldCipher("")
	assert.Error(t, err)
}
