package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptySecret(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	c, err := New([]byte("s3cret"))
	require.NoError(t, err)

	sig, err := c.Sign("header.payload")
	require.NoError(t, err)
	assert.NotContains(t, sig, "=")
	assert.NoError(t, c.Verify("header.payload", sig))
	assert.Equal(t, "HS256", c.Alg())
}

func TestVerify_Rejects(t *testing.T) {
	c, err := New([]byte("s3cret"))
	require.NoError(t, err)
	other, err := New([]byte("different"))
	require.NoError(t, err)

	sig, err := c.Sign("header.payload")
	require.NoError(t, err)
	foreign, err := other.Sign("header.payload")
	require.NoError(t, err)

	flipped := []byte(sig)
	if flipped[0] == 'A' {
		flipped[0] = 'B'
	} else {
		flipped[0] = 'A'
	}

	cases := map[string]struct{ payload, sig string }{
		"tampered payload": {"header.payloaX", sig},
		"foreign key":      {"header.payload", foreign},
		"flipped byte":     {"header.payload", string(flipped)},
		"truncated":        {"header.payload", sig[:len(sig)-4]},
		"not base64":       {"header.payload", "!!!"},
		"empty":            {"header.payload", ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, c.Verify(tc.payload, tc.sig), ErrSignatureInvalid)
		})
	}
}

func TestSecretIsCopied(t *testing.T) {
	secret := []byte("mutable")
	c, err := New(secret)
	require.NoError(t, err)
	sig, err := c.Sign("p")
	require.NoError(t, err)

	copy(secret, strings.Repeat("x", len(secret)))
	assert.NoError(t, c.Verify("p", sig))
}
