// Package signature computes and verifies keyed integrity tags.
//
// It wraps the HS256 primitive from golang-jwt (HMAC-SHA256, verified with
// hmac.Equal). The codec holds only its key.
package signature

import (
	"encoding/base64"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret      = errors.New("signature: empty secret")
	ErrSignatureInvalid = errors.New("signature: invalid")
)

// Codec signs and verifies strings with a server-held secret.
type Codec struct {
	key    []byte
	method *jwt.SigningMethodHMAC
}

func New(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{key: key, method: jwt.SigningMethodHS256}, nil
}

// Alg is the JOSE algorithm name of the signatures this codec produces.
func (c *Codec) Alg() string { return c.method.Alg() }

// Sign returns the unpadded base64url MAC of signingString.
func (c *Codec) Sign(signingString string) (string, error) {
	sig, err := c.method.Sign(signingString, c.key)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify checks signature against signingString in constant time.
func (c *Codec) Verify(signingString, signature string) error {
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return ErrSignatureInvalid
	}
	if err := c.method.Verify(signingString, sig, c.key); err != nil {
		return ErrSignatureInvalid
	}
	return nil
}
