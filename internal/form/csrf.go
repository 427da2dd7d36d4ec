// internal/form/csrf.go
//
// Welcome – Forms subsystem: stateless CSRF tokens.
//
// Context
//   The login card embeds a hidden `csrf_token` input, and the JSON API
//   expects the same token in the X-CSRF-Token header.  Tokens are stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(key, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with the configured login.csrf_key.
//
//   Verify checks the signature and that the issue time lies within MaxAge
//   (with one minute of tolerated clock skew).  No server-side storage is
//   needed, so any instance can verify any token.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size

	// MaxAge bounds how long a rendered form stays submittable.
	MaxAge = 2 * time.Hour
	// MinKeyBytes is the shortest accepted HMAC key.
	MinKeyBytes = 32
)

// ErrShortKey is returned by NewCSRF for keys under MinKeyBytes.
var ErrShortKey = errors.New("csrf key must be at least 32 bytes")

// CSRF issues and verifies tokens.  Safe for concurrent use.
type CSRF struct {
	key []byte
	now func() time.Time
}

// NewCSRF returns a CSRF bound to key.
func NewCSRF(key []byte) (*CSRF, error) {
	if len(key) < MinKeyBytes {
		return nil, ErrShortKey
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &CSRF{key: k, now: time.Now}, nil
}

// RandomKey returns a fresh key for processes started without one.  Tokens
// signed with it do not survive a restart.
func RandomKey() ([]byte, error) {
	k := make([]byte, MinKeyBytes)
	if _, err := rand.Read(k); err != nil {
		return nil, err
	}
	return k, nil
}

// Token creates a new token.  Call once per render.
func (c *CSRF) Token() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf[:nonceBytes]); err != nil {
		return "", err
	}
	binary.BigEndian.PutUint64(buf[nonceBytes:nonceBytes+8], uint64(c.now().UnixMicro()))
	copy(buf[nonceBytes+8:], c.sign(buf[:nonceBytes+8]))
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok was issued by c and has not expired.
func (c *CSRF) Verify(tok string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(raw[nonceBytes : nonceBytes+8])))
	now := c.now()
	if now.Sub(issued) > MaxAge || issued.Sub(now) > time.Minute {
		return false
	}
	return hmac.Equal(raw[nonceBytes+8:], c.sign(raw[:nonceBytes+8]))
}

func (c *CSRF) sign(msg []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(msg)
	return mac.Sum(nil)
}
