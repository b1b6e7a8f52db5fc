// internal/form/csrf.go
//
// Stateless CSRF tokens for public site forms.
//
// Context
//   Gate and contact forms embed a hidden `csrf_token` input generated at
//   render time.  The token is
//
//      base64url( nonce | unixMicro | HMAC_SHA256(key, nonce+unixMicro) )
//
//   so any instance holding the key can verify it without a session.  Public
//   pages stay cache-friendly and multi-instance safe.
//
// Workflow
//   •  Guard.Token()      → token string for the renderer.
//   •  Guard.Verify(tok)  → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"time"

	"go.uber.org/zap"
)

const (
	tokenBytes = 16 + 8 + sha256.Size // nonce + ts + sig
	tokenTTL   = 2 * time.Hour
)

// Guard issues and verifies CSRF tokens.
type Guard struct {
	key []byte
	now func() time.Time
}

// NewGuard returns a Guard keyed by key, a base64url string of at least 32
// bytes.  Anything shorter is replaced by a random key and a warning, so
// tokens only survive until the next restart.
func NewGuard(key string) *Guard {
	if b, err := base64.RawURLEncoding.DecodeString(key); err == nil && len(b) >= 32 {
		return &Guard{key: b, now: time.Now}
	}
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	zap.L().Warn("form: publish.csrf_key not set or too short, using an ephemeral key")
	return &Guard{key: b, now: time.Now}
}

// Token creates a new token.  Call once per form render.
func (g *Guard) Token() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(g.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, g.sign(nonce, ts)...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok carries a valid signature and is younger than
// two hours.
func (g *Guard) Verify(tok string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}
	nonce, ts, sig := raw[:16], raw[16:24], raw[24:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(ts)))
	now := g.now()
	if now.Sub(issued) > tokenTTL || issued.Sub(now) > time.Minute {
		// too old, or from the future beyond clock skew
		return false
	}
	return hmac.Equal(sig, g.sign(nonce, ts))
}

func (g *Guard) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, g.key)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
