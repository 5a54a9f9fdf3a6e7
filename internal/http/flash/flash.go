// Package flash seals one-shot dashboard notices into a signed cookie value.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"silicon.com/app/pkg/view"
)

var ErrInvalid = errors.New("invalid flash cookie")

// TTL bounds how long a sealed flash is honored.
const TTL = 2 * time.Minute

// Codec signs flashes with HMAC-SHA256. The cookie value is
// base64(json) "." base64(mac).
type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool

	now func() time.Time
}

func NewCodec(secret []byte, cookieName string, secure bool) *Codec {
	return &Codec{Secret: secret, CookieName: cookieName, Secure: secure, now: time.Now}
}

// Encode stamps f with the current time unless it already has one.
func (c *Codec) Encode(f view.Flash) (string, error) {
	if !f.Kind.Valid() {
		f.Kind = view.FlashInfo
	}
	if f.IssuedAt == 0 {
		f.IssuedAt = c.clock().Unix()
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + "." + c.mac(body), nil
}

// Decode returns ErrInvalid for anything tampered, malformed, empty or
// older than TTL.
func (c *Codec) Decode(v string) (*view.Flash, error) {
	body, sig, ok := strings.Cut(v, ".")
	if !ok || !hmac.Equal([]byte(c.mac(body)), []byte(sig)) {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrInvalid
	}
	var f view.Flash
	if json.Unmarshal(raw, &f) != nil || !f.Kind.Valid() || strings.TrimSpace(f.Message) == "" {
		return nil, ErrInvalid
	}
	if f.Expired(c.clock(), TTL) {
		return nil, ErrInvalid
	}
	return &f, nil
}

func (c *Codec) CookieMaxAge() int { return int(TTL / time.Second) }

// WithClock swaps the time source (tests).
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

func (c *Codec) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func (c *Codec) mac(body string) string {
	m := hmac.New(sha256.New, c.Secret)
	m.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}
