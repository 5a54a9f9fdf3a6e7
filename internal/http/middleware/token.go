package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxKeyUser = "user"

// TokenCfg configures how the signed token cookie issued by the backend is
// read. The BFF never mints tokens; it only verifies them.
type TokenCfg struct {
	Secret     []byte
	CookieName string
	Secure     bool
}

// Claims is the payload of the backend token. Older tokens carry the user
// id as "id" instead of "sub".
type Claims struct {
	UserID string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) subject() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// ContextUser is the authenticated caller. Token is forwarded to the backend.
type ContextUser struct {
	ID        string
	Email     string
	Role      string
	Token     string
	ExpiresAt time.Time
}

func (u ContextUser) IsAdmin() bool { return u.Role == "admin" }

var ErrNoToken = errors.New("no token")

// ParseToken verifies raw with secret and returns the user it names.
func ParseToken(secret []byte, raw string) (ContextUser, error) {
	if raw == "" {
		return ContextUser{}, ErrNoToken
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}), jwt.WithExpirationRequired())
	if err != nil {
		return ContextUser{}, err
	}
	if claims.subject() == "" {
		return ContextUser{}, errors.New("token has no subject")
	}
	u := ContextUser{ID: claims.subject(), Email: claims.Email, Role: claims.Role, Token: raw}
	if claims.ExpiresAt != nil {
		u.ExpiresAt = claims.ExpiresAt.Time
	}
	return u, nil
}

// TokenSession puts the verified caller into the context. The token comes
// from the cookie, or from an Authorization bearer header (admin CLI).
// Invalid cookies are cleared and the request continues anonymous.
func TokenSession(cfg TokenCfg) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, fromCookie := bearer(c), false
		if raw == "" {
			if v, err := c.Cookie(cfg.CookieName); err == nil {
				raw, fromCookie = v, true
			}
		}
		if raw == "" {
			c.Next()
			return
		}

		u, err := ParseToken(cfg.Secret, raw)
		if err != nil {
			if fromCookie {
				ClearTokenCookie(c, cfg)
			}
			c.Next()
			return
		}

		c.Set(ctxKeyUser, u)
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// SetTokenCookie stores a backend token for the browser until it expires.
func SetTokenCookie(c *gin.Context, cfg TokenCfg, u ContextUser) {
	maxAge := int(time.Until(u.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = int((24 * time.Hour).Seconds())
	}
	writeCookie(c, cfg.CookieName, u.Token, maxAge, cfg.Secure)
}

func ClearTokenCookie(c *gin.Context, cfg TokenCfg) {
	expireCookie(c, cfg.CookieName, cfg.Secure)
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c *gin.Context) (ContextUser, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return ContextUser{}, false
	}
	u, ok := v.(ContextUser)
	return u, ok && u.ID != ""
}
