package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/session"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Session context keys
const (
	SessionIDKey = "session_id"
	SessionKey   = "session"
)

// DefaultSessionCookie is the cookie name used when none is configured
const DefaultSessionCookie = "sf_session"

// SessionConfig holds the device cookie attributes
type SessionConfig struct {
	CookieName string
	Domain     string
	Path       string
	Secure     bool
	SameSite   http.SameSite
	MaxAge     time.Duration
}

// ParseSameSite maps "strict", "lax" or "none" to http.SameSite, defaulting to lax
func ParseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Session attaches the device's storefront session, issuing a new cookie when the
// request carries none or an unparseable one. Safe methods reuse a live session or get a
// transient one; only writes register a session.
func Session(registry *session.Registry, cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}

	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    id,
			Path:     cfg.Path,
			Domain:   cfg.Domain,
			MaxAge:   int(cfg.MaxAge.Seconds()),
			Secure:   cfg.Secure,
			HttpOnly: true,
			SameSite: cfg.SameSite,
		})

		sess, ok := registry.Lookup(id)
		if !ok {
			if isSafeMethod(c.Request.Method) {
				sess = registry.Transient(id)
			} else if sess, err = registry.Get(id); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeNoSession, "Session unavailable", GetRequestID(c)))
				return
			}
		}

		c.Set(SessionIDKey, id)
		c.Set(SessionKey, sess)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), id))
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// GetSessionID returns the device/session ID
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GetSession returns the session attached by Session
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}
