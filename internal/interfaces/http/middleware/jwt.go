package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// TokenValidator verifies viewer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// OptionalJWT extracts the viewer identity when a valid bearer token is present.
// Storefront browsing is anonymous, so a missing or invalid token never rejects the request.
func OptionalJWT(validator TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if validator == nil || !strings.HasPrefix(header, BearerPrefix) {
			c.Next()
			return
		}
		token := strings.TrimPrefix(header, BearerPrefix)
		if token == "" {
			c.Next()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			logger.Debug("Ignoring invalid viewer token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			c.Next()
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Next()
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetViewerID returns the signed-in viewer's user ID, or empty
func GetViewerID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}
