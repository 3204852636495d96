package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathapp/internal/api/response"
	"github.com/abhisek/mathapp/internal/auth"
	"github.com/abhisek/mathapp/internal/logger"
)

// Context keys set by RequireAuth.
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	log      *logger.Logger
	verifier TokenVerifier
}

func NewAuthMiddleware(log *logger.Logger, verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "auth"), verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := am.verifier.Verify(token)
		if err != nil {
			am.log.Debug("rejected token", "error", err)
			response.AbortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user, or "" outside RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
