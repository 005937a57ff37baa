package middleware

import (
	"strings"

	"feedline/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserIDKey کلید userID در gin.Context
const UserIDKey = "userID"

type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token and
// stores the caller's id under UserIDKey.
func JWTAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			RespondError(c, logger, apperr.InvalidToken("Not authenticated.", nil))
			return
		}
		userID, err := verifier.VerifyToken(token)
		if err != nil {
			RespondError(c, logger, err)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the id JWTAuthMiddleware stored.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// OptionalAuth sets UserIDKey when a valid token is present and never rejects.
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if userID, err := verifier.VerifyToken(token); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}
