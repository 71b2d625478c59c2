package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// Middleware resolves the caller's identity when a verifiable token is
// present and stores it on the request context. It never rejects by itself:
// each handler decides what an unauthenticated request means for its route.
func Middleware(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractToken(c); tokenString != "" {
			if identity, err := verifier.Verify(tokenString); err == nil {
				c.Set(identityKey, identity)
			}
		}
		c.Next()
	}
}

// IdentityFrom returns the resolved identity for the request, or nil for an
// unauthenticated caller.
func IdentityFrom(c *gin.Context) *Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := value.(*Identity)
	if !ok {
		return nil
	}
	return identity
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
