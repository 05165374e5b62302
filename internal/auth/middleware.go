package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "authClaims"

// RequireAdmin rejects requests whose bearer token does not carry the admin
// role. The decision is made per request from the token alone; there is no
// server-side session store. The login route is registered outside this
// middleware so it stays reachable.
func RequireAdmin(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(service, c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if claims.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin role required"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// Identify resolves the caller's claims when a valid token is present but
// never rejects the request. Read paths use it to widen visibility for
// admins while staying public for everyone else.
func Identify(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromRequest(service, c); err == nil {
			c.Set(claimsContextKey, claims)
		}
		c.Next()
	}
}

// IsAdmin reports whether the current request carries an admin session.
func IsAdmin(c *gin.Context) bool {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return false
	}
	claims, ok := v.(*Claims)
	return ok && claims.Role == RoleAdmin
}

func claimsFromRequest(service *Service, c *gin.Context) (*Claims, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, ErrInvalidToken
	}
	return service.ParseToken(strings.TrimPrefix(header, "Bearer "))
}
