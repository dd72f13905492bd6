package middleware

import (
	"net/http"
	"strings"

	"github.com/Smashkat12/crechebooks-sub005/internal/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "auth_claims"

// Auth returns a middleware that verifies the Bearer token and pins the
// request to the token's tenant: a token for one tenant can never touch
// another tenant's routes. Routes carrying a :tenantId parameter are
// checked against the claim.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing bearer token",
			})
			return
		}

		claims, err := auth.Parse([]byte(secret), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		if tenantID := c.Param("tenantId"); tenantID != "" && tenantID != claims.TenantID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "token is not valid for this tenant",
			})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetClaims extracts the verified claims from the Gin context.
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(claimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
