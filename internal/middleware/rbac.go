package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

// RequireRoles enforces role-based access control for routes. The role
// inside the token is trusted as-is; issuance already gated it.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "Access denied"))
			c.Abort()
			return
		}

		c.Next()
	}
}
