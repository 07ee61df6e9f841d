package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/service"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenHeader is the request header carrying the session token. The
// frontend sends it on every authenticated call.
const TokenHeader = "x-auth-token"

// JWT protects routes by requiring a valid session token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "No token, authorization denied"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
