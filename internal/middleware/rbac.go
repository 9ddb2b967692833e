package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/leave-api/internal/models"
	appErrors "github.com/noah-isme/leave-api/pkg/errors"
	"github.com/noah-isme/leave-api/pkg/response"
)

// RequireRoles admits callers holding one of the roles. It must run after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return requireRoles("", roles...)
}

// RequireManagerRole guards review routes. The admitted set is employee and
// admin, so a caller with the manager role is rejected.
func RequireManagerRole() gin.HandlerFunc {
	return requireRoles("manager access required", models.RoleEmployee, models.RoleAdmin)
}

func requireRoles(message string, roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[identity.Role]; ok {
			c.Next()
			return
		}
		response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, message))
	}
}
