package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	"github.com/careerbridge/careerbridge-api/pkg/response"
)

// RequireAdmin gates a route group to accounts carrying the ADMIN role.
// It expects Auth to have run first and populated userRole.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if entity.Role(c.GetString("userRole")) != entity.RoleAdmin {
			resp := response.Error[any](c, http.StatusForbidden, "admin access required", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}
