package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/facilities-app/utils"
)

// RequireRoles aborts with 403 unless the authenticated role is one of
// the allowed roles. Every role-gated route goes through this single check
// rather than ad hoc comparisons inside handlers.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, _ := roleInterface.(string)
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", allowedLabel(allowed)))
		c.Abort()
	}
}

func allowedLabel(allowed []string) string {
	if len(allowed) == 1 {
		return allowed[0]
	}
	label := allowed[0]
	for _, a := range allowed[1:] {
		label += " or " + a
	}
	return label
}
