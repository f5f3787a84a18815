package rbac

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	autherrors "github.com/regtech-horizon/regtech-backend/internal/auth/errors"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
)

// Authorize gates a route on the caller's role. The role is placed on the
// context by the current-user middleware, so that must run first.
func Authorize(enforcer *casbin.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.AbortFailure(c, autherrors.ErrMissingToken)
			return
		}

		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			response.AbortFailure(c, apperror.Wrap(err, apperror.CodeInternalError, "Authorization check failed", http.StatusInternalServerError))
			return
		}
		if !allowed {
			response.AbortFailure(c, apperror.ErrForbidden)
			return
		}

		c.Next()
	}
}
