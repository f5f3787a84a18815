package dashboard

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, loader middleware.UserLoader, enforcer *casbin.Enforcer) {
	r.GET("/dashboard",
		middleware.AuthRequired(),
		middleware.CurrentUser(loader),
		rbac.Authorize(enforcer, "dashboard", "read"),
		handler.Overview,
	)
}
