package advertisement

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, loader middleware.UserLoader, enforcer *casbin.Enforcer) {
	r.GET("/public/companies/:id/advertisements", handler.ListForCompany)

	ads := r.Group("/advertisements", middleware.AuthRequired(), middleware.CurrentUser(loader))
	{
		ads.POST("", rbac.Authorize(enforcer, "advertisements", "create"), handler.Create)
		ads.PATCH("/:id", rbac.Authorize(enforcer, "advertisements", "update"), handler.Update)
		ads.DELETE("/:id", rbac.Authorize(enforcer, "advertisements", "delete"), handler.Delete)
	}
}
