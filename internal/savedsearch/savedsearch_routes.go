package savedsearch

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, loader middleware.UserLoader, enforcer *casbin.Enforcer) {
	searches := r.Group("/saved-searches",
		middleware.AuthRequired(),
		middleware.CurrentUser(loader),
		rbac.Authorize(enforcer, "saved_searches", "manage"),
	)
	{
		searches.GET("", handler.List)
		searches.POST("", handler.Create)
		searches.PATCH("/:id", handler.Update)
		searches.DELETE("/:id", handler.Delete)
	}
}
