package favorite

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, loader middleware.UserLoader, enforcer *casbin.Enforcer) {
	favorites := r.Group("/favorites",
		middleware.AuthRequired(),
		middleware.CurrentUser(loader),
		rbac.Authorize(enforcer, "favorites", "manage"),
	)
	{
		favorites.GET("", handler.List)
		favorites.GET("/export", handler.Export)
		favorites.POST("/:company_id", handler.Add)
		favorites.DELETE("/:company_id", handler.Remove)
	}
}
