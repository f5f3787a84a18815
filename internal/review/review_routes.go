package review

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, loader middleware.UserLoader, enforcer *casbin.Enforcer) {
	// Same param name as the public company routes; gin rejects a
	// conflicting wildcard on this segment.
	r.GET("/public/companies/:id/reviews", handler.ListForCompany)

	r.POST("/reviews",
		middleware.AuthRequired(),
		middleware.CurrentUser(loader),
		rbac.Authorize(enforcer, "reviews", "create"),
		handler.Create,
	)
}
