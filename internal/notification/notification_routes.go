package notification

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, loader middleware.UserLoader, enforcer *casbin.Enforcer) {
	// Token travels as a query parameter; browsers cannot set headers on
	// websocket handshakes.
	r.GET("/notifications/ws/:user_id", handler.Connect)

	n := r.Group("/notifications", middleware.AuthRequired(), middleware.CurrentUser(loader))
	{
		n.GET("", rbac.Authorize(enforcer, "notifications", "read"), handler.ListMine)
		n.GET("/company/:company_id", rbac.Authorize(enforcer, "notifications", "read"), handler.ListForCompany)
		n.PATCH("/:id/read", rbac.Authorize(enforcer, "notifications", "update"), handler.MarkRead)
		n.POST("", rbac.Authorize(enforcer, "notifications", "create"), handler.Create)
	}
}
