package subscription

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, loader middleware.UserLoader, enforcer *casbin.Enforcer) {
	// The gateway authenticates itself with the verif-hash header, not a
	// bearer token.
	r.POST("/webhooks/flutterwave", handler.Webhook)

	subs := r.Group("/subscriptions", middleware.AuthRequired(), middleware.CurrentUser(loader))
	{
		subs.GET("/current", rbac.Authorize(enforcer, "subscriptions", "read"), handler.GetCurrent)
		subs.POST("/cancel", rbac.Authorize(enforcer, "subscriptions", "update"), handler.Cancel)
		subs.POST("/reactivate", rbac.Authorize(enforcer, "subscriptions", "update"), handler.Reactivate)
	}
}
