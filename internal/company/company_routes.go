package company

import (
	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, loader middleware.UserLoader, enforcer *casbin.Enforcer, rdb *redis.Client) {
	// Directory browsing is open to unauthenticated clients.
	public := r.Group("/public/companies")
	{
		public.GET("", handler.Search)
		public.GET("/:id", handler.Get)
	}

	r.POST("/companies/login", middleware.RateLimitByIP(0.08, 5), handler.Login)

	companies := r.Group("/companies", middleware.AuthRequired(), middleware.CurrentUser(loader))
	{
		companies.POST("", rbac.Authorize(enforcer, "companies", "create"), middleware.Idempotency(rdb), handler.Create)
		companies.PATCH("/:id", rbac.Authorize(enforcer, "companies", "update"), handler.Update)
		companies.DELETE("/:id", rbac.Authorize(enforcer, "companies", "delete"), handler.Delete)
		companies.POST("/:id/change-password", rbac.Authorize(enforcer, "companies", "update"), handler.ChangePassword)
	}
}
