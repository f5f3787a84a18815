package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimitByIP(0.1, 3), handler.Register)
		auth.POST("/register/admin", middleware.RateLimitByIP(0.1, 3), handler.RegisterAdmin)
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/refresh", handler.RefreshToken)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", middleware.AuthRequired(), middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/change-password", middleware.AuthRequired(), middleware.RateLimitByUser(2, 5), handler.ChangePassword)
	}
}
