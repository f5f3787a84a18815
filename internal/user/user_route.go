package user

import (
	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, loader middleware.UserLoader) {
	profile := r.Group("/profile", middleware.AuthRequired())
	{
		profile.GET("", handler.GetProfile)
		profile.PATCH("", handler.UpdateProfile)
		profile.DELETE("", handler.DeleteAccount)
	}

	admin := r.Group("/admin/users",
		middleware.AuthRequired(),
		middleware.CurrentUser(loader),
		middleware.RequireSuperadmin(),
	)
	{
		admin.GET("", handler.AdminListUsers)
		admin.PATCH("/:id", handler.AdminUpdateUser)
		admin.DELETE("/:id", handler.AdminDeleteUser)
	}
}
