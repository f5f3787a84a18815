package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GetProfile(c *gin.Context) {
	resp, err := h.service.GetProfile(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile fetched successfully", resp)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully", resp)
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), c.GetString("user_id")); err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Account deleted successfully", nil)
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	var q AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	users, page, err := h.service.AdminListUsers(c.Request.Context(), q)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.List(c, http.StatusOK, "Users fetched successfully", page, users)
}

func (h *Handler) AdminUpdateUser(c *gin.Context) {
	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AdminUpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User updated successfully", resp)
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	// Self-deletion goes through the profile endpoint, not the admin surface.
	if c.Param("id") == c.GetString("user_id") {
		response.Failure(c, apperror.Validation("Admins cannot delete their own account from this endpoint"))
		return
	}

	if err := h.service.AdminDeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}
