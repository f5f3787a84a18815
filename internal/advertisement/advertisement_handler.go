package advertisement

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/middleware"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func callerOf(c *gin.Context) (string, bool) {
	u := middleware.MustCurrentUser(c)
	return u.ID, u.IsSuperadmin
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateAdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	userID, admin := callerOf(c)
	resp, err := h.service.Create(c.Request.Context(), userID, admin, req)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Advertisement created successfully", resp)
}

func (h *Handler) ListForCompany(c *gin.Context) {
	resp, err := h.service.ListForCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Advertisements fetched successfully", resp)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateAdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	userID, admin := callerOf(c)
	resp, err := h.service.Update(c.Request.Context(), userID, admin, c.Param("id"), req)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Advertisement updated successfully", resp)
}

func (h *Handler) Delete(c *gin.Context) {
	userID, admin := callerOf(c)
	if err := h.service.Delete(c.Request.Context(), userID, admin, c.Param("id")); err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Advertisement deleted successfully", nil)
}
