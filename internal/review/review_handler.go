package review

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

func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Review created successfully", resp)
}

func (h *Handler) ListForCompany(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	resp, page, err := h.service.ListForCompany(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.List(c, http.StatusOK, "Reviews fetched successfully", page, resp)
}
