package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Overview(c *gin.Context) {
	resp, err := h.service.Overview(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard data retrieved successfully", resp)
}
