package favorite

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{service: s, logger: logger.Named("favorite.handler")}
}

func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Favorites fetched successfully", resp)
}

func (h *Handler) Add(c *gin.Context) {
	resp, err := h.service.Add(c.Request.Context(), c.GetString("user_id"), c.Param("company_id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Company added to favorites", resp)
}

func (h *Handler) Remove(c *gin.Context) {
	err := h.service.Remove(c.Request.Context(), c.GetString("user_id"), c.Param("company_id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Company removed from favorites", nil)
}

// Export streams the favorites as CSV, or as a PDF when ?format=pdf.
func (h *Handler) Export(c *gin.Context) {
	rows, err := h.service.Export(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Failure(c, err)
		return
	}

	if c.Query("format") == "pdf" {
		h.exportPDF(c, rows)
		return
	}

	filename := fmt.Sprintf("favorites-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"name", "email", "country", "niche", "website", "saved_at"})
	for _, row := range rows {
		_ = w.Write([]string{row.Name, row.Email, row.Country, row.Niche, row.Website, row.SavedAt})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.logger.Warn("csv export write failed", zap.Error(err))
	}
}

func (h *Handler) exportPDF(c *gin.Context, rows []ExportRow) {
	body, err := buildExportPDF(rows)
	if err != nil {
		response.Failure(c, err)
		return
	}

	filename := fmt.Sprintf("favorites-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", body)
}
