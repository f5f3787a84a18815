package subscription

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
	subscriptionerrors "github.com/regtech-horizon/regtech-backend/internal/subscription/errors"
)

type Handler struct {
	service     Service
	webhookHash string
}

func NewHandler(s Service, webhookHash string) *Handler {
	return &Handler{service: s, webhookHash: webhookHash}
}

func (h *Handler) GetCurrent(c *gin.Context) {
	resp, err := h.service.GetCurrent(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Subscription fetched successfully", resp)
}

func (h *Handler) Cancel(c *gin.Context) {
	resp, err := h.service.Cancel(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Subscription cancelled successfully", resp)
}

func (h *Handler) Reactivate(c *gin.Context) {
	resp, err := h.service.Reactivate(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Subscription reactivated successfully", resp)
}

// Webhook receives Flutterwave charge events. The verif-hash header must
// match the configured secret before the body is even parsed.
func (h *Handler) Webhook(c *gin.Context) {
	signature := c.GetHeader("verif-hash")
	if h.webhookHash == "" || subtle.ConstantTimeCompare([]byte(signature), []byte(h.webhookHash)) != 1 {
		response.Failure(c, subscriptionerrors.ErrInvalidWebhookSignature)
		return
	}

	var payload WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Failure(c, apperror.MapValidationError(err))
		return
	}

	if err := h.service.HandlePaymentEvent(c.Request.Context(), payload); err != nil {
		response.Failure(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Webhook processed", nil)
}
