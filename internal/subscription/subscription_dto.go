package subscription

import (
	"fmt"
	"time"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
)

type PaymentSummary struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

type SubscriptionResponse struct {
	ID             string           `json:"id"`
	Tier           string           `json:"tier"`
	BillingCycle   string           `json:"billing_cycle"`
	Status         string           `json:"status"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        time.Time        `json:"end_date"`
	PaymentHistory []PaymentSummary `json:"payment_history,omitempty"`
}

// WebhookPayload is the untrusted body Flutterwave posts to the webhook.
// Only the event name and the transaction id are read from it; everything
// else comes from the gateway verification call.
type WebhookPayload struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

type WebhookData struct {
	ID int64 `json:"id"`
}

func mapToResponse(sub domain.Subscription, payments []domain.Payment) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:           sub.ID,
		Tier:         sub.Tier,
		BillingCycle: sub.BillingCycle,
		Status:       sub.Status,
		StartDate:    sub.StartDate,
		EndDate:      sub.EndDate,
	}
	for _, p := range payments {
		resp.PaymentHistory = append(resp.PaymentHistory, PaymentSummary{
			ID:          p.ID,
			Date:        p.PaymentDate,
			Amount:      p.Amount,
			Status:      p.Status,
			Description: fmt.Sprintf("%s Payment", sub.Tier),
		})
	}
	return resp
}
