package events

import "time"

const PaymentSucceededTopic = "regtech.payment.lifecycle.v1"

type PaymentSucceededEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id"`
	PaymentID      string    `json:"payment_id"`
	SubscriptionID string    `json:"subscription_id"`
	UserID         string    `json:"user_id"`
	Amount         float64   `json:"amount"`
	TransactionRef string    `json:"transaction_ref"`
	OccurredAt     time.Time `json:"occurred_at"`
}
