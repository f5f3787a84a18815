package events

import "time"

const CompanyCreatedTopic = "regtech.company.lifecycle.v1"

type CompanyCreatedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	CompanyID   string    `json:"company_id"`
	CreatorID   string    `json:"creator_id"`
	CompanyName string    `json:"company_name"`
	OccurredAt  time.Time `json:"occurred_at"`
}
