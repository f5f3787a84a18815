package domain

import (
	"time"

	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"

	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"

	PaymentStatusPending    = "pending"
	PaymentStatusSuccessful = "successful"
)

type Subscription struct {
	Base
	UserID       string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	CompanyID    string    `gorm:"type:varchar(64);index" json:"company_id"`
	Tier         string    `gorm:"type:varchar(100);not null" json:"tier"`
	BillingCycle string    `gorm:"type:varchar(20);not null" json:"billing_cycle"`
	StartDate    time.Time `gorm:"not null" json:"start_date"`
	EndDate      time.Time `gorm:"not null" json:"end_date"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	Payments []Payment `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (Subscription) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "Subscription",
		Table:  "subscriptions",
		Fields: withBaseFields(map[string]storage.Field{
			"user_id":       {Column: "user_id", Kind: storage.KindString},
			"company_id":    {Column: "company_id", Kind: storage.KindString},
			"tier":          {Column: "tier", Kind: storage.KindString},
			"billing_cycle": {Column: "billing_cycle", Kind: storage.KindString},
			"start_date":    {Column: "start_date", Kind: storage.KindTime},
			"end_date":      {Column: "end_date", Kind: storage.KindTime},
			"status":        {Column: "status", Kind: storage.KindString},
		}),
		Deletion: storage.HardCascade,
	}
}

// CycleDuration returns how far a renewal pushes the end date.
func (s Subscription) CycleDuration() time.Duration {
	if s.BillingCycle == BillingCycleYearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

type Payment struct {
	Base
	SubscriptionID string    `gorm:"type:varchar(64);not null;index" json:"subscription_id"`
	Amount         float64   `gorm:"not null" json:"amount"`
	PaymentDate    time.Time `gorm:"not null" json:"payment_date"`
	PaymentMethod  string    `gorm:"type:varchar(50)" json:"payment_method"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	InvoiceURL     string    `gorm:"type:varchar(255)" json:"invoice_url"`
	// TransactionRef is the gateway transaction id. The unique index is the
	// durable half of the webhook replay guard.
	TransactionRef string `gorm:"type:varchar(100);uniqueIndex" json:"transaction_ref"`
}

func (Payment) TableName() string { return "payments" }

func (Payment) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "Payment",
		Table:  "payments",
		Fields: withBaseFields(map[string]storage.Field{
			"subscription_id": {Column: "subscription_id", Kind: storage.KindString},
			"amount":          {Column: "amount", Kind: storage.KindFloat},
			"payment_date":    {Column: "payment_date", Kind: storage.KindTime},
			"payment_method":  {Column: "payment_method", Kind: storage.KindString},
			"status":          {Column: "status", Kind: storage.KindString},
			"invoice_url":     {Column: "invoice_url", Kind: storage.KindString},
			"transaction_ref": {Column: "transaction_ref", Kind: storage.KindString},
		}),
		Deletion: storage.HardCascade,
	}
}
