package domain

import "github.com/regtech-horizon/regtech-backend/internal/storage"

const (
	NotificationCategorySystem       = "system"
	NotificationCategoryCompany      = "company"
	NotificationCategorySubscription = "subscription"
	NotificationCategoryPayment      = "payment"
)

// Notification targets a user, a company, or both. At least one recipient
// must be set; the service rejects rows with neither.
type Notification struct {
	Base
	UserID    *string `gorm:"type:varchar(64);index" json:"user_id"`
	CompanyID *string `gorm:"type:varchar(64);index" json:"company_id"`
	Title     string  `gorm:"type:varchar(255);not null" json:"title"`
	Message   string  `gorm:"type:text;not null" json:"message"`
	Category  string  `gorm:"type:varchar(50);not null;default:'system'" json:"category"`
	ActionURL string  `gorm:"type:varchar(255)" json:"action_url"`
	Priority  int     `gorm:"not null;default:0" json:"priority"`
	IsRead    bool    `gorm:"not null;default:false;index" json:"is_read"`
}

func (Notification) TableName() string { return "notifications" }

// HasRecipient reports whether at least one recipient is addressed.
func (n Notification) HasRecipient() bool {
	return n.UserID != nil || n.CompanyID != nil
}

func (Notification) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "Notification",
		Table:  "notifications",
		Fields: withBaseFields(map[string]storage.Field{
			"user_id":    {Column: "user_id", Kind: storage.KindString},
			"company_id": {Column: "company_id", Kind: storage.KindString},
			"title":      {Column: "title", Kind: storage.KindString},
			"message":    {Column: "message", Kind: storage.KindString},
			"category":   {Column: "category", Kind: storage.KindString},
			"action_url": {Column: "action_url", Kind: storage.KindString},
			"priority":   {Column: "priority", Kind: storage.KindInt},
			"is_read":    {Column: "is_read", Kind: storage.KindBool},
		}),
		Deletion: storage.HardCascade,
	}
}
