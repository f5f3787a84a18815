package domain

import (
	"time"

	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

const (
	AdvertisementStatusActive   = "active"
	AdvertisementStatusInactive = "inactive"
)

type Advertisement struct {
	Base
	CompanyID string    `gorm:"type:varchar(64);not null;index" json:"company_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

func (Advertisement) TableName() string { return "advertisements" }

func (Advertisement) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "Advertisement",
		Table:  "advertisements",
		Fields: withBaseFields(map[string]storage.Field{
			"company_id": {Column: "company_id", Kind: storage.KindString},
			"title":      {Column: "title", Kind: storage.KindString},
			"content":    {Column: "content", Kind: storage.KindString},
			"start_date": {Column: "start_date", Kind: storage.KindTime},
			"end_date":   {Column: "end_date", Kind: storage.KindTime},
			"status":     {Column: "status", Kind: storage.KindString},
		}),
		Deletion: storage.HardCascade,
	}
}
