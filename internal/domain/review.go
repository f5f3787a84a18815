package domain

import "github.com/regtech-horizon/regtech-backend/internal/storage"

type Review struct {
	Base
	UserID     string `gorm:"type:varchar(64);not null;index" json:"user_id"`
	CompanyID  string `gorm:"type:varchar(64);not null;index" json:"company_id"`
	Rating     int    `gorm:"not null" json:"rating"`
	ReviewText string `gorm:"type:text" json:"review_text"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Review) TableName() string { return "reviews" }

func (Review) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "Review",
		Table:  "reviews",
		Fields: withBaseFields(map[string]storage.Field{
			"user_id":     {Column: "user_id", Kind: storage.KindString},
			"company_id":  {Column: "company_id", Kind: storage.KindString},
			"rating":      {Column: "rating", Kind: storage.KindInt},
			"review_text": {Column: "review_text", Kind: storage.KindString},
		}),
		Deletion: storage.HardCascade,
	}
}
