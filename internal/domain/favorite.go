package domain

import "github.com/regtech-horizon/regtech-backend/internal/storage"

type FavoriteCompany struct {
	Base
	UserID    string `gorm:"type:varchar(64);not null;uniqueIndex:idx_favorite_user_company" json:"user_id"`
	CompanyID string `gorm:"type:varchar(64);not null;uniqueIndex:idx_favorite_user_company" json:"company_id"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (FavoriteCompany) TableName() string { return "favorite_companies" }

func (FavoriteCompany) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "FavoriteCompany",
		Table:  "favorite_companies",
		Fields: withBaseFields(map[string]storage.Field{
			"user_id":    {Column: "user_id", Kind: storage.KindString},
			"company_id": {Column: "company_id", Kind: storage.KindString},
		}),
		Deletion: storage.HardCascade,
	}
}
