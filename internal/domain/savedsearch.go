package domain

import (
	"gorm.io/datatypes"

	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

type SavedSearch struct {
	Base
	UserID string         `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Name   string         `gorm:"type:varchar(255);not null" json:"name"`
	Params datatypes.JSON `gorm:"type:jsonb" json:"params"`
}

func (SavedSearch) TableName() string { return "saved_searches" }

func (SavedSearch) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "SavedSearch",
		Table:  "saved_searches",
		Fields: withBaseFields(map[string]storage.Field{
			"user_id": {Column: "user_id", Kind: storage.KindString},
			"name":    {Column: "name", Kind: storage.KindString},
			"params":  {Column: "params", Kind: storage.KindJSON},
		}),
		Deletion: storage.HardCascade,
	}
}
