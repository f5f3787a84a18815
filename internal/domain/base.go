package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

// Base carries the columns every entity shares: an opaque string id and the
// creation/update timestamps.
type Base struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// withBaseFields merges the shared columns into an entity's
// field-descriptor table.
func withBaseFields(fields map[string]storage.Field) map[string]storage.Field {
	out := map[string]storage.Field{
		"id":         {Column: "id", Kind: storage.KindString},
		"created_at": {Column: "created_at", Kind: storage.KindTime},
		"updated_at": {Column: "updated_at", Kind: storage.KindTime},
	}
	for name, fd := range fields {
		out[name] = fd
	}
	return out
}
