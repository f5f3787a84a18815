package domain

import (
	"gorm.io/gorm"

	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	Base
	FirstName    string `gorm:"type:varchar(255)" json:"first_name"`
	LastName     string `gorm:"type:varchar(255)" json:"last_name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string `gorm:"type:varchar(255)" json:"-"`
	Role         string `gorm:"type:varchar(50);not null;default:'user'" json:"role"`
	Status       string `gorm:"type:varchar(50);not null;default:'active'" json:"status"`
	IsActive     bool   `gorm:"default:true;index" json:"is_active"`
	IsSuperadmin bool   `gorm:"default:false;index" json:"is_superadmin"`
	IsDeleted    bool   `gorm:"default:false;index" json:"-"`
	PhoneNumber  string `gorm:"type:varchar(50)" json:"phone_number"`

	Companies     []Company         `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews       []Review          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Subscriptions []Subscription    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SavedSearches []SavedSearch     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites     []FavoriteCompany `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	LoginHistory  []LoginHistory    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }

// BeforeSave keeps the flag-derived columns consistent: superadmin implies
// the admin role, an inactive account reads as status inactive.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.IsSuperadmin {
		u.Role = RoleAdmin
	} else {
		u.Role = RoleUser
	}
	if u.IsActive {
		u.Status = StatusActive
	} else {
		u.Status = StatusInactive
	}
	return nil
}

func (User) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "User",
		Table:  "users",
		Fields: withBaseFields(map[string]storage.Field{
			"first_name":    {Column: "first_name", Kind: storage.KindString},
			"last_name":     {Column: "last_name", Kind: storage.KindString},
			"email":         {Column: "email", Kind: storage.KindString},
			"password":      {Column: "password", Kind: storage.KindString},
			"role":          {Column: "role", Kind: storage.KindString},
			"status":        {Column: "status", Kind: storage.KindString},
			"is_active":     {Column: "is_active", Kind: storage.KindBool},
			"is_superadmin": {Column: "is_superadmin", Kind: storage.KindBool},
			"is_deleted":    {Column: "is_deleted", Kind: storage.KindBool},
			"phone_number":  {Column: "phone_number", Kind: storage.KindString},
		}),
		Deletion:      storage.SoftFlag,
		SoftDeleteSet: map[string]any{"is_deleted": true},
	}
}

// NormalizeUserFlagUpdates mirrors BeforeSave for map-based updates, which
// bypass gorm hooks. Mutates and returns values.
func NormalizeUserFlagUpdates(values map[string]any) map[string]any {
	if v, ok := values["is_superadmin"]; ok {
		if super, _ := v.(bool); super {
			values["role"] = RoleAdmin
		} else {
			values["role"] = RoleUser
		}
	}
	if v, ok := values["is_active"]; ok {
		if active, _ := v.(bool); active {
			values["status"] = StatusActive
		} else {
			values["status"] = StatusInactive
		}
	}
	return values
}
