package domain

import (
	"gorm.io/datatypes"

	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

const (
	CompanyStatusActive    = "active"
	CompanyStatusInactive  = "inactive"
	CompanyStatusCompleted = "completed"
)

// ServiceEntry is one offered service; the list keeps its input order.
type ServiceEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Founder is one founder record; the list keeps its input order.
type Founder struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Bio    string `json:"bio"`
	Social string `json:"social"`
}

type Company struct {
	Base
	CreatorID       string  `gorm:"type:varchar(64);not null;index" json:"creator_id"`
	CompanyType     string  `gorm:"type:varchar(100);not null" json:"company_type"`
	Name            string  `gorm:"column:company_name;type:varchar(255);not null;index" json:"name"`
	Email           string  `gorm:"column:company_email;type:varchar(255);not null" json:"email"`
	Phone           string  `gorm:"column:company_phone;type:varchar(50)" json:"phone"`
	Website         string  `gorm:"type:varchar(255)" json:"website"`
	Size            string  `gorm:"column:company_size;type:varchar(50)" json:"size"`
	YearFounded     int     `gorm:"" json:"year_founded"`
	Headquarters    string  `gorm:"type:varchar(255)" json:"headquarters"`
	Country         string  `gorm:"type:varchar(100)" json:"country"`
	Description     string  `gorm:"type:text" json:"description"`
	Niche           string  `gorm:"type:varchar(100)" json:"niche"`
	Logo            string  `gorm:"type:varchar(255)" json:"logo"`
	LastFundingDate string  `gorm:"type:varchar(50)" json:"last_funding_date"`
	Status          string  `gorm:"type:varchar(50);not null;default:'active';index" json:"status"`
	Password        string  `gorm:"column:company_password;type:varchar(255)" json:"-"`
	SocialLinkedin  string  `gorm:"column:social_media_linkedin;type:varchar(255)" json:"social_media_linkedin"`
	SocialInstagram string  `gorm:"column:social_media_ig;type:varchar(255)" json:"social_media_ig"`
	SocialX         string  `gorm:"column:social_media_x;type:varchar(255)" json:"social_media_x"`

	Services datatypes.JSONSlice[ServiceEntry] `gorm:"type:jsonb" json:"services"`
	Founders datatypes.JSONSlice[Founder]      `gorm:"type:jsonb" json:"founders"`

	Creator        *User             `gorm:"foreignKey:CreatorID" json:"-"`
	Reviews        []Review          `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Subscriptions  []Subscription    `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Advertisements []Advertisement   `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	FavoritedBy    []FavoriteCompany `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Company) TableName() string { return "companies" }

func (Company) Descriptor() storage.Schema {
	return storage.Schema{
		Entity: "Company",
		Table:  "companies",
		Fields: withBaseFields(map[string]storage.Field{
			"creator_id":        {Column: "creator_id", Kind: storage.KindString},
			"company_type":      {Column: "company_type", Kind: storage.KindString},
			"name":              {Column: "company_name", Kind: storage.KindString},
			"email":             {Column: "company_email", Kind: storage.KindString},
			"phone":             {Column: "company_phone", Kind: storage.KindString},
			"website":           {Column: "website", Kind: storage.KindString},
			"size":              {Column: "company_size", Kind: storage.KindString},
			"year_founded":      {Column: "year_founded", Kind: storage.KindInt},
			"headquarters":      {Column: "headquarters", Kind: storage.KindString},
			"country":           {Column: "country", Kind: storage.KindString},
			"description":       {Column: "description", Kind: storage.KindString},
			"niche":             {Column: "niche", Kind: storage.KindString},
			"logo":              {Column: "logo", Kind: storage.KindString},
			"last_funding_date": {Column: "last_funding_date", Kind: storage.KindString},
			"status":            {Column: "status", Kind: storage.KindString},
			"password":          {Column: "company_password", Kind: storage.KindString},
			"social_linkedin":   {Column: "social_media_linkedin", Kind: storage.KindString},
			"social_instagram":  {Column: "social_media_ig", Kind: storage.KindString},
			"social_x":          {Column: "social_media_x", Kind: storage.KindString},
		}),
		Deletion:      storage.SoftFlag,
		SoftDeleteSet: map[string]any{"status": CompanyStatusInactive},
	}
}
