package company

import (
	"time"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
)

// SocialEntry is the wire form of a social link; the service folds the
// list into the fixed linkedin/instagram/x slots.
type SocialEntry struct {
	Platform string `json:"platform" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

type CreateCompanyRequest struct {
	CompanyType     string                `json:"company_type" binding:"required"`
	Name            string                `json:"name" binding:"required"`
	Email           string                `json:"email" binding:"required,email"`
	Phone           string                `json:"phone"`
	Website         string                `json:"website"`
	Size            string                `json:"size"`
	YearFounded     int                   `json:"year_founded"`
	Headquarters    string                `json:"headquarters"`
	Country         string                `json:"country"`
	Description     string                `json:"description"`
	Niche           string                `json:"niche"`
	Logo            string                `json:"logo"`
	LastFundingDate string                `json:"last_funding_date"`
	Password        string                `json:"password" binding:"omitempty,min=8"`
	Socials         []SocialEntry         `json:"socials" binding:"omitempty,dive"`
	Services        []domain.ServiceEntry `json:"services"`
	Founders        []domain.Founder      `json:"founders"`
}

type UpdateCompanyRequest struct {
	CompanyType     *string                `json:"company_type"`
	Name            *string                `json:"name"`
	Phone           *string                `json:"phone"`
	Website         *string                `json:"website"`
	Size            *string                `json:"size"`
	YearFounded     *int                   `json:"year_founded"`
	Headquarters    *string                `json:"headquarters"`
	Country         *string                `json:"country"`
	Description     *string                `json:"description"`
	Niche           *string                `json:"niche"`
	Logo            *string                `json:"logo"`
	LastFundingDate *string                `json:"last_funding_date"`
	Status          *string                `json:"status" binding:"omitempty,oneof=active inactive completed"`
	Socials         []SocialEntry          `json:"socials" binding:"omitempty,dive"`
	Services        *[]domain.ServiceEntry `json:"services"`
	Founders        *[]domain.Founder      `json:"founders"`
}

type SearchQuery struct {
	Term      string `form:"term"`
	Country   string `form:"country"`
	Size      string `form:"size"`
	Niche     string `form:"niche"`
	YearMin   int    `form:"year_min" binding:"omitempty,min=1800"`
	YearMax   int    `form:"year_max" binding:"omitempty,min=1800"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=name founded employees relevance"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

type CompanyLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangeCompanyPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type CompanyResponse struct {
	ID              string                `json:"id"`
	CreatorID       string                `json:"creator_id"`
	CompanyType     string                `json:"company_type"`
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Phone           string                `json:"phone,omitempty"`
	Website         string                `json:"website,omitempty"`
	Size            string                `json:"size,omitempty"`
	YearFounded     int                   `json:"year_founded,omitempty"`
	Headquarters    string                `json:"headquarters,omitempty"`
	Country         string                `json:"country,omitempty"`
	Description     string                `json:"description,omitempty"`
	Niche           string                `json:"niche,omitempty"`
	Logo            string                `json:"logo,omitempty"`
	LastFundingDate string                `json:"last_funding_date,omitempty"`
	Status          string                `json:"status"`
	SocialLinkedin  string                `json:"social_media_linkedin,omitempty"`
	SocialInstagram string                `json:"social_media_ig,omitempty"`
	SocialX         string                `json:"social_media_x,omitempty"`
	Services        []domain.ServiceEntry `json:"services"`
	Founders        []domain.Founder      `json:"founders"`
	CreatedAt       string                `json:"created_at"`
}

func mapToResponse(c domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:              c.ID,
		CreatorID:       c.CreatorID,
		CompanyType:     c.CompanyType,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Website:         c.Website,
		Size:            c.Size,
		YearFounded:     c.YearFounded,
		Headquarters:    c.Headquarters,
		Country:         c.Country,
		Description:     c.Description,
		Niche:           c.Niche,
		Logo:            c.Logo,
		LastFundingDate: c.LastFundingDate,
		Status:          c.Status,
		SocialLinkedin:  c.SocialLinkedin,
		SocialInstagram: c.SocialInstagram,
		SocialX:         c.SocialX,
		Services:        c.Services,
		Founders:        c.Founders,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}
