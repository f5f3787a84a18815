package review

import (
	"time"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
)

type CreateReviewRequest struct {
	CompanyID  string `json:"company_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	ReviewText string `json:"review_text"`
}

type ListQuery struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page" binding:"omitempty,max=100"`
}

type ReviewResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	CompanyID  string `json:"company_id"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func mapToResponse(r domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		CompanyID:  r.CompanyID,
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}
