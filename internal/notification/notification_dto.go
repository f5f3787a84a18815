package notification

import (
	"time"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
)

type CreateNotificationRequest struct {
	UserID    *string `json:"user_id"`
	CompanyID *string `json:"company_id"`
	Title     string  `json:"title" binding:"required"`
	Message   string  `json:"message" binding:"required"`
	Category  string  `json:"category" binding:"omitempty,oneof=system company subscription payment"`
	ActionURL string  `json:"action_url"`
	Priority  int     `json:"priority"`
}

type NotificationResponse struct {
	ID        string  `json:"id"`
	UserID    *string `json:"user_id,omitempty"`
	CompanyID *string `json:"company_id,omitempty"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Category  string  `json:"category"`
	ActionURL string  `json:"action_url,omitempty"`
	Priority  int     `json:"priority"`
	IsRead    bool    `json:"is_read"`
	CreatedAt string  `json:"created_at"`
}

type ListQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func mapToResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		CompanyID: n.CompanyID,
		Title:     n.Title,
		Message:   n.Message,
		Category:  n.Category,
		ActionURL: n.ActionURL,
		Priority:  n.Priority,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
