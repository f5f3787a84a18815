package user

import (
	"time"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
)

type UserResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	IsActive     bool   `json:"is_active"`
	IsSuperadmin bool   `json:"is_superadmin"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

type AdminUpdateUserRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	PhoneNumber  *string `json:"phone_number"`
	Role         *string `json:"role" binding:"omitempty,oneof=user admin"`
	Status       *string `json:"status" binding:"omitempty,oneof=active inactive"`
	IsActive     *bool   `json:"is_active"`
	IsSuperadmin *bool   `json:"is_superadmin"`
}

type AdminListQuery struct {
	Role         string `form:"role" binding:"omitempty,oneof=user admin"`
	Status       string `form:"status" binding:"omitempty,oneof=active inactive"`
	IsActive     *bool  `form:"is_active"`
	IsSuperadmin *bool  `form:"is_superadmin"`
	IsDeleted    *bool  `form:"is_deleted"`
	Search       string `form:"search"`
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
}

func mapToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Role:         u.Role,
		Status:       u.Status,
		IsActive:     u.IsActive,
		IsSuperadmin: u.IsSuperadmin,
		PhoneNumber:  u.PhoneNumber,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}
