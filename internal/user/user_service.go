package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock

type Service interface {
	GetProfile(ctx context.Context, userID string) (UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (UserResponse, error)
	DeleteAccount(ctx context.Context, userID string) error

	AdminListUsers(ctx context.Context, q AdminListQuery) ([]UserResponse, response.Page, error)
	AdminUpdateUser(ctx context.Context, id string, req AdminUpdateUserRequest) (UserResponse, error)
	AdminDeleteUser(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger.Named("user.service")}
}

func (s *service) GetProfile(ctx context.Context, userID string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (UserResponse, error) {
	values := map[string]any{}
	if req.FirstName != nil {
		values["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		values["last_name"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		values["phone_number"] = *req.PhoneNumber
	}

	if len(values) > 0 {
		if err := s.repo.Update(ctx, userID, values); err != nil {
			return UserResponse{}, err
		}
	}
	return s.GetProfile(ctx, userID)
}

func (s *service) DeleteAccount(ctx context.Context, userID string) error {
	// Flag the account inactive alongside the delete marker so the status
	// invariant holds for soft-deleted rows.
	values := domain.NormalizeUserFlagUpdates(map[string]any{"is_active": false})
	if err := s.repo.Update(ctx, userID, values); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user account soft deleted", zap.String("user_id", userID))
	return nil
}

// AdminListUsers pages the directory of accounts. per_page is capped at 10
// so admin tooling cannot pull the whole directory in one page.
func (s *service) AdminListUsers(ctx context.Context, q AdminListQuery) ([]UserResponse, response.Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 10 {
		q.PerPage = 10
	}

	filters := storage.Filter{}
	if q.Role != "" {
		filters["role"] = q.Role
	}
	if q.Status != "" {
		filters["status"] = q.Status
	}
	if q.IsActive != nil {
		filters["is_active"] = *q.IsActive
	}
	if q.IsSuperadmin != nil {
		filters["is_superadmin"] = *q.IsSuperadmin
	}
	if q.IsDeleted != nil {
		filters["is_deleted"] = *q.IsDeleted
	}

	users, total, err := s.repo.List(ctx, filters, q.Search, q.PerPage, (q.Page-1)*q.PerPage)
	if err != nil {
		return nil, response.Page{}, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, response.Page{Page: q.Page, PerPage: q.PerPage, Total: total}, nil
}

func (s *service) AdminUpdateUser(ctx context.Context, id string, req AdminUpdateUserRequest) (UserResponse, error) {
	values := map[string]any{}
	if req.FirstName != nil {
		values["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		values["last_name"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		values["phone_number"] = *req.PhoneNumber
	}
	if req.Role != nil {
		values["role"] = *req.Role
	}
	if req.Status != nil {
		values["status"] = *req.Status
	}
	if req.IsActive != nil {
		values["is_active"] = *req.IsActive
	}
	if req.IsSuperadmin != nil {
		values["is_superadmin"] = *req.IsSuperadmin
	}
	domain.NormalizeUserFlagUpdates(values)

	if len(values) > 0 {
		if err := s.repo.Update(ctx, id, values); err != nil {
			return UserResponse{}, err
		}
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	s.logger.Info("user updated by admin", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

func (s *service) AdminDeleteUser(ctx context.Context, id string) error {
	values := domain.NormalizeUserFlagUpdates(map[string]any{"is_active": false})
	if err := s.repo.Update(ctx, id, values); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user soft deleted by admin", zap.String("user_id", id))
	return nil
}
