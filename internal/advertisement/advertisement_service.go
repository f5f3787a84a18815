package advertisement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/notification"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

type CreateAdvertisementRequest struct {
	CompanyID string    `json:"company_id" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	Content   string    `json:"content"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

type UpdateAdvertisementRequest struct {
	Title     *string    `json:"title"`
	Content   *string    `json:"content"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Status    *string    `json:"status" binding:"omitempty,oneof=active inactive"`
}

type AdvertisementResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
}

// Scheduler is the slice of the notification service used for the delayed
// end-of-campaign notice.
type Scheduler interface {
	Schedule(req notification.CreateNotificationRequest, delay time.Duration)
}

//go:generate mockgen -source=advertisement_service.go -destination=mock/advertisement_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID string, admin bool, req CreateAdvertisementRequest) (AdvertisementResponse, error)
	ListForCompany(ctx context.Context, companyID string) ([]AdvertisementResponse, error)
	Update(ctx context.Context, userID string, admin bool, id string, req UpdateAdvertisementRequest) (AdvertisementResponse, error)
	Delete(ctx context.Context, userID string, admin bool, id string) error
}

type service struct {
	engine    *storage.Engine
	scheduler Scheduler
	logger    *zap.Logger
}

func NewService(engine *storage.Engine, scheduler Scheduler, logger *zap.Logger) Service {
	return &service{engine: engine, scheduler: scheduler, logger: logger.Named("advertisement.service")}
}

func (s *service) Create(ctx context.Context, userID string, admin bool, req CreateAdvertisementRequest) (AdvertisementResponse, error) {
	if !req.EndDate.After(req.StartDate) {
		return AdvertisementResponse{}, apperror.Validation("end_date must be after start_date")
	}

	if err := s.requireCompanyOwnership(ctx, req.CompanyID, userID, admin); err != nil {
		return AdvertisementResponse{}, err
	}

	ad := domain.Advertisement{
		CompanyID: req.CompanyID,
		Title:     req.Title,
		Content:   req.Content,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.AdvertisementStatusActive,
	}
	if err := storage.Create(ctx, s.engine, &ad); err != nil {
		return AdvertisementResponse{}, err
	}

	owner := userID
	s.scheduler.Schedule(notification.CreateNotificationRequest{
		UserID:    &owner,
		Title:     "Advertisement ended",
		Message:   fmt.Sprintf("Your advertisement %q has reached its end date.", ad.Title),
		Category:  domain.NotificationCategoryCompany,
		ActionURL: "/companies/" + ad.CompanyID,
	}, time.Until(ad.EndDate))

	s.logger.Info("advertisement created", zap.String("company_id", req.CompanyID), zap.String("ad_id", ad.ID))
	return mapToResponse(ad), nil
}

func (s *service) ListForCompany(ctx context.Context, companyID string) ([]AdvertisementResponse, error) {
	rows, err := storage.BulkRead[domain.Advertisement](ctx, s.engine, storage.ListOptions{
		Filters:       storage.Filter{"company_id": companyID},
		SortColumn:    "start_date",
		SortDirection: "desc",
	})
	if err != nil {
		return nil, err
	}

	resp := make([]AdvertisementResponse, len(rows))
	for i, ad := range rows {
		resp[i] = mapToResponse(ad)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, userID string, admin bool, id string, req UpdateAdvertisementRequest) (AdvertisementResponse, error) {
	ad, err := storage.Read[domain.Advertisement](ctx, s.engine, storage.Filter{"id": id})
	if err != nil {
		return AdvertisementResponse{}, err
	}
	if err := s.requireCompanyOwnership(ctx, ad.CompanyID, userID, admin); err != nil {
		return AdvertisementResponse{}, err
	}

	start, end := ad.StartDate, ad.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if !end.After(start) {
		return AdvertisementResponse{}, apperror.Validation("end_date must be after start_date")
	}

	values := map[string]any{}
	if req.Title != nil {
		values["title"] = *req.Title
	}
	if req.Content != nil {
		values["content"] = *req.Content
	}
	if req.StartDate != nil {
		values["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		values["end_date"] = *req.EndDate
	}
	if req.Status != nil {
		values["status"] = *req.Status
	}

	if len(values) > 0 {
		if err := storage.Update[domain.Advertisement](ctx, s.engine, storage.Filter{"id": id}, values); err != nil {
			return AdvertisementResponse{}, err
		}
	}

	updated, err := storage.Read[domain.Advertisement](ctx, s.engine, storage.Filter{"id": id})
	if err != nil {
		return AdvertisementResponse{}, err
	}
	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, userID string, admin bool, id string) error {
	ad, err := storage.Read[domain.Advertisement](ctx, s.engine, storage.Filter{"id": id})
	if err != nil {
		return err
	}
	if err := s.requireCompanyOwnership(ctx, ad.CompanyID, userID, admin); err != nil {
		return err
	}

	err = storage.Delete[domain.Advertisement](ctx, s.engine, storage.Filter{"id": id})
	if err != nil && errors.Is(err, storage.ErrNoRowsMatched) {
		return apperror.NotFoundFor("Advertisement")
	}
	return err
}

func (s *service) requireCompanyOwnership(ctx context.Context, companyID, userID string, admin bool) error {
	if admin {
		return nil
	}
	c, err := storage.Read[domain.Company](ctx, s.engine, storage.Filter{"id": companyID})
	if err != nil {
		return err
	}
	if c.CreatorID != userID {
		return apperror.ErrForbidden
	}
	return nil
}

func mapToResponse(ad domain.Advertisement) AdvertisementResponse {
	return AdvertisementResponse{
		ID:        ad.ID,
		CompanyID: ad.CompanyID,
		Title:     ad.Title,
		Content:   ad.Content,
		StartDate: ad.StartDate,
		EndDate:   ad.EndDate,
		Status:    ad.Status,
	}
}
