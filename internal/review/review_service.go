package review

import (
	"context"

	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

//go:generate mockgen -source=review_service.go -destination=mock/review_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID string, req CreateReviewRequest) (ReviewResponse, error)
	ListForCompany(ctx context.Context, companyID string, q ListQuery) ([]ReviewResponse, response.Page, error)
}

type service struct {
	engine *storage.Engine
	logger *zap.Logger
}

func NewService(engine *storage.Engine, logger *zap.Logger) Service {
	return &service{engine: engine, logger: logger.Named("review.service")}
}

func (s *service) Create(ctx context.Context, userID string, req CreateReviewRequest) (ReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return ReviewResponse{}, apperror.Validation("Rating must be between 1 and 5")
	}

	// The company must exist and still be listed.
	_, err := storage.Read[domain.Company](ctx, s.engine, storage.Filter{
		"id":     req.CompanyID,
		"status": domain.CompanyStatusActive,
	})
	if err != nil {
		return ReviewResponse{}, err
	}

	r := domain.Review{
		UserID:     userID,
		CompanyID:  req.CompanyID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := storage.Create(ctx, s.engine, &r); err != nil {
		return ReviewResponse{}, err
	}

	s.logger.Info("review created", zap.String("company_id", req.CompanyID), zap.Int("rating", req.Rating))
	return mapToResponse(r), nil
}

func (s *service) ListForCompany(ctx context.Context, companyID string, q ListQuery) ([]ReviewResponse, response.Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}

	f := storage.Filter{"company_id": companyID}
	total, err := storage.Count[domain.Review](ctx, s.engine, f)
	if err != nil {
		return nil, response.Page{}, err
	}

	rows, err := storage.BulkRead[domain.Review](ctx, s.engine, storage.ListOptions{
		Filters:       f,
		SortColumn:    "created_at",
		SortDirection: "desc",
		Limit:         q.PerPage,
		Offset:        (q.Page - 1) * q.PerPage,
	})
	if err != nil {
		return nil, response.Page{}, err
	}

	resp := make([]ReviewResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp, response.Page{Page: q.Page, PerPage: q.PerPage, Total: total}, nil
}
