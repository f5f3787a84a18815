package favorite

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

type FavoriteResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Country   string `json:"country,omitempty"`
	Niche     string `json:"niche,omitempty"`
	Website   string `json:"website,omitempty"`
	SavedAt   string `json:"saved_at"`
}

// ExportRow is one CSV line of the favorites export.
type ExportRow struct {
	Name    string
	Email   string
	Country string
	Niche   string
	Website string
	SavedAt string
}

//go:generate mockgen -source=favorite_service.go -destination=mock/favorite_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, userID string) ([]FavoriteResponse, error)
	Add(ctx context.Context, userID, companyID string) (FavoriteResponse, error)
	Remove(ctx context.Context, userID, companyID string) error
	Export(ctx context.Context, userID string) ([]ExportRow, error)
}

type service struct {
	engine *storage.Engine
	logger *zap.Logger
}

func NewService(engine *storage.Engine, logger *zap.Logger) Service {
	return &service{engine: engine, logger: logger.Named("favorite.service")}
}

func (s *service) List(ctx context.Context, userID string) ([]FavoriteResponse, error) {
	rows, err := s.listWithCompanies(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]FavoriteResponse, len(rows))
	for i, f := range rows {
		resp[i] = mapToResponse(f)
	}
	return resp, nil
}

func (s *service) listWithCompanies(ctx context.Context, userID string) ([]domain.FavoriteCompany, error) {
	return storage.BulkRead[domain.FavoriteCompany](ctx, s.engine, storage.ListOptions{
		Filters:       storage.Filter{"user_id": userID},
		SortColumn:    "created_at",
		SortDirection: "desc",
		Joins:         []string{"Company"},
	})
}

func (s *service) Add(ctx context.Context, userID, companyID string) (FavoriteResponse, error) {
	// The company must still be listed.
	c, err := storage.Read[domain.Company](ctx, s.engine, storage.Filter{
		"id":     companyID,
		"status": domain.CompanyStatusActive,
	})
	if err != nil {
		return FavoriteResponse{}, err
	}

	f := domain.FavoriteCompany{UserID: userID, CompanyID: companyID}
	if err := storage.Create(ctx, s.engine, &f); err != nil {
		return FavoriteResponse{}, err
	}
	f.Company = c

	s.logger.Info("company favorited", zap.String("user_id", userID), zap.String("company_id", companyID))
	return mapToResponse(f), nil
}

// Remove fails with NotFound when the favorite does not exist, so removing
// twice is an error rather than a silent no-op.
func (s *service) Remove(ctx context.Context, userID, companyID string) error {
	err := storage.Delete[domain.FavoriteCompany](ctx, s.engine, storage.Filter{
		"user_id":    userID,
		"company_id": companyID,
	})
	if err != nil && errors.Is(err, storage.ErrNoRowsMatched) {
		return apperror.NotFoundFor("FavoriteCompany")
	}
	return err
}

func (s *service) Export(ctx context.Context, userID string) ([]ExportRow, error) {
	rows, err := s.listWithCompanies(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ExportRow, len(rows))
	for i, f := range rows {
		row := ExportRow{SavedAt: f.CreatedAt.Format(time.RFC3339)}
		if f.Company != nil {
			row.Name = f.Company.Name
			row.Email = f.Company.Email
			row.Country = f.Company.Country
			row.Niche = f.Company.Niche
			row.Website = f.Company.Website
		}
		out[i] = row
	}
	return out, nil
}

func mapToResponse(f domain.FavoriteCompany) FavoriteResponse {
	resp := FavoriteResponse{
		ID:        f.ID,
		CompanyID: f.CompanyID,
		SavedAt:   f.CreatedAt.Format(time.RFC3339),
	}
	if f.Company != nil {
		resp.Name = f.Company.Name
		resp.Country = f.Company.Country
		resp.Niche = f.Company.Niche
		resp.Website = f.Company.Website
	}
	return resp
}
