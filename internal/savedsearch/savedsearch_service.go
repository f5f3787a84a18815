package savedsearch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

type SaveSearchRequest struct {
	Name   string         `json:"name" binding:"required"`
	Params datatypes.JSON `json:"params" binding:"required"`
}

type UpdateSearchRequest struct {
	Name   *string        `json:"name"`
	Params datatypes.JSON `json:"params"`
}

type SavedSearchResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Params    datatypes.JSON `json:"params"`
	CreatedAt string         `json:"created_at"`
}

//go:generate mockgen -source=savedsearch_service.go -destination=mock/savedsearch_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, userID string) ([]SavedSearchResponse, error)
	Create(ctx context.Context, userID string, req SaveSearchRequest) (SavedSearchResponse, error)
	Update(ctx context.Context, userID, id string, req UpdateSearchRequest) (SavedSearchResponse, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	engine *storage.Engine
	logger *zap.Logger
}

func NewService(engine *storage.Engine, logger *zap.Logger) Service {
	return &service{engine: engine, logger: logger.Named("savedsearch.service")}
}

func (s *service) List(ctx context.Context, userID string) ([]SavedSearchResponse, error) {
	rows, err := storage.BulkRead[domain.SavedSearch](ctx, s.engine, storage.ListOptions{
		Filters:       storage.Filter{"user_id": userID},
		SortColumn:    "created_at",
		SortDirection: "desc",
	})
	if err != nil {
		return nil, err
	}

	resp := make([]SavedSearchResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) Create(ctx context.Context, userID string, req SaveSearchRequest) (SavedSearchResponse, error) {
	row := domain.SavedSearch{
		UserID: userID,
		Name:   req.Name,
		Params: req.Params,
	}
	if err := storage.Create(ctx, s.engine, &row); err != nil {
		return SavedSearchResponse{}, err
	}
	return mapToResponse(row), nil
}

func (s *service) Update(ctx context.Context, userID, id string, req UpdateSearchRequest) (SavedSearchResponse, error) {
	values := map[string]any{}
	if req.Name != nil {
		values["name"] = *req.Name
	}
	if req.Params != nil {
		values["params"] = req.Params
	}

	if len(values) > 0 {
		// Scoping the update to the owner makes a foreign id read as a
		// zero match.
		err := storage.Update[domain.SavedSearch](ctx, s.engine, storage.Filter{
			"id":      id,
			"user_id": userID,
		}, values)
		if err != nil {
			if errorsIsZeroMatch(err) {
				return SavedSearchResponse{}, apperror.NotFoundFor("SavedSearch")
			}
			return SavedSearchResponse{}, err
		}
	}

	row, err := storage.Read[domain.SavedSearch](ctx, s.engine, storage.Filter{"id": id, "user_id": userID})
	if err != nil {
		return SavedSearchResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	err := storage.Delete[domain.SavedSearch](ctx, s.engine, storage.Filter{
		"id":      id,
		"user_id": userID,
	})
	if err != nil && errorsIsZeroMatch(err) {
		return apperror.NotFoundFor("SavedSearch")
	}
	return err
}

func errorsIsZeroMatch(err error) bool {
	return errors.Is(err, storage.ErrNoRowsMatched)
}

func mapToResponse(row domain.SavedSearch) SavedSearchResponse {
	return SavedSearchResponse{
		ID:        row.ID,
		Name:      row.Name,
		Params:    row.Params,
		CreatedAt: row.CreatedAt.Format(time.RFC3339),
	}
}
