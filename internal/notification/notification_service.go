package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/contextutil"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

const defaultListLimit = 15

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateNotificationRequest) (NotificationResponse, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]NotificationResponse, error)
	ListForCompany(ctx context.Context, companyID string, limit int) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, userID, id string) error
	Schedule(req CreateNotificationRequest, delay time.Duration)
}

type service struct {
	engine *storage.Engine
	hub    *Hub
	logger *zap.Logger
}

func NewService(engine *storage.Engine, hub *Hub, logger *zap.Logger) Service {
	return &service{
		engine: engine,
		hub:    hub,
		logger: logger.Named("notification.service"),
	}
}

// Create persists the notification, then pushes it to a connected recipient.
// A failed push never fails the request.
func (s *service) Create(ctx context.Context, req CreateNotificationRequest) (NotificationResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	n := domain.Notification{
		UserID:    req.UserID,
		CompanyID: req.CompanyID,
		Title:     req.Title,
		Message:   req.Message,
		Category:  req.Category,
		ActionURL: req.ActionURL,
		Priority:  req.Priority,
	}
	if n.Category == "" {
		n.Category = domain.NotificationCategorySystem
	}
	if !n.HasRecipient() {
		return NotificationResponse{}, apperror.Validation("Notification must address a user or a company")
	}

	if err := storage.Create(ctx, s.engine, &n); err != nil {
		return NotificationResponse{}, err
	}

	resp := mapToResponse(n)
	if n.UserID != nil {
		if delivered := s.hub.Send(*n.UserID, resp); !delivered {
			l.Debug("push skipped, recipient offline", zap.String("user_id", *n.UserID))
		}
	}
	return resp, nil
}

func (s *service) ListForUser(ctx context.Context, userID string, limit int) ([]NotificationResponse, error) {
	return s.list(ctx, storage.Filter{"user_id": userID}, limit)
}

func (s *service) ListForCompany(ctx context.Context, companyID string, limit int) ([]NotificationResponse, error) {
	return s.list(ctx, storage.Filter{"company_id": companyID}, limit)
}

func (s *service) list(ctx context.Context, f storage.Filter, limit int) ([]NotificationResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := storage.BulkRead[domain.Notification](ctx, s.engine, storage.ListOptions{
		Filters:       f,
		SortColumn:    "created_at",
		SortDirection: "desc",
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(rows))
	for i, n := range rows {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

// MarkRead is idempotent: re-reading an already-read notification succeeds.
func (s *service) MarkRead(ctx context.Context, userID, id string) error {
	n, err := storage.Read[domain.Notification](ctx, s.engine, storage.Filter{"id": id})
	if err != nil {
		return err
	}
	if n.UserID == nil || *n.UserID != userID {
		return apperror.ErrNotFound
	}
	if n.IsRead {
		return nil
	}
	return storage.Update[domain.Notification](ctx, s.engine, storage.Filter{"id": id}, map[string]any{"is_read": true})
}

// Schedule fires the notification after the delay without blocking the
// caller. Failures are logged only.
func (s *service) Schedule(req CreateNotificationRequest, delay time.Duration) {
	go func() {
		time.Sleep(delay)
		if _, err := s.Create(context.Background(), req); err != nil {
			s.logger.Warn("scheduled notification failed", zap.String("title", req.Title), zap.Error(err))
		}
	}()
}
