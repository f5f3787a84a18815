package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/notification"
	"github.com/regtech-horizon/regtech-backend/internal/shared/contextutil"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

const (
	recentNotificationLimit = 15

	// Stats are cheap to serve stale; a short TTL keeps the four count
	// queries off the hot path without a cache invalidation protocol.
	statsCacheTTL = 5 * time.Minute
)

// NotificationLister is the slice of the notification service the dashboard
// reads from.
type NotificationLister interface {
	ListForUser(ctx context.Context, userID string, limit int) ([]notification.NotificationResponse, error)
}

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	Overview(ctx context.Context, userID string) (OverviewResponse, error)
}

type service struct {
	engine        *storage.Engine
	rdb           *redis.Client
	notifications NotificationLister
	logger        *zap.Logger
	group         singleflight.Group
}

func NewService(engine *storage.Engine, rdb *redis.Client, notifications NotificationLister, logger *zap.Logger) Service {
	return &service{
		engine:        engine,
		rdb:           rdb,
		notifications: notifications,
		logger:        logger.Named("dashboard.service"),
	}
}

func (s *service) Overview(ctx context.Context, userID string) (OverviewResponse, error) {
	stats, err := s.statsFor(ctx, userID)
	if err != nil {
		return OverviewResponse{}, err
	}

	notifs, err := s.notifications.ListForUser(ctx, userID, recentNotificationLimit)
	if err != nil {
		return OverviewResponse{}, err
	}

	companies, err := storage.BulkRead[domain.Company](ctx, s.engine, storage.ListOptions{
		Filters:       storage.Filter{"creator_id": userID},
		SortColumn:    "updated_at",
		SortDirection: "desc",
	})
	if err != nil {
		return OverviewResponse{}, err
	}

	resp := OverviewResponse{
		Stats:         stats,
		Notifications: notifs,
		Companies:     make([]CompanySummary, 0, len(companies)),
	}
	for _, c := range companies {
		resp.Companies = append(resp.Companies, mapCompanySummary(c))
	}
	return resp, nil
}

// statsFor serves counts from redis, collapsing concurrent cache misses for
// the same user into one database round trip.
func (s *service) statsFor(ctx context.Context, userID string) (Stats, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	cacheKey := fmt.Sprintf("dashboard:stats:%s", userID)

	if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var stats Stats
		if err := json.Unmarshal([]byte(raw), &stats); err == nil {
			return stats, nil
		}
		// Unreadable cache entries are recomputed, not surfaced.
		l.Warn("corrupt dashboard stats cache entry", zap.String("key", cacheKey))
	}

	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		stats, err := s.countStats(ctx, userID)
		if err != nil {
			return Stats{}, err
		}
		if body, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, body, statsCacheTTL).Err(); err != nil {
				l.Warn("dashboard stats cache write failed", zap.Error(err))
			}
		}
		return stats, nil
	})
	if err != nil {
		return Stats{}, err
	}
	return v.(Stats), nil
}

func (s *service) countStats(ctx context.Context, userID string) (Stats, error) {
	var stats Stats
	var err error

	if stats.SavedSearches, err = storage.Count[domain.SavedSearch](ctx, s.engine, storage.Filter{"user_id": userID}); err != nil {
		return Stats{}, err
	}
	if stats.Favorites, err = storage.Count[domain.FavoriteCompany](ctx, s.engine, storage.Filter{"user_id": userID}); err != nil {
		return Stats{}, err
	}
	if stats.Activities, err = storage.Count[domain.ActivityLog](ctx, s.engine, storage.Filter{"user_id": userID}); err != nil {
		return Stats{}, err
	}
	if stats.Companies, err = storage.Count[domain.Company](ctx, s.engine, storage.Filter{"creator_id": userID}); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
