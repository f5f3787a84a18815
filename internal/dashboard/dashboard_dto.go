package dashboard

import (
	"time"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/notification"
)

type Stats struct {
	SavedSearches int64 `json:"saved_searches"`
	Favorites     int64 `json:"favorites"`
	Activities    int64 `json:"activities"`
	Companies     int64 `json:"companies"`
}

type CompanySummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Niche       string    `json:"niche"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

type OverviewResponse struct {
	Stats         Stats                               `json:"stats"`
	Notifications []notification.NotificationResponse `json:"notifications"`
	Companies     []CompanySummary                    `json:"companies"`
}

func mapCompanySummary(c domain.Company) CompanySummary {
	niche := c.Niche
	if niche == "" {
		niche = "Not specified"
	}
	return CompanySummary{
		ID:          c.ID,
		Name:        c.Name,
		Niche:       niche,
		Status:      c.Status,
		LastUpdated: c.UpdatedAt,
	}
}
