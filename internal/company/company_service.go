package company

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	companyerrors "github.com/regtech-horizon/regtech-backend/internal/company/errors"
	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/events"
	"github.com/regtech-horizon/regtech-backend/internal/messaging/kafka"
	"github.com/regtech-horizon/regtech-backend/internal/notification"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/contextutil"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

// Actor identifies who is performing a directory mutation.
type Actor struct {
	ID    string
	Admin bool
}

// Notifier is the slice of the notification service the directory needs.
type Notifier interface {
	Create(ctx context.Context, req notification.CreateNotificationRequest) (notification.NotificationResponse, error)
}

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateCompanyRequest) (CompanyResponse, error)
	Get(ctx context.Context, id string) (CompanyResponse, error)
	Search(ctx context.Context, q SearchQuery) ([]CompanyResponse, response.Page, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateCompanyRequest) (CompanyResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Login(ctx context.Context, email, password string) (CompanyResponse, error)
	ChangePassword(ctx context.Context, actor Actor, id string, req ChangeCompanyPasswordRequest) error
}

type service struct {
	engine   *storage.Engine
	repo     Repository
	notifier Notifier
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(engine *storage.Engine, repo Repository, notifier Notifier, outbox kafka.OutboxRepository, logger *zap.Logger) Service {
	return &service{
		engine:   engine,
		repo:     repo,
		notifier: notifier,
		outbox:   outbox,
		logger:   logger.Named("company.service"),
	}
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateCompanyRequest) (CompanyResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.FindActiveByEmail(ctx, email); err == nil {
		return CompanyResponse{}, companyerrors.ErrCompanyEmailTaken
	}

	c := &domain.Company{
		CreatorID:       actor.ID,
		CompanyType:     req.CompanyType,
		Name:            req.Name,
		Email:           email,
		Phone:           req.Phone,
		Website:         req.Website,
		Size:            req.Size,
		YearFounded:     req.YearFounded,
		Headquarters:    req.Headquarters,
		Country:         req.Country,
		Description:     req.Description,
		Niche:           req.Niche,
		Logo:            req.Logo,
		LastFundingDate: req.LastFundingDate,
		Status:          domain.CompanyStatusActive,
		Services:        req.Services,
		Founders:        req.Founders,
	}
	c.SocialLinkedin, c.SocialInstagram, c.SocialX = normalizeSocials(req.Socials)

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return CompanyResponse{}, err
		}
		c.Password = string(hashed)
	}

	rid := contextutil.GetRequestID(ctx)
	err := s.engine.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, c); err != nil {
			return err
		}

		event := events.CompanyCreatedEvent{
			EventType:   "company_created",
			RequestID:   rid,
			CompanyID:   c.ID,
			CreatorID:   c.CreatorID,
			CompanyName: c.Name,
			OccurredAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "company",
			AggregateID:   c.ID,
			EventType:     event.EventType,
			Topic:         events.CompanyCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
	})
	if err != nil {
		return CompanyResponse{}, err
	}

	s.notifyCreated(ctx, c)
	if actor.Admin {
		s.auditCreated(ctx, actor.ID, c)
	}

	l.Info("company listed", zap.String("company_id", c.ID), zap.String("creator_id", actor.ID))
	return mapToResponse(*c), nil
}

func (s *service) notifyCreated(ctx context.Context, c *domain.Company) {
	creatorID := c.CreatorID
	_, err := s.notifier.Create(ctx, notification.CreateNotificationRequest{
		UserID:    &creatorID,
		Title:     "Company listed",
		Message:   fmt.Sprintf("%s is now live in the directory.", c.Name),
		Category:  domain.NotificationCategoryCompany,
		ActionURL: "/companies/" + c.ID,
	})
	if err != nil {
		s.logger.Warn("company-created notification failed", zap.String("company_id", c.ID), zap.Error(err))
	}
}

func (s *service) auditCreated(ctx context.Context, adminID string, c *domain.Company) {
	trail := &domain.AuditTrail{
		AdminID:          adminID,
		ActionType:       "create",
		Description:      fmt.Sprintf("Listed company %q", c.Name),
		AffectedTable:    "companies",
		AffectedRecordID: c.ID,
	}
	if err := storage.Create(ctx, s.engine, trail); err != nil {
		s.logger.Warn("audit trail write failed", zap.String("company_id", c.ID), zap.Error(err))
	}
}

func (s *service) Get(ctx context.Context, id string) (CompanyResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	return mapToResponse(*c), nil
}

func (s *service) Search(ctx context.Context, q SearchQuery) ([]CompanyResponse, response.Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}

	p := SearchParams{
		Term:      strings.TrimSpace(q.Term),
		Countries: splitList(q.Country),
		Sizes:     splitList(q.Size),
		Niches:    splitList(q.Niche),
		YearMin:   q.YearMin,
		YearMax:   q.YearMax,
		SortBy:    q.SortBy,
		Limit:     q.PerPage,
		Offset:    (q.Page - 1) * q.PerPage,
	}

	rows, total, err := s.repo.Search(ctx, p)
	if err != nil {
		return nil, response.Page{}, err
	}

	resp := make([]CompanyResponse, len(rows))
	for i, c := range rows {
		resp[i] = mapToResponse(c)
	}
	return resp, response.Page{Page: q.Page, PerPage: q.PerPage, Total: total}, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id string, req UpdateCompanyRequest) (CompanyResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	if c.CreatorID != actor.ID && !actor.Admin {
		return CompanyResponse{}, companyerrors.ErrNotCompanyOwner
	}

	values := map[string]any{}
	setIf(values, "company_type", req.CompanyType)
	setIf(values, "name", req.Name)
	setIf(values, "phone", req.Phone)
	setIf(values, "website", req.Website)
	setIf(values, "size", req.Size)
	setIf(values, "headquarters", req.Headquarters)
	setIf(values, "country", req.Country)
	setIf(values, "description", req.Description)
	setIf(values, "niche", req.Niche)
	setIf(values, "logo", req.Logo)
	setIf(values, "last_funding_date", req.LastFundingDate)
	setIf(values, "status", req.Status)
	if req.YearFounded != nil {
		values["year_founded"] = *req.YearFounded
	}
	if len(req.Socials) > 0 {
		linkedin, instagram, x := normalizeSocials(req.Socials)
		values["social_linkedin"] = linkedin
		values["social_instagram"] = instagram
		values["social_x"] = x
	}

	if len(values) > 0 {
		if err := s.repo.Update(ctx, id, values); err != nil {
			return CompanyResponse{}, err
		}
	}

	// JSONB arrays are replaced wholesale, never merged element-wise. The
	// field grammar has no JSON kind mapping for slices of structs, so the
	// write goes through gorm directly.
	if req.Services != nil || req.Founders != nil {
		jsonValues := map[string]any{}
		if req.Services != nil {
			jsonValues["services"] = domain.Company{Services: *req.Services}.Services
		}
		if req.Founders != nil {
			jsonValues["founders"] = domain.Company{Founders: *req.Founders}.Founders
		}
		err := s.engine.DB().WithContext(ctx).
			Model(&domain.Company{}).
			Where("id = ?", id).
			Updates(jsonValues).Error
		if err != nil {
			return CompanyResponse{}, err
		}
	}

	return s.Get(ctx, id)
}

func setIf(values map[string]any, field string, v *string) {
	if v != nil {
		values[field] = *v
	}
}

func (s *service) Delete(ctx context.Context, actor Actor, id string) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c.CreatorID != actor.ID && !actor.Admin {
		return companyerrors.ErrNotCompanyOwner
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("company delisted", zap.String("company_id", id), zap.String("actor_id", actor.ID))
	return nil
}

// Login verifies the company-level credential, which is independent of any
// user account.
func (s *service) Login(ctx context.Context, email, password string) (CompanyResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	c, err := s.repo.FindActiveByEmail(ctx, email)
	if err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyCredentials
	}
	if c.Password == "" {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyCredentials
	}
	return mapToResponse(*c), nil
}

func (s *service) ChangePassword(ctx context.Context, actor Actor, id string, req ChangeCompanyPasswordRequest) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c.CreatorID != actor.ID && !actor.Admin {
		return companyerrors.ErrNotCompanyOwner
	}
	if c.Password == "" {
		return companyerrors.ErrNoCompanyPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(req.CurrentPassword)); err != nil {
		return apperror.Validation("Current password is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return apperror.Validation("New password must be different from the current password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"password": string(hashed)}); err != nil {
		return err
	}

	s.logger.Info("company password changed", zap.String("company_id", id))
	return nil
}

// normalizeSocials folds `{platform, url}` entries into the fixed slots by
// case-insensitive substring on the platform name. Later entries for the
// same slot win.
func normalizeSocials(entries []SocialEntry) (linkedin, instagram, x string) {
	for _, e := range entries {
		platform := strings.ToLower(strings.TrimSpace(e.Platform))
		switch {
		case strings.Contains(platform, "linkedin"):
			linkedin = e.URL
		case strings.Contains(platform, "instagram") || platform == "ig":
			instagram = e.URL
		case strings.Contains(platform, "twitter") || strings.Contains(platform, "x"):
			x = e.URL
		}
	}
	return linkedin, instagram, x
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
