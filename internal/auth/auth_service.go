package auth

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "github.com/regtech-horizon/regtech-backend/internal/auth/errors"
	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/events"
	"github.com/regtech-horizon/regtech-backend/internal/mail"
	"github.com/regtech-horizon/regtech-backend/internal/messaging/kafka"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/contextutil"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
	"github.com/regtech-horizon/regtech-backend/internal/user"
)

// passwordSymbols is the accepted symbol set for the password policy.
const passwordSymbols = `!@#$%^&*()-_=+[]{};:'",.<>/?\|`

// ClientInfo captures where a login came from, for the login history trail.
type ClientInfo struct {
	IPAddress  string
	DeviceInfo string
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest, client ClientInfo) (user.UserResponse, string, string, error)
	RegisterAdmin(ctx context.Context, req RegisterRequest, client ClientInfo) (user.UserResponse, string, string, error)
	Login(ctx context.Context, email, password string, client ClientInfo) (user.UserResponse, string, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (user.UserResponse, string, string, error)
	GetMe(ctx context.Context, userID string) (user.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type service struct {
	engine *storage.Engine
	repo   user.Repository
	mailer mail.Mailer
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(
	engine *storage.Engine,
	repo user.Repository,
	mailer mail.Mailer,
	outbox kafka.OutboxRepository,
	logger *zap.Logger,
) Service {
	return &service{
		engine: engine,
		repo:   repo,
		mailer: mailer,
		outbox: outbox,
		logger: logger.Named("auth.service"),
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest, client ClientInfo) (user.UserResponse, string, string, error) {
	return s.register(ctx, req, client, false)
}

func (s *service) RegisterAdmin(ctx context.Context, req RegisterRequest, client ClientInfo) (user.UserResponse, string, string, error) {
	return s.register(ctx, req, client, true)
}

func (s *service) register(ctx context.Context, req RegisterRequest, client ClientInfo, superadmin bool) (user.UserResponse, string, string, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if req.Password != req.ConfirmPassword {
		return user.UserResponse{}, "", "", apperror.Unprocessable("Passwords do not match")
	}
	if err := validatePasswordPolicy(req.Password); err != nil {
		return user.UserResponse{}, "", "", err
	}
	if !mail.DomainHasMX(email) {
		return user.UserResponse{}, "", "", autherrors.ErrUnreachableEmailDomain
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return user.UserResponse{}, "", "", autherrors.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, "", "", err
	}

	u := &domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		Password:     string(hashed),
		PhoneNumber:  req.PhoneNumber,
		IsActive:     true,
		IsSuperadmin: superadmin,
	}

	rid := contextutil.GetRequestID(ctx)
	err = s.engine.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.Create(ctx, u); err != nil {
			return err
		}

		history := &domain.LoginHistory{
			UserID:     u.ID,
			IPAddress:  client.IPAddress,
			DeviceInfo: client.DeviceInfo,
		}
		if err := txRepo.RecordLogin(ctx, history); err != nil {
			return err
		}

		event := events.UserRegisteredEvent{
			EventType:  "user_registered",
			RequestID:  rid,
			UserID:     u.ID,
			Email:      u.Email,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "user",
			AggregateID:   u.ID,
			EventType:     event.EventType,
			Topic:         events.UserRegisteredTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
	})
	if err != nil {
		l.Error("register persist failed", zap.Error(err))
		return user.UserResponse{}, "", "", err
	}

	// Welcome mail must not delay the response.
	go func(to, name string) {
		if err := s.mailer.SendWelcome(to, name); err != nil {
			s.logger.Warn("welcome mail failed", zap.String("email", to), zap.Error(err))
		}
	}(u.Email, u.FirstName)

	access, refresh, err := s.issueTokenPair(u.ID)
	if err != nil {
		return user.UserResponse{}, "", "", err
	}

	l.Info("user registered", zap.String("user_id", u.ID), zap.Bool("superadmin", superadmin))
	return userResponseOf(u), access, refresh, nil
}

func (s *service) Login(ctx context.Context, email, password string, client ClientInfo) (user.UserResponse, string, string, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return user.UserResponse{}, "", "", autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return user.UserResponse{}, "", "", autherrors.ErrInvalidCredentials
	}

	history := &domain.LoginHistory{
		UserID:     u.ID,
		IPAddress:  client.IPAddress,
		DeviceInfo: client.DeviceInfo,
	}
	if err := s.repo.RecordLogin(ctx, history); err != nil {
		l.Warn("login history write failed", zap.String("user_id", u.ID), zap.Error(err))
	}

	access, refresh, err := s.issueTokenPair(u.ID)
	if err != nil {
		return user.UserResponse{}, "", "", err
	}

	l.Info("user logged in", zap.String("user_id", u.ID))
	return userResponseOf(u), access, refresh, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (user.UserResponse, string, string, error) {
	userID, err := VerifyToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return user.UserResponse{}, "", "", autherrors.ErrInvalidRefreshToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, "", "", autherrors.ErrUserGone
	}

	access, refresh, err := s.issueTokenPair(u.ID)
	if err != nil {
		return user.UserResponse{}, "", "", err
	}
	return userResponseOf(u), access, refresh, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (user.UserResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, autherrors.ErrUserGone
	}
	return userResponseOf(u), nil
}

// ChangePassword handles both first-time credential set and rotation. An
// account created without a password (imported records) must not supply a
// current password; everyone else must.
func (s *service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if u.Password == "" {
		if req.CurrentPassword != nil {
			return apperror.Validation("Current password must not be provided when setting a first password")
		}
	} else {
		if req.CurrentPassword == nil {
			return apperror.RequiredField("current_password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(*req.CurrentPassword)); err != nil {
			return apperror.Validation("Current password is incorrect")
		}
		if req.NewPassword == *req.CurrentPassword {
			return apperror.Validation("New password must be different from the current password")
		}
	}

	if err := validatePasswordPolicy(req.NewPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, userID, map[string]any{"password": string(hashed)}); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *service) issueTokenPair(userID string) (string, string, error) {
	access, err := CreateAccessToken(userID)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	refresh, err := CreateRefreshToken(userID)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	return access, refresh, nil
}

// validatePasswordPolicy requires one lowercase, one uppercase, one digit
// and one symbol from the fixed set.
func validatePasswordPolicy(password string) error {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	switch {
	case !lower:
		return apperror.Unprocessable("Password must contain at least one lowercase letter")
	case !upper:
		return apperror.Unprocessable("Password must contain at least one uppercase letter")
	case !digit:
		return apperror.Unprocessable("Password must contain at least one digit")
	case !symbol:
		return apperror.Unprocessable("Password must contain at least one symbol")
	}
	return nil
}

func userResponseOf(u *domain.User) user.UserResponse {
	return user.UserResponse{
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
