package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/events"
	"github.com/regtech-horizon/regtech-backend/internal/mail"
	"github.com/regtech-horizon/regtech-backend/internal/messaging/kafka"
	"github.com/regtech-horizon/regtech-backend/internal/notification"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/shared/contextutil"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
	subscriptionerrors "github.com/regtech-horizon/regtech-backend/internal/subscription/errors"
)

const (
	chargeCompletedEvent = "charge.completed"
	paymentHistoryLimit  = 3

	// replayLockTTL only needs to outlive Flutterwave's retry burst; the
	// unique transaction_ref index is the durable guard.
	replayLockTTL = time.Hour
)

// Notifier is the slice of the notification service the billing flow needs.
type Notifier interface {
	Create(ctx context.Context, req notification.CreateNotificationRequest) (notification.NotificationResponse, error)
}

//go:generate mockgen -source=subscription_service.go -destination=mock/subscription_service_mock.go -package=mock
type Service interface {
	GetCurrent(ctx context.Context, userID string) (SubscriptionResponse, error)
	Cancel(ctx context.Context, userID string) (SubscriptionResponse, error)
	Reactivate(ctx context.Context, userID string) (SubscriptionResponse, error)
	HandlePaymentEvent(ctx context.Context, payload WebhookPayload) error
}

type service struct {
	engine   *storage.Engine
	rdb      *redis.Client
	gateway  Verifier
	notifier Notifier
	mailer   mail.Mailer
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(engine *storage.Engine, rdb *redis.Client, gateway Verifier, notifier Notifier, mailer mail.Mailer, outbox kafka.OutboxRepository, logger *zap.Logger) Service {
	return &service{
		engine:   engine,
		rdb:      rdb,
		gateway:  gateway,
		notifier: notifier,
		mailer:   mailer,
		outbox:   outbox,
		logger:   logger.Named("subscription.service"),
	}
}

// currentFor returns the user's most recent active or cancelled subscription.
// Expired rows that were never cancelled still show up here so the frontend
// can offer renewal.
func (s *service) currentFor(ctx context.Context, userID string) (*domain.Subscription, error) {
	rows, err := storage.BulkRead[domain.Subscription](ctx, s.engine, storage.ListOptions{
		Filters: storage.Filter{
			"user_id": userID,
			"status": storage.Cond{storage.OpIn: []string{
				domain.SubscriptionStatusActive,
				domain.SubscriptionStatusCancelled,
			}},
		},
		SortColumn:    "created_at",
		SortDirection: "desc",
		Limit:         1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, subscriptionerrors.ErrNoSubscription
	}
	return &rows[0], nil
}

func (s *service) GetCurrent(ctx context.Context, userID string) (SubscriptionResponse, error) {
	sub, err := s.currentFor(ctx, userID)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	payments, err := storage.BulkRead[domain.Payment](ctx, s.engine, storage.ListOptions{
		Filters:       storage.Filter{"subscription_id": sub.ID},
		SortColumn:    "created_at",
		SortDirection: "desc",
		Limit:         paymentHistoryLimit,
	})
	if err != nil {
		return SubscriptionResponse{}, err
	}
	return mapToResponse(*sub, payments), nil
}

func (s *service) Cancel(ctx context.Context, userID string) (SubscriptionResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	sub, err := s.currentFor(ctx, userID)
	if err != nil {
		return SubscriptionResponse{}, err
	}
	if sub.Status == domain.SubscriptionStatusCancelled {
		return SubscriptionResponse{}, subscriptionerrors.ErrAlreadyCancelled
	}

	err = storage.Update[domain.Subscription](ctx, s.engine,
		storage.Filter{"id": sub.ID},
		map[string]any{"status": domain.SubscriptionStatusCancelled},
	)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	sub.Status = domain.SubscriptionStatusCancelled
	l.Info("subscription cancelled", zap.String("subscription_id", sub.ID), zap.String("user_id", userID))
	return mapToResponse(*sub, nil), nil
}

func (s *service) Reactivate(ctx context.Context, userID string) (SubscriptionResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	sub, err := s.currentFor(ctx, userID)
	if err != nil {
		return SubscriptionResponse{}, err
	}
	if sub.Status != domain.SubscriptionStatusCancelled {
		return SubscriptionResponse{}, subscriptionerrors.ErrNotCancelled
	}

	now := time.Now().UTC()
	endDate := sub.EndDate
	if endDate.Before(now) {
		endDate = now.Add(sub.CycleDuration())
	}

	err = storage.Update[domain.Subscription](ctx, s.engine,
		storage.Filter{"id": sub.ID},
		map[string]any{
			"status":   domain.SubscriptionStatusActive,
			"end_date": endDate,
		},
	)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	sub.Status = domain.SubscriptionStatusActive
	sub.EndDate = endDate
	l.Info("subscription reactivated", zap.String("subscription_id", sub.ID), zap.String("user_id", userID))
	return mapToResponse(*sub, nil), nil
}

// HandlePaymentEvent settles a verified charge: it records the payment,
// extends the subscription by one billing cycle and notifies the owner.
// Replays are acknowledged without extending again, first through the redis
// lock and then through the unique transaction_ref index.
func (s *service) HandlePaymentEvent(ctx context.Context, payload WebhookPayload) error {
	l := contextutil.GetLogger(ctx, s.logger)

	if payload.Event != chargeCompletedEvent {
		l.Debug("webhook event ignored", zap.String("event", payload.Event))
		return nil
	}

	lockKey := fmt.Sprintf("flw:txn:%d", payload.Data.ID)
	acquired, err := s.rdb.SetNX(ctx, lockKey, "processing", replayLockTTL).Result()
	if err != nil {
		// Redis being down must not drop payments; the db index still
		// catches replays.
		l.Warn("replay lock unavailable", zap.Error(err))
	} else if !acquired {
		l.Info("replayed transaction acknowledged", zap.Int64("transaction_id", payload.Data.ID))
		return nil
	}

	verified, err := s.gateway.VerifyTransaction(ctx, payload.Data.ID)
	if err != nil {
		// Release the lock so a later legitimate retry can re-verify.
		s.rdb.Del(context.WithoutCancel(ctx), lockKey)
		return err
	}

	sub, err := storage.Read[domain.Subscription](ctx, s.engine, storage.Filter{"id": verified.TxRef})
	if err != nil {
		l.Error("verified transaction references unknown subscription",
			zap.Int64("transaction_id", payload.Data.ID), zap.String("tx_ref", verified.TxRef))
		return err
	}

	txRef := strconv.FormatInt(payload.Data.ID, 10)
	if _, err := storage.Read[domain.Payment](ctx, s.engine, storage.Filter{"transaction_ref": txRef}); err == nil {
		l.Info("transaction already settled", zap.String("transaction_ref", txRef))
		return nil
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		SubscriptionID: sub.ID,
		Amount:         verified.Amount,
		PaymentDate:    now,
		PaymentMethod:  verified.PaymentType,
		Status:         domain.PaymentStatusSuccessful,
		InvoiceURL:     verified.InvoiceURL,
		TransactionRef: txRef,
	}

	err = s.engine.DB().Transaction(func(tx *gorm.DB) error {
		txe := s.engine.WithTx(tx)

		if err := storage.Create(ctx, txe, &payment); err != nil {
			return err
		}

		base := sub.EndDate
		if base.Before(now) {
			base = now
		}
		values := map[string]any{"end_date": base.Add(sub.CycleDuration())}
		if sub.Status != domain.SubscriptionStatusActive {
			values["status"] = domain.SubscriptionStatusActive
		}
		if err := storage.Update[domain.Subscription](ctx, txe, storage.Filter{"id": sub.ID}, values); err != nil {
			return err
		}

		rid := contextutil.GetRequestID(ctx)
		event := events.PaymentSucceededEvent{
			EventType:      "payment_succeeded",
			RequestID:      rid,
			PaymentID:      payment.ID,
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			Amount:         verified.Amount,
			TransactionRef: txRef,
			OccurredAt:     now,
		}
		body, err := json.Marshal(event)
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payment",
			AggregateID:   payment.ID,
			EventType:     event.EventType,
			Topic:         events.PaymentSucceededTopic,
			Payload:       body,
			Status:        kafka.OutboxStatusPending,
		})
	})
	if err != nil {
		// A CONFLICT here is a concurrent replay that slipped past the
		// pre-check; the first writer already extended the subscription.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == apperror.CodeConflict {
			l.Info("concurrent replay acknowledged", zap.String("transaction_ref", txRef))
			return nil
		}
		l.Error("payment settlement failed", zap.String("transaction_ref", txRef), zap.Error(err))
		return err
	}

	s.notifyPayment(ctx, sub, verified.Amount)
	s.mailReceipt(ctx, sub.UserID, verified)
	l.Info("payment settled",
		zap.String("payment_id", payment.ID),
		zap.String("subscription_id", sub.ID),
		zap.Float64("amount", verified.Amount))
	return nil
}

func (s *service) notifyPayment(ctx context.Context, sub *domain.Subscription, amount float64) {
	userID := sub.UserID
	_, err := s.notifier.Create(ctx, notification.CreateNotificationRequest{
		UserID:    &userID,
		Title:     "Payment received",
		Message:   fmt.Sprintf("Your %s subscription payment of %.2f was received.", sub.Tier, amount),
		Category:  domain.NotificationCategoryPayment,
		ActionURL: "/subscriptions/current",
	})
	if err != nil {
		s.logger.Warn("payment notification failed", zap.String("subscription_id", sub.ID), zap.Error(err))
	}
}

// mailReceipt looks up the payer's address and sends the receipt off the
// request path. Mail failures never fail the webhook.
func (s *service) mailReceipt(ctx context.Context, userID string, verified VerifiedTransaction) {
	u, err := storage.Read[domain.User](ctx, s.engine, storage.Filter{"id": userID})
	if err != nil {
		s.logger.Warn("receipt recipient lookup failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	go func(to string, amount float64, invoiceURL string) {
		if err := s.mailer.SendPaymentReceipt(to, amount, invoiceURL); err != nil {
			s.logger.Warn("payment receipt mail failed", zap.String("email", to), zap.Error(err))
		}
	}(u.Email, verified.Amount, verified.InvoiceURL)
}
