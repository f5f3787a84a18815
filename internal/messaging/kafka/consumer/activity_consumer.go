package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/events"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

// ConsumeUserLifecycle materializes activity log rows from user events.
func ConsumeUserLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	engine *storage.Engine,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.user_lifecycle")
	log.Info("user lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("user lifecycle consumer stopped")
				return
			}
			log.Error("fetch user lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.UserRegisteredEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode user_registered event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		entry := domain.ActivityLog{
			UserID:       event.UserID,
			ActivityType: event.EventType,
			Title:        "Account created",
			Description:  "Welcome aboard. Your account is ready to use.",
		}
		if err := storage.Create(ctx, engine, &entry); err != nil {
			log.Error("materialize user activity failed",
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit user lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("user activity materialized",
			zap.String("user_id", event.UserID),
			zap.String("event_type", event.EventType),
		)
	}
}

// ConsumeCompanyLifecycle materializes activity log rows from company events.
func ConsumeCompanyLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	engine *storage.Engine,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.company_lifecycle")
	log.Info("company lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("company lifecycle consumer stopped")
				return
			}
			log.Error("fetch company lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.CompanyCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode company_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		entry := domain.ActivityLog{
			UserID:       event.CreatorID,
			ActivityType: event.EventType,
			Title:        "Company listed",
			Description:  fmt.Sprintf("%s is now listed in the directory.", event.CompanyName),
		}
		if err := storage.Create(ctx, engine, &entry); err != nil {
			log.Error("materialize company activity failed",
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit company lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("company activity materialized",
			zap.String("company_id", event.CompanyID),
			zap.String("event_type", event.EventType),
		)
	}
}

// ConsumePaymentLifecycle materializes activity log rows from payment events.
func ConsumePaymentLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	engine *storage.Engine,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payment_lifecycle")
	log.Info("payment lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payment lifecycle consumer stopped")
				return
			}
			log.Error("fetch payment lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.PaymentSucceededEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payment_succeeded event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		entry := domain.ActivityLog{
			UserID:       event.UserID,
			ActivityType: event.EventType,
			Title:        "Payment received",
			Description:  fmt.Sprintf("Payment of %.2f confirmed for your subscription.", event.Amount),
		}
		if err := storage.Create(ctx, engine, &entry); err != nil {
			log.Error("materialize payment activity failed",
				zap.String("payment_id", event.PaymentID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payment lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("payment activity materialized",
			zap.String("payment_id", event.PaymentID),
			zap.String("transaction_ref", event.TransactionRef),
		)
	}
}
