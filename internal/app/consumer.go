package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/events"
	"github.com/regtech-horizon/regtech-backend/internal/messaging/kafka/consumer"
	"github.com/regtech-horizon/regtech-backend/internal/shared/connection"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

const activityConsumerGroup = "regtech-activity-log"

// RunConsumer materializes activity log rows from the lifecycle topics until
// interrupted.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	engine := storage.NewEngine(gormDB, logger)

	newReader := func(topic string) *kafkago.Reader {
		return kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{kafkaBroker},
			Topic:          topic,
			GroupID:        activityConsumerGroup,
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
	}

	userReader := newReader(events.UserRegisteredTopic)
	defer userReader.Close()
	companyReader := newReader(events.CompanyCreatedTopic)
	defer companyReader.Close()
	paymentReader := newReader(events.PaymentSucceededTopic)
	defer paymentReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeUserLifecycle(ctx, userReader, engine, logger)
	go consumer.ConsumeCompanyLifecycle(ctx, companyReader, engine, logger)
	go consumer.ConsumePaymentLifecycle(ctx, paymentReader, engine, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
