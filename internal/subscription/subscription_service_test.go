package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/events"
	"github.com/regtech-horizon/regtech-backend/internal/messaging/kafka"
	kafkamock "github.com/regtech-horizon/regtech-backend/internal/messaging/kafka/mock"
	"github.com/regtech-horizon/regtech-backend/internal/notification"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
	subscriptionerrors "github.com/regtech-horizon/regtech-backend/internal/subscription/errors"
)

type fakeGateway struct {
	verifyFn func(ctx context.Context, id int64) (VerifiedTransaction, error)
	calls    int
}

func (f *fakeGateway) VerifyTransaction(ctx context.Context, id int64) (VerifiedTransaction, error) {
	f.calls++
	if f.verifyFn != nil {
		return f.verifyFn(ctx, id)
	}
	return VerifiedTransaction{}, nil
}

type fakeNotifier struct {
	requests []notification.CreateNotificationRequest
}

func (f *fakeNotifier) Create(_ context.Context, req notification.CreateNotificationRequest) (notification.NotificationResponse, error) {
	f.requests = append(f.requests, req)
	return notification.NotificationResponse{}, nil
}

type paymentReceipt struct {
	to         string
	amount     float64
	invoiceURL string
}

type fakeMailer struct {
	receipts chan paymentReceipt
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{receipts: make(chan paymentReceipt, 4)}
}

func (f *fakeMailer) SendWelcome(to, firstName string) error { return nil }

func (f *fakeMailer) SendPaymentReceipt(to string, amount float64, invoiceURL string) error {
	f.receipts <- paymentReceipt{to: to, amount: amount, invoiceURL: invoiceURL}
	return nil
}

type testDeps struct {
	sql      sqlmock.Sqlmock
	redis    redismock.ClientMock
	gateway  *fakeGateway
	notifier *fakeNotifier
	mailer   *fakeMailer
	outbox   *kafkamock.MockOutboxRepository
}

func newTestService(t *testing.T) (Service, *testDeps) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	rdb, redisMock := redismock.NewClientMock()
	deps := &testDeps{
		sql:      sqlMock,
		redis:    redisMock,
		gateway:  &fakeGateway{},
		notifier: &fakeNotifier{},
		mailer:   newFakeMailer(),
		outbox:   kafkamock.NewMockOutboxRepository(gomock.NewController(t)),
	}

	engine := storage.NewEngine(gdb)
	svc := NewService(engine, rdb, deps.gateway, deps.notifier, deps.mailer, deps.outbox, zap.NewNop())
	return svc, deps
}

func subscriptionRows(sub domain.Subscription) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "tier", "billing_cycle", "start_date", "end_date", "status"}).
		AddRow(sub.ID, sub.UserID, sub.Tier, sub.BillingCycle, sub.StartDate, sub.EndDate, sub.Status)
}

func expectCurrentLookup(m sqlmock.Sqlmock, userID string) *sqlmock.ExpectedQuery {
	return m.ExpectQuery(`SELECT .* FROM "subscriptions" WHERE status IN \(\$1,\$2\) AND user_id = \$3 ORDER BY created_at desc LIMIT \$4`).
		WithArgs(domain.SubscriptionStatusActive, domain.SubscriptionStatusCancelled, userID, 1)
}

func TestService_GetCurrent_NoSubscription(t *testing.T) {
	svc, deps := newTestService(t)

	expectCurrentLookup(deps.sql, "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetCurrent(context.Background(), "u-1")

	assert.ErrorIs(t, err, subscriptionerrors.ErrNoSubscription)
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_GetCurrent_IncludesRecentPayments(t *testing.T) {
	svc, deps := newTestService(t)

	expectCurrentLookup(deps.sql, "u-1").
		WillReturnRows(subscriptionRows(domain.Subscription{
			Base:         domain.Base{ID: "s-1"},
			UserID:       "u-1",
			Tier:         "Pro",
			BillingCycle: domain.BillingCycleMonthly,
			Status:       domain.SubscriptionStatusActive,
		}))
	deps.sql.ExpectQuery(`SELECT .* FROM "payments" WHERE subscription_id = \$1 ORDER BY created_at desc LIMIT \$2`).
		WithArgs("s-1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "subscription_id", "amount", "status"}).
			AddRow("p-2", "s-1", 49.99, domain.PaymentStatusSuccessful).
			AddRow("p-1", "s-1", 49.99, domain.PaymentStatusSuccessful))

	resp, err := svc.GetCurrent(context.Background(), "u-1")

	assert.NoError(t, err)
	assert.Equal(t, "s-1", resp.ID)
	assert.Len(t, resp.PaymentHistory, 2)
	assert.Equal(t, "Pro Payment", resp.PaymentHistory[0].Description)
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	svc, deps := newTestService(t)

	expectCurrentLookup(deps.sql, "u-1").
		WillReturnRows(subscriptionRows(domain.Subscription{
			Base:   domain.Base{ID: "s-1"},
			UserID: "u-1",
			Status: domain.SubscriptionStatusCancelled,
		}))

	_, err := svc.Cancel(context.Background(), "u-1")

	assert.ErrorIs(t, err, subscriptionerrors.ErrAlreadyCancelled)
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_Cancel_Success(t *testing.T) {
	svc, deps := newTestService(t)

	expectCurrentLookup(deps.sql, "u-1").
		WillReturnRows(subscriptionRows(domain.Subscription{
			Base:   domain.Base{ID: "s-1"},
			UserID: "u-1",
			Status: domain.SubscriptionStatusActive,
		}))
	deps.sql.ExpectExec(`UPDATE "subscriptions" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(domain.SubscriptionStatusCancelled, sqlmock.AnyArg(), "s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.Cancel(context.Background(), "u-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.SubscriptionStatusCancelled, resp.Status)
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_Reactivate_RequiresCancelled(t *testing.T) {
	svc, deps := newTestService(t)

	expectCurrentLookup(deps.sql, "u-1").
		WillReturnRows(subscriptionRows(domain.Subscription{
			Base:   domain.Base{ID: "s-1"},
			UserID: "u-1",
			Status: domain.SubscriptionStatusActive,
		}))

	_, err := svc.Reactivate(context.Background(), "u-1")

	assert.ErrorIs(t, err, subscriptionerrors.ErrNotCancelled)
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_Reactivate_RecomputesLapsedEndDate(t *testing.T) {
	svc, deps := newTestService(t)

	expectCurrentLookup(deps.sql, "u-1").
		WillReturnRows(subscriptionRows(domain.Subscription{
			Base:         domain.Base{ID: "s-1"},
			UserID:       "u-1",
			BillingCycle: domain.BillingCycleMonthly,
			EndDate:      time.Now().UTC().Add(-48 * time.Hour),
			Status:       domain.SubscriptionStatusCancelled,
		}))
	deps.sql.ExpectExec(`UPDATE "subscriptions" SET "end_date"=\$1,"status"=\$2,"updated_at"=\$3 WHERE id = \$4`).
		WithArgs(sqlmock.AnyArg(), domain.SubscriptionStatusActive, sqlmock.AnyArg(), "s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.Reactivate(context.Background(), "u-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.SubscriptionStatusActive, resp.Status)
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), resp.EndDate, time.Minute)
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_Reactivate_KeepsFutureEndDate(t *testing.T) {
	svc, deps := newTestService(t)

	endDate := time.Now().UTC().Add(10 * 24 * time.Hour).Truncate(time.Second)
	expectCurrentLookup(deps.sql, "u-1").
		WillReturnRows(subscriptionRows(domain.Subscription{
			Base:         domain.Base{ID: "s-1"},
			UserID:       "u-1",
			BillingCycle: domain.BillingCycleMonthly,
			EndDate:      endDate,
			Status:       domain.SubscriptionStatusCancelled,
		}))
	deps.sql.ExpectExec(`UPDATE "subscriptions" SET "end_date"=\$1,"status"=\$2,"updated_at"=\$3 WHERE id = \$4`).
		WithArgs(endDate, domain.SubscriptionStatusActive, sqlmock.AnyArg(), "s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.Reactivate(context.Background(), "u-1")

	assert.NoError(t, err)
	assert.Equal(t, endDate, resp.EndDate)
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_Webhook_IgnoresOtherEvents(t *testing.T) {
	svc, deps := newTestService(t)

	err := svc.HandlePaymentEvent(context.Background(), WebhookPayload{
		Event: "charge.failed",
		Data:  WebhookData{ID: 914},
	})

	assert.NoError(t, err)
	assert.Zero(t, deps.gateway.calls)
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_Webhook_ReplayWithinLockWindow(t *testing.T) {
	svc, deps := newTestService(t)

	deps.redis.ExpectSetNX("flw:txn:914", "processing", replayLockTTL).SetVal(false)

	err := svc.HandlePaymentEvent(context.Background(), WebhookPayload{
		Event: chargeCompletedEvent,
		Data:  WebhookData{ID: 914},
	})

	assert.NoError(t, err)
	assert.Zero(t, deps.gateway.calls)
	assert.NoError(t, deps.redis.ExpectationsWereMet())
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_Webhook_ReleasesLockWhenVerificationFails(t *testing.T) {
	svc, deps := newTestService(t)

	deps.redis.ExpectSetNX("flw:txn:914", "processing", replayLockTTL).SetVal(true)
	deps.redis.ExpectDel("flw:txn:914").SetVal(1)
	deps.gateway.verifyFn = func(context.Context, int64) (VerifiedTransaction, error) {
		return VerifiedTransaction{}, subscriptionerrors.ErrGatewayVerification
	}

	err := svc.HandlePaymentEvent(context.Background(), WebhookPayload{
		Event: chargeCompletedEvent,
		Data:  WebhookData{ID: 914},
	})

	assert.ErrorIs(t, err, subscriptionerrors.ErrGatewayVerification)
	assert.NoError(t, deps.redis.ExpectationsWereMet())
}

func TestService_Webhook_SettlesVerifiedCharge(t *testing.T) {
	svc, deps := newTestService(t)

	deps.redis.ExpectSetNX("flw:txn:914", "processing", replayLockTTL).SetVal(true)
	deps.gateway.verifyFn = func(_ context.Context, id int64) (VerifiedTransaction, error) {
		assert.Equal(t, int64(914), id)
		return VerifiedTransaction{
			TxRef:       "s-1",
			Amount:      49.99,
			Currency:    "NGN",
			PaymentType: "card",
			InvoiceURL:  "https://inv.example/914",
		}, nil
	}

	endDate := time.Now().UTC().Add(5 * 24 * time.Hour)
	deps.sql.ExpectQuery(`SELECT .* FROM "subscriptions" WHERE id = \$1 .*LIMIT \$2`).
		WithArgs("s-1", 1).
		WillReturnRows(subscriptionRows(domain.Subscription{
			Base:         domain.Base{ID: "s-1"},
			UserID:       "u-1",
			Tier:         "Pro",
			BillingCycle: domain.BillingCycleMonthly,
			EndDate:      endDate,
			Status:       domain.SubscriptionStatusActive,
		}))
	deps.sql.ExpectQuery(`SELECT .* FROM "payments" WHERE transaction_ref = \$1 .*LIMIT \$2`).
		WithArgs("914", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	deps.sql.ExpectBegin()
	deps.sql.ExpectExec(`INSERT INTO "payments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	deps.sql.ExpectExec(`UPDATE "subscriptions" SET "end_date"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	var captured kafka.OutboxEvent
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			captured = e
			return nil
		})
	deps.sql.ExpectCommit()

	deps.sql.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1 .*LIMIT \$2`).
		WithArgs("u-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow("u-1", "payer@example.com"))

	err := svc.HandlePaymentEvent(context.Background(), WebhookPayload{
		Event: chargeCompletedEvent,
		Data:  WebhookData{ID: 914},
	})

	assert.NoError(t, err)
	assert.Equal(t, events.PaymentSucceededTopic, captured.Topic)
	assert.Equal(t, "payment_succeeded", captured.EventType)
	assert.Contains(t, string(captured.Payload), `"transaction_ref":"914"`)

	if assert.Len(t, deps.notifier.requests, 1) {
		req := deps.notifier.requests[0]
		assert.Equal(t, "u-1", *req.UserID)
		assert.Equal(t, domain.NotificationCategoryPayment, req.Category)
	}

	select {
	case receipt := <-deps.mailer.receipts:
		assert.Equal(t, "payer@example.com", receipt.to)
		assert.Equal(t, 49.99, receipt.amount)
		assert.Equal(t, "https://inv.example/914", receipt.invoiceURL)
	case <-time.After(2 * time.Second):
		t.Fatal("payment receipt was not sent")
	}

	assert.NoError(t, deps.redis.ExpectationsWereMet())
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}

func TestService_Webhook_ReplayedTransactionNotReExtended(t *testing.T) {
	svc, deps := newTestService(t)

	// Lock expired, so the replay makes it to the durable guard.
	deps.redis.ExpectSetNX("flw:txn:914", "processing", replayLockTTL).SetVal(true)
	deps.gateway.verifyFn = func(context.Context, int64) (VerifiedTransaction, error) {
		return VerifiedTransaction{TxRef: "s-1", Amount: 49.99}, nil
	}

	deps.sql.ExpectQuery(`SELECT .* FROM "subscriptions" WHERE id = \$1 .*LIMIT \$2`).
		WithArgs("s-1", 1).
		WillReturnRows(subscriptionRows(domain.Subscription{
			Base:   domain.Base{ID: "s-1"},
			UserID: "u-1",
			Status: domain.SubscriptionStatusActive,
		}))
	deps.sql.ExpectQuery(`SELECT .* FROM "payments" WHERE transaction_ref = \$1 .*LIMIT \$2`).
		WithArgs("914", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "transaction_ref"}).AddRow("p-1", "914"))

	err := svc.HandlePaymentEvent(context.Background(), WebhookPayload{
		Event: chargeCompletedEvent,
		Data:  WebhookData{ID: 914},
	})

	assert.NoError(t, err)
	assert.Empty(t, deps.notifier.requests)
	assert.Len(t, deps.mailer.receipts, 0)
	assert.NoError(t, deps.sql.ExpectationsWereMet())
}
