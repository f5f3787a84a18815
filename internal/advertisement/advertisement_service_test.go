package advertisement

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/regtech-horizon/regtech-backend/internal/notification"
	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

type scheduledNotice struct {
	req   notification.CreateNotificationRequest
	delay time.Duration
}

type fakeScheduler struct {
	scheduled []scheduledNotice
}

func (f *fakeScheduler) Schedule(req notification.CreateNotificationRequest, delay time.Duration) {
	f.scheduled = append(f.scheduled, scheduledNotice{req: req, delay: delay})
}

func newTestService(t *testing.T) (Service, *fakeScheduler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	scheduler := &fakeScheduler{}
	return NewService(storage.NewEngine(gdb), scheduler, zap.NewNop()), scheduler, mock
}

func TestService_Create_RejectsInvertedWindow(t *testing.T) {
	svc, _, _ := newTestService(t)

	now := time.Now()
	_, err := svc.Create(context.Background(), "u-1", false, CreateAdvertisementRequest{
		CompanyID: "c-1",
		Title:     "Launch",
		StartDate: now,
		EndDate:   now.Add(-time.Hour),
	})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

func TestService_Create_OwnerOnly(t *testing.T) {
	svc, _, mock := newTestService(t)

	mock.ExpectQuery(`SELECT .* FROM "companies" WHERE id = \$1`).
		WithArgs("c-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id"}).AddRow("c-1", "owner-1"))

	now := time.Now()
	_, err := svc.Create(context.Background(), "intruder", false, CreateAdvertisementRequest{
		CompanyID: "c-1",
		Title:     "Launch",
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
	})

	assert.Equal(t, apperror.ErrForbidden, err)
}

func TestService_Create_AdminBypassesOwnership(t *testing.T) {
	svc, _, mock := newTestService(t)

	mock.ExpectExec(`INSERT INTO "advertisements"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	resp, err := svc.Create(context.Background(), "admin-1", true, CreateAdvertisementRequest{
		CompanyID: "c-1",
		Title:     "Launch",
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
	})

	assert.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_SchedulesEndOfCampaignNotice(t *testing.T) {
	svc, scheduler, mock := newTestService(t)

	mock.ExpectExec(`INSERT INTO "advertisements"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	_, err := svc.Create(context.Background(), "admin-1", true, CreateAdvertisementRequest{
		CompanyID: "c-1",
		Title:     "Launch",
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
	})

	assert.NoError(t, err)
	if assert.Len(t, scheduler.scheduled, 1) {
		notice := scheduler.scheduled[0]
		assert.Equal(t, "admin-1", *notice.req.UserID)
		assert.Equal(t, "Advertisement ended", notice.req.Title)
		assert.Contains(t, notice.req.Message, "Launch")
		assert.InDelta(t, (24 * time.Hour).Seconds(), notice.delay.Seconds(), 5)
	}
}

func TestService_Update_WindowStaysValid(t *testing.T) {
	svc, _, mock := newTestService(t)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	mock.ExpectQuery(`SELECT .* FROM "advertisements" WHERE id = \$1`).
		WithArgs("ad-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "start_date", "end_date"}).
			AddRow("ad-1", "c-1", start, end))

	// New start lands after the existing end.
	newStart := end.Add(time.Hour)
	_, err := svc.Update(context.Background(), "admin-1", true, "ad-1", UpdateAdvertisementRequest{
		StartDate: &newStart,
	})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}
