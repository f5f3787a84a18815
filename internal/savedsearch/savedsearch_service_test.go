package savedsearch

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

func newTestService(t *testing.T) (Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)
	return NewService(storage.NewEngine(gdb), zap.NewNop()), mock
}

func TestService_Create_PersistsOpaqueParams(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec(`INSERT INTO "saved_searches"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.Create(context.Background(), "u-1", SaveSearchRequest{
		Name:   "Nigerian AML vendors",
		Params: []byte(`{"country":"Nigeria","term":"aml"}`),
	})

	assert.NoError(t, err)
	assert.Equal(t, "Nigerian AML vendors", resp.Name)
	assert.JSONEq(t, `{"country":"Nigeria","term":"aml"}`, string(resp.Params))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update_ForeignIDReadsAsMissing(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec(`UPDATE "saved_searches" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	name := "renamed"
	_, err := svc.Update(context.Background(), "u-1", "someone-elses", UpdateSearchRequest{Name: &name})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestService_Delete_AbsentIsNotFound(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectExec(`DELETE FROM "saved_searches" WHERE id = \$1 AND user_id = \$2`).
		WithArgs("missing", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Delete(context.Background(), "u-1", "missing")

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}
