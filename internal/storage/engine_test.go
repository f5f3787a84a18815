package storage

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

type gadget struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	IsDeleted bool
}

func (gadget) TableName() string { return "gadgets" }

func (gadget) Descriptor() Schema {
	return Schema{
		Entity: "Gadget",
		Table:  "gadgets",
		Fields: map[string]Field{
			"id":         {Column: "id", Kind: KindString},
			"name":       {Column: "name", Kind: KindString},
			"is_deleted": {Column: "is_deleted", Kind: KindBool},
		},
		Deletion:      SoftFlag,
		SoftDeleteSet: map[string]any{"is_deleted": true},
	}
}

type trinket struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (trinket) TableName() string { return "trinkets" }

func (trinket) Descriptor() Schema {
	return Schema{
		Entity: "Trinket",
		Table:  "trinkets",
		Fields: map[string]Field{
			"id":   {Column: "id", Kind: KindString},
			"name": {Column: "name", Kind: KindString},
		},
		Deletion: HardCascade,
	}
}

func newTestEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	return NewEngine(gdb), mock
}

func TestRead_NotFound(t *testing.T) {
	e, mock := newTestEngine(t)
	mock.ExpectQuery(`SELECT .* FROM "trinkets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := Read[trinket](context.Background(), e, Filter{"id": "missing"})

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	assert.Equal(t, "No Trinket found with given filters", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRead_SingleMatch(t *testing.T) {
	e, mock := newTestEngine(t)
	mock.ExpectQuery(`SELECT .* FROM "trinkets" WHERE id = \$1`).
		WithArgs("t-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("t-1", "astrolabe"))

	row, err := Read[trinket](context.Background(), e, Filter{"id": "t-1"})
	assert.NoError(t, err)
	assert.Equal(t, "astrolabe", row.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRead_UnknownFilterFieldFailsBeforeQuerying(t *testing.T) {
	e, mock := newTestEngine(t)

	_, err := Read[trinket](context.Background(), e, Filter{"owner": "x"})

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_ZeroMatchesFails(t *testing.T) {
	e, mock := newTestEngine(t)
	mock.ExpectExec(`UPDATE "trinkets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := Update[trinket](context.Background(), e, Filter{"id": "missing"}, map[string]any{"name": "renamed"})

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, "No Trinket found to update", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdate_ZeroMatchesTolerated(t *testing.T) {
	e, mock := newTestEngine(t)
	mock.ExpectExec(`UPDATE "trinkets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := BulkUpdate[trinket](context.Background(), e, Filter{"name": "nobody"}, map[string]any{"name": "renamed"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_UnknownValueFieldRejected(t *testing.T) {
	e, mock := newTestEngine(t)

	err := Update[trinket](context.Background(), e, Filter{"id": "t-1"}, map[string]any{"owner": "x"})

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_SoftFlagIssuesUpdate(t *testing.T) {
	e, mock := newTestEngine(t)
	mock.ExpectExec(`UPDATE "gadgets" SET "is_deleted"=\$1 WHERE id = \$2`).
		WithArgs(true, "g-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := Delete[gadget](context.Background(), e, Filter{"id": "g-1"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_HardCascadeIssuesDelete(t *testing.T) {
	e, mock := newTestEngine(t)
	mock.ExpectExec(`DELETE FROM "trinkets" WHERE id = \$1`).
		WithArgs("t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := Delete[trinket](context.Background(), e, Filter{"id": "t-1"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_ZeroMatchesFails(t *testing.T) {
	e, mock := newTestEngine(t)
	mock.ExpectExec(`DELETE FROM "trinkets"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := Delete[trinket](context.Background(), e, Filter{"id": "missing"})

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "No Trinket found to delete", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkRead_SortLimitOffset(t *testing.T) {
	e, mock := newTestEngine(t)
	mock.ExpectQuery(`SELECT .* FROM "trinkets" ORDER BY name desc LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("t-9", "zither").AddRow("t-8", "yoke"))

	rows, err := BulkRead[trinket](context.Background(), e, ListOptions{
		SortColumn:    "name",
		SortDirection: "desc",
		Limit:         2,
		Offset:        4,
	})

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkRead_UnknownSortFieldRejected(t *testing.T) {
	e, mock := newTestEngine(t)

	_, err := BulkRead[trinket](context.Background(), e, ListOptions{SortColumn: "owner"})

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	e, mock := newTestEngine(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "trinkets" WHERE name = \$1`).
		WithArgs("astrolabe").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := Count[trinket](context.Background(), e, Filter{"name": "astrolabe"})

	assert.NoError(t, err)
	assert.EqualValues(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeWriteError_UniqueViolationBecomesConflict(t *testing.T) {
	err := normalizeWriteError(&pgconn.PgError{Code: "23505"}, "Gadget")

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, "A Gadget with the same unique field already exists", appErr.Message)
}

func TestNormalizeWriteError_DriverTextNeverLeaks(t *testing.T) {
	err := normalizeWriteError(errors.New("pq: relation \"gadgets\" does not exist"), "Gadget")

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInternalError, appErr.Code)
	assert.NotContains(t, appErr.Message, "pq:")
	assert.NotContains(t, appErr.Message, "relation")
}

func TestNormalizeWriteError_PassesThroughAppErrors(t *testing.T) {
	in := apperror.Validation("Name is required")
	out := normalizeWriteError(in, "Gadget")
	assert.Equal(t, in, out)
}
