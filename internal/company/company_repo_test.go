package company

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	companyerrors "github.com/regtech-horizon/regtech-backend/internal/company/errors"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

func newTestRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)
	return NewRepository(storage.NewEngine(gdb)), mock
}

func TestRepository_Search_CountsBeforePaginating(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "companies" WHERE status = \$1`).
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`SELECT .* FROM "companies" WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("active", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_name"}).
			AddRow("c-11", "Acme Eleven"))

	rows, total, err := repo.Search(context.Background(), SearchParams{Limit: 10, Offset: 10})

	assert.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, rows, 1)
	assert.Equal(t, "c-11", rows[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Search_TermScansJSONBElements(t *testing.T) {
	repo, mock := newTestRepo(t)

	pattern := "%kyc%"
	mock.ExpectQuery(`SELECT count\(\*\) FROM "companies" WHERE status = \$1 AND \(+company_name ILIKE .*jsonb_array_elements\(companies\.services\).*jsonb_array_elements\(companies\.founders\).*`).
		WithArgs("active", pattern, pattern, pattern, pattern, pattern, pattern, pattern, pattern, pattern).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .* FROM "companies" WHERE status = \$1 AND \(+company_name ILIKE .*ORDER BY company_name ASC LIMIT \$11`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c-1"))

	rows, total, err := repo.Search(context.Background(), SearchParams{
		Term:   "kyc",
		SortBy: "name",
		Limit:  10,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Search_CommaListsExpandToORGroups(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "companies" WHERE status = \$1 AND \(+country ILIKE \$2 OR country ILIKE \$3\)+ AND \(+niche ILIKE \$4\)+`).
		WithArgs("active", "Nigeria", "Ghana", "payments").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.Search(context.Background(), SearchParams{
		Countries: []string{"Nigeria", "Ghana"},
		Niches:    []string{"payments"},
		Limit:     10,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_ZeroMatchReadsAsNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(`UPDATE "companies" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), "missing", map[string]any{"name": "Acme"})

	assert.Equal(t, companyerrors.ErrCompanyNotFound, err)
}

func TestRepository_SoftDelete_FlagsInactive(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(`UPDATE "companies" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs("inactive", sqlmock.AnyArg(), "c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SoftDelete(context.Background(), "c-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
