package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/regtech-horizon/regtech-backend/internal/shared/apperror"
)

// ErrNoRowsMatched is wrapped into the zero-match failures of Update, Delete
// and BulkDelete so callers can translate them into domain errors.
var ErrNoRowsMatched = errors.New("no rows matched")

// Engine is the single data-access facade. Every repository goes through it;
// it never leaks storage-engine error text past its boundary.
type Engine struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewEngine(db *gorm.DB, logger ...*zap.Logger) *Engine {
	l := zap.L().Named("storage.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.engine")
	}
	return &Engine{db: db, logger: l}
}

// DB exposes the underlying handle for repositories that need raw clauses
// the filter grammar cannot express (JSONB element scans).
func (e *Engine) DB() *gorm.DB {
	return e.db
}

// WithTx returns an engine bound to an open transaction.
func (e *Engine) WithTx(tx *gorm.DB) *Engine {
	return &Engine{db: tx, logger: e.logger}
}

// ListOptions parameterizes BulkRead.
type ListOptions struct {
	Filters       Filter
	SortColumn    string
	SortDirection string // "asc" or "desc"
	Limit         int    // <=0 means unbounded
	Offset        int
	Joins         []string
	DateFilters   map[string]time.Time
}

// Create inserts a row. Constraint violations are normalized; raw driver
// errors never reach the caller.
func Create[T Entity](ctx context.Context, e *Engine, row *T) error {
	s := descriptorOf[T]()
	if err := e.db.WithContext(ctx).Create(row).Error; err != nil {
		e.logger.Error("create failed", zap.String("entity", s.Entity), zap.Error(err))
		return normalizeWriteError(err, s.Entity)
	}
	return nil
}

// BulkCreate inserts several rows in one statement.
func BulkCreate[T Entity](ctx context.Context, e *Engine, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	s := descriptorOf[T]()
	if err := e.db.WithContext(ctx).Create(&rows).Error; err != nil {
		e.logger.Error("bulk create failed", zap.String("entity", s.Entity), zap.Error(err))
		return normalizeWriteError(err, s.Entity)
	}
	return nil
}

// Read returns exactly one match or a not-found error. joins name the
// relations to eagerly materialize.
func Read[T Entity](ctx context.Context, e *Engine, f Filter, joins ...string) (*T, error) {
	s := descriptorOf[T]()
	q, err := applyFilterQuery(e.db.WithContext(ctx).Model(new(T)), s, f)
	if err != nil {
		return nil, err
	}
	for _, rel := range joins {
		q = q.Preload(rel)
	}

	var row T
	if err := q.First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFoundFor(s.Entity)
		}
		e.logger.Error("read failed", zap.String("entity", s.Entity), zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Error while reading from the database", 500)
	}
	return &row, nil
}

// Update applies values to every row matching conds and fails when nothing
// matched; a silent no-op update hides caller bugs.
func Update[T Entity](ctx context.Context, e *Engine, conds Filter, values map[string]any) error {
	s := descriptorOf[T]()
	return applyUpdate[T](ctx, e, s, conds, values, true)
}

// BulkUpdate is Update minus the zero-match failure. The asymmetry is
// deliberate and preserved from the original contract.
func BulkUpdate[T Entity](ctx context.Context, e *Engine, conds Filter, values map[string]any) error {
	s := descriptorOf[T]()
	return applyUpdate[T](ctx, e, s, conds, values, false)
}

func applyUpdate[T Entity](ctx context.Context, e *Engine, s Schema, conds Filter, values map[string]any, failOnZero bool) error {
	cols, err := resolveColumns(s, values)
	if err != nil {
		return err
	}
	q, err := applyFilterQuery(e.db.WithContext(ctx).Model(new(T)), s, conds)
	if err != nil {
		return err
	}

	res := q.Updates(cols)
	if res.Error != nil {
		e.logger.Error("update failed", zap.String("entity", s.Entity), zap.Error(res.Error))
		return normalizeWriteError(res.Error, s.Entity)
	}
	if failOnZero && res.RowsAffected == 0 {
		return apperror.Wrap(ErrNoRowsMatched, apperror.CodeInvalidInput,
			fmt.Sprintf("No %s found to update", s.Entity), http.StatusBadRequest)
	}
	return nil
}

// Delete removes (or soft-flags, per the entity's DeletionPolicy) every
// matching row and fails when nothing matched.
func Delete[T Entity](ctx context.Context, e *Engine, f Filter) error {
	return applyDelete[T](ctx, e, f, true)
}

// BulkDelete behaves like Delete; zero matches is still a failure here,
// unlike BulkUpdate.
func BulkDelete[T Entity](ctx context.Context, e *Engine, f Filter) error {
	return applyDelete[T](ctx, e, f, true)
}

func applyDelete[T Entity](ctx context.Context, e *Engine, f Filter, failOnZero bool) error {
	s := descriptorOf[T]()
	q, err := applyFilterQuery(e.db.WithContext(ctx).Model(new(T)), s, f)
	if err != nil {
		return err
	}

	var res *gorm.DB
	if s.Deletion == SoftFlag {
		cols, err := resolveColumns(s, s.SoftDeleteSet)
		if err != nil {
			return err
		}
		res = q.Updates(cols)
	} else {
		res = q.Delete(new(T))
	}

	if res.Error != nil {
		e.logger.Error("delete failed", zap.String("entity", s.Entity), zap.Error(res.Error))
		return normalizeWriteError(res.Error, s.Entity)
	}
	if failOnZero && res.RowsAffected == 0 {
		return apperror.Wrap(ErrNoRowsMatched, apperror.CodeInvalidInput,
			fmt.Sprintf("No %s found to delete", s.Entity), http.StatusBadRequest)
	}
	return nil
}

// BulkRead returns a page of rows. Limit<=0 means unbounded; callers are
// expected to guard that themselves.
func BulkRead[T Entity](ctx context.Context, e *Engine, opt ListOptions) ([]T, error) {
	s := descriptorOf[T]()
	q, err := applyFilterQuery(e.db.WithContext(ctx).Model(new(T)), s, opt.Filters)
	if err != nil {
		return nil, err
	}

	for _, rel := range opt.Joins {
		q = q.Preload(rel)
	}

	if len(opt.DateFilters) > 0 {
		names := make([]string, 0, len(opt.DateFilters))
		for name := range opt.DateFilters {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fd, ok := s.Fields[name]
			if !ok {
				return nil, apperror.Validationf("Unsupported date filter field for %s: %s", s.Entity, name)
			}
			q = q.Where(dateExpr(fd.Column), opt.DateFilters[name].Format("2006-01-02"))
		}
	}

	if opt.SortColumn != "" {
		fd, ok := s.Fields[opt.SortColumn]
		if !ok {
			return nil, apperror.Validationf("Unsupported sort field for %s: %s", s.Entity, opt.SortColumn)
		}
		dir := "asc"
		if opt.SortDirection == "desc" {
			dir = "desc"
		}
		q = q.Order(fd.Column + " " + dir)
	}

	if opt.Limit > 0 {
		q = q.Limit(opt.Limit).Offset(opt.Offset)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		e.logger.Error("bulk read failed", zap.String("entity", s.Entity), zap.Error(err))
		return nil, apperror.Validationf("Invalid request filter for %s", s.Entity)
	}
	return rows, nil
}

// Count counts the full filtered set, before any pagination.
func Count[T Entity](ctx context.Context, e *Engine, f Filter) (int64, error) {
	s := descriptorOf[T]()
	q, err := applyFilterQuery(e.db.WithContext(ctx).Model(new(T)), s, f)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		e.logger.Error("count failed", zap.String("entity", s.Entity), zap.Error(err))
		return 0, apperror.Validationf("Invalid request filter for %s", s.Entity)
	}
	return n, nil
}

func applyFilterQuery(q *gorm.DB, s Schema, f Filter) (*gorm.DB, error) {
	preds, err := buildPredicates(s, f)
	if err != nil {
		return nil, err
	}
	for _, p := range preds {
		q = q.Where(p.expr, p.args...)
	}
	return q, nil
}
