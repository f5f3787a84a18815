package company

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	companyerrors "github.com/regtech-horizon/regtech-backend/internal/company/errors"
	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

// SearchParams is the repo-level search input, already normalized by the
// service (comma lists split, paging resolved).
type SearchParams struct {
	Term      string
	Countries []string
	Sizes     []string
	Niches    []string
	YearMin   int
	YearMax   int
	SortBy    string
	Limit     int
	Offset    int
}

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, c *domain.Company) error
	FindByID(ctx context.Context, id string) (*domain.Company, error)
	FindActiveByEmail(ctx context.Context, email string) (*domain.Company, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Company, error)
	Search(ctx context.Context, p SearchParams) ([]domain.Company, int64, error)
	Update(ctx context.Context, id string, values map[string]any) error
	SoftDelete(ctx context.Context, id string) error
}

type repository struct {
	engine *storage.Engine
}

func NewRepository(engine *storage.Engine) Repository {
	return &repository{engine: engine}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{engine: r.engine.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, c *domain.Company) error {
	return storage.Create(ctx, r.engine, c)
}

func (r *repository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	return storage.Read[domain.Company](ctx, r.engine, storage.Filter{"id": id})
}

func (r *repository) FindActiveByEmail(ctx context.Context, email string) (*domain.Company, error) {
	return storage.Read[domain.Company](ctx, r.engine, storage.Filter{
		"email":  email,
		"status": domain.CompanyStatusActive,
	})
}

func (r *repository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Company, error) {
	return storage.BulkRead[domain.Company](ctx, r.engine, storage.ListOptions{
		Filters:       storage.Filter{"creator_id": creatorID},
		SortColumn:    "created_at",
		SortDirection: "desc",
	})
}

// Search runs the directory query. Term matching reaches into the services
// and founders JSONB arrays with per-element existential scans, which the
// filter grammar cannot express, so the query is built on the raw handle.
func (r *repository) Search(ctx context.Context, p SearchParams) ([]domain.Company, int64, error) {
	base := r.engine.DB().WithContext(ctx).
		Model(&domain.Company{}).
		Where("status = ?", domain.CompanyStatusActive)

	base = applyListFilter(base, "country", p.Countries)
	base = applyListFilter(base, "company_size", p.Sizes)
	base = applyListFilter(base, "niche", p.Niches)

	if p.YearMin > 0 {
		base = base.Where("year_founded >= ?", p.YearMin)
	}
	if p.YearMax > 0 {
		base = base.Where("year_founded <= ?", p.YearMax)
	}

	if p.Term != "" {
		pattern := "%" + p.Term + "%"
		base = base.Where(
			`(company_name ILIKE ? OR description ILIKE ? OR country ILIKE ? OR niche ILIKE ?
			OR EXISTS (SELECT 1 FROM jsonb_array_elements(companies.services) AS svc
				WHERE svc->>'name' ILIKE ? OR svc->>'description' ILIKE ?)
			OR EXISTS (SELECT 1 FROM jsonb_array_elements(companies.founders) AS fdr
				WHERE fdr->>'name' ILIKE ? OR fdr->>'role' ILIKE ? OR fdr->>'bio' ILIKE ?))`,
			pattern, pattern, pattern, pattern,
			pattern, pattern,
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Company
	err := base.Session(&gorm.Session{}).
		Order(sortClause(p.SortBy)).
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// applyListFilter expands a comma-split value list into an OR group of
// case-insensitive exact matches.
func applyListFilter(q *gorm.DB, column string, values []string) *gorm.DB {
	if len(values) == 0 {
		return q
	}

	exprs := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		exprs[i] = column + " ILIKE ?"
		args[i] = v
	}
	return q.Where("("+strings.Join(exprs, " OR ")+")", args...)
}

func sortClause(sortBy string) string {
	switch sortBy {
	case "name":
		return "company_name ASC"
	case "founded":
		return "year_founded DESC"
	case "employees":
		return "company_size DESC"
	default:
		// relevance: newest listings first
		return "created_at DESC"
	}
}

func (r *repository) Update(ctx context.Context, id string, values map[string]any) error {
	err := storage.Update[domain.Company](ctx, r.engine, storage.Filter{"id": id}, values)
	if err != nil && errors.Is(err, storage.ErrNoRowsMatched) {
		return companyerrors.ErrCompanyNotFound
	}
	return err
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	err := storage.Delete[domain.Company](ctx, r.engine, storage.Filter{"id": id})
	if err != nil && errors.Is(err, storage.ErrNoRowsMatched) {
		return companyerrors.ErrCompanyNotFound
	}
	return err
}
