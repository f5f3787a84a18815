package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
	usererrors "github.com/regtech-horizon/regtech-backend/internal/user/errors"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filters storage.Filter, search string, limit, offset int) ([]domain.User, int64, error)
	Update(ctx context.Context, id string, values map[string]any) error
	SoftDelete(ctx context.Context, id string) error
	RecordLogin(ctx context.Context, h *domain.LoginHistory) error
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

func (r *repository) Create(ctx context.Context, u *domain.User) error {
	return storage.Create(ctx, r.engine, u)
}

func (r *repository) RecordLogin(ctx context.Context, h *domain.LoginHistory) error {
	return storage.Create(ctx, r.engine, h)
}

func (r *repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return storage.Read[domain.User](ctx, r.engine, storage.Filter{
		"id":         id,
		"is_deleted": false,
	})
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return storage.Read[domain.User](ctx, r.engine, storage.Filter{
		"email":      email,
		"is_deleted": false,
	})
}

// List pages deleted-exclusive unless the caller filters is_deleted itself.
// search matches first name, last name, or email, case-insensitively; the OR
// of pattern matches sits outside the filter grammar, so it goes through the
// raw handle.
func (r *repository) List(ctx context.Context, filters storage.Filter, search string, limit, offset int) ([]domain.User, int64, error) {
	s := domain.User{}.Descriptor()

	base := r.engine.DB().WithContext(ctx).Model(&domain.User{})
	if _, ok := filters["is_deleted"]; !ok {
		base = base.Where("is_deleted = ?", false)
	}

	preds, err := storage.Predicates(s, filters)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range preds {
		base = base.Where(p.Expr, p.Args...)
	}

	if search != "" {
		pattern := "%" + search + "%"
		base = base.Where(
			"(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err = base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *repository) Update(ctx context.Context, id string, values map[string]any) error {
	err := storage.Update[domain.User](ctx, r.engine, storage.Filter{"id": id, "is_deleted": false}, values)
	if err != nil && isZeroMatch(err) {
		return usererrors.ErrUserNotFound
	}
	return err
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	err := storage.Delete[domain.User](ctx, r.engine, storage.Filter{"id": id, "is_deleted": false})
	if err != nil && isZeroMatch(err) {
		return usererrors.ErrUserNotFound
	}
	return err
}

func isZeroMatch(err error) bool {
	return errors.Is(err, storage.ErrNoRowsMatched)
}
