package company

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	companyerrors "github.com/regtech-horizon/regtech-backend/internal/company/errors"
	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/events"
	"github.com/regtech-horizon/regtech-backend/internal/messaging/kafka"
	"github.com/regtech-horizon/regtech-backend/internal/notification"
	"github.com/regtech-horizon/regtech-backend/internal/storage"
)

type fakeRepo struct {
	createFn            func(ctx context.Context, c *domain.Company) error
	findByIDFn          func(ctx context.Context, id string) (*domain.Company, error)
	findActiveByEmailFn func(ctx context.Context, email string) (*domain.Company, error)
	listByCreatorFn     func(ctx context.Context, creatorID string) ([]domain.Company, error)
	searchFn            func(ctx context.Context, p SearchParams) ([]domain.Company, int64, error)
	updateFn            func(ctx context.Context, id string, values map[string]any) error
	softDeleteFn        func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, c *domain.Company) error { return f.createFn(ctx, c) }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindActiveByEmail(ctx context.Context, email string) (*domain.Company, error) {
	return f.findActiveByEmailFn(ctx, email)
}
func (f *fakeRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Company, error) {
	return f.listByCreatorFn(ctx, creatorID)
}
func (f *fakeRepo) Search(ctx context.Context, p SearchParams) ([]domain.Company, int64, error) {
	return f.searchFn(ctx, p)
}
func (f *fakeRepo) Update(ctx context.Context, id string, values map[string]any) error {
	return f.updateFn(ctx, id, values)
}
func (f *fakeRepo) SoftDelete(ctx context.Context, id string) error { return f.softDeleteFn(ctx, id) }

type fakeNotifier struct {
	requests []notification.CreateNotificationRequest
}

func (f *fakeNotifier) Create(ctx context.Context, req notification.CreateNotificationRequest) (notification.NotificationResponse, error) {
	f.requests = append(f.requests, req)
	return notification.NotificationResponse{}, nil
}

type fakeOutboxRepo struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepo) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error      { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id, r string) error { return nil }

func newServiceUnderTest(t *testing.T, repo Repository) (Service, *fakeNotifier, *fakeOutboxRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	notifier := &fakeNotifier{}
	outbox := &fakeOutboxRepo{}
	return NewService(storage.NewEngine(gdb), repo, notifier, outbox, zap.NewNop()), notifier, outbox, mock
}

func notFoundRepo() *fakeRepo {
	return &fakeRepo{
		findActiveByEmailFn: func(ctx context.Context, email string) (*domain.Company, error) {
			return nil, companyerrors.ErrCompanyNotFound
		},
	}
}

func TestNormalizeSocials(t *testing.T) {
	linkedin, instagram, x := normalizeSocials([]SocialEntry{
		{Platform: "LinkedIn", URL: "https://linkedin.com/company/acme"},
		{Platform: "Instagram Business", URL: "https://instagram.com/acme"},
		{Platform: "X (Twitter)", URL: "https://x.com/acme"},
		{Platform: "mastodon", URL: "https://example.social/@acme"},
	})

	assert.Equal(t, "https://linkedin.com/company/acme", linkedin)
	assert.Equal(t, "https://instagram.com/acme", instagram)
	assert.Equal(t, "https://x.com/acme", x)

	linkedin, instagram, x = normalizeSocials([]SocialEntry{
		{Platform: "ig", URL: "https://instagram.com/other"},
		{Platform: "twitter", URL: "https://twitter.com/other"},
	})
	assert.Empty(t, linkedin)
	assert.Equal(t, "https://instagram.com/other", instagram)
	assert.Equal(t, "https://twitter.com/other", x)
}

func TestService_Create_DuplicateActiveEmail(t *testing.T) {
	repo := &fakeRepo{
		findActiveByEmailFn: func(ctx context.Context, email string) (*domain.Company, error) {
			return &domain.Company{Email: email}, nil
		},
	}
	svc, _, _, _ := newServiceUnderTest(t, repo)

	_, err := svc.Create(context.Background(), Actor{ID: "u-1"}, CreateCompanyRequest{
		CompanyType: "startup",
		Name:        "Acme",
		Email:       "info@acme.example",
	})

	assert.Equal(t, companyerrors.ErrCompanyEmailTaken, err)
}

func TestService_Create_NotifiesCreator(t *testing.T) {
	repo := notFoundRepo()
	var created *domain.Company
	repo.createFn = func(ctx context.Context, c *domain.Company) error {
		c.ID = "c-1"
		created = c
		return nil
	}
	svc, notifier, _, mock := newServiceUnderTest(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), Actor{ID: "u-1"}, CreateCompanyRequest{
		CompanyType: "startup",
		Name:        "Acme",
		Email:       "Info@Acme.Example",
		Password:    "Secret1!pw",
		Socials: []SocialEntry{
			{Platform: "LinkedIn", URL: "https://linkedin.com/company/acme"},
		},
		Services: []domain.ServiceEntry{{Name: "KYC screening"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "c-1", resp.ID)
	assert.Equal(t, "info@acme.example", created.Email)
	assert.Equal(t, "https://linkedin.com/company/acme", created.SocialLinkedin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("Secret1!pw")))

	assert.Len(t, notifier.requests, 1)
	assert.Equal(t, "u-1", *notifier.requests[0].UserID)
	assert.Equal(t, domain.NotificationCategoryCompany, notifier.requests[0].Category)
}

func TestService_Create_EmitsLifecycleOutboxEvent(t *testing.T) {
	repo := notFoundRepo()
	repo.createFn = func(ctx context.Context, c *domain.Company) error {
		c.ID = "c-1"
		return nil
	}
	svc, _, outbox, mock := newServiceUnderTest(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.Create(context.Background(), Actor{ID: "u-1"}, CreateCompanyRequest{
		CompanyType: "startup",
		Name:        "Acme",
		Email:       "info@acme.example",
	})

	assert.NoError(t, err)
	assert.Len(t, outbox.events, 1)
	assert.Equal(t, "company_created", outbox.events[0].EventType)
	assert.Equal(t, events.CompanyCreatedTopic, outbox.events[0].Topic)
	assert.Equal(t, "c-1", outbox.events[0].AggregateID)
	assert.Equal(t, kafka.OutboxStatusPending, outbox.events[0].Status)

	var event events.CompanyCreatedEvent
	assert.NoError(t, json.Unmarshal(outbox.events[0].Payload, &event))
	assert.Equal(t, "u-1", event.CreatorID)
	assert.Equal(t, "Acme", event.CompanyName)
}

func TestService_Create_AdminWritesAuditTrail(t *testing.T) {
	repo := notFoundRepo()
	repo.createFn = func(ctx context.Context, c *domain.Company) error {
		c.ID = "c-1"
		return nil
	}
	svc, _, _, mock := newServiceUnderTest(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO "audit_trail"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := svc.Create(context.Background(), Actor{ID: "admin-1", Admin: true}, CreateCompanyRequest{
		CompanyType: "startup",
		Name:        "Acme",
		Email:       "info@acme.example",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Search_PaginationContract(t *testing.T) {
	var gotParams SearchParams
	repo := &fakeRepo{
		searchFn: func(ctx context.Context, p SearchParams) ([]domain.Company, int64, error) {
			gotParams = p
			rows := make([]domain.Company, 10)
			for i := range rows {
				rows[i] = domain.Company{Base: domain.Base{ID: "c"}, Name: "Acme"}
			}
			return rows, 25, nil
		},
	}
	svc, _, _, _ := newServiceUnderTest(t, repo)

	resp, page, err := svc.Search(context.Background(), SearchQuery{Page: 2, PerPage: 10})

	assert.NoError(t, err)
	assert.Len(t, resp, 10)
	assert.Equal(t, 10, gotParams.Limit)
	assert.Equal(t, 10, gotParams.Offset)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages())
}

func TestService_Search_SplitsCommaLists(t *testing.T) {
	var gotParams SearchParams
	repo := &fakeRepo{
		searchFn: func(ctx context.Context, p SearchParams) ([]domain.Company, int64, error) {
			gotParams = p
			return nil, 0, nil
		},
	}
	svc, _, _, _ := newServiceUnderTest(t, repo)

	_, _, err := svc.Search(context.Background(), SearchQuery{
		Country: "Nigeria, Ghana ,",
		Size:    "11-50",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Nigeria", "Ghana"}, gotParams.Countries)
	assert.Equal(t, []string{"11-50"}, gotParams.Sizes)
	assert.Equal(t, 10, gotParams.Limit)
	assert.Equal(t, 0, gotParams.Offset)
}

func TestService_Update_OwnerOnly(t *testing.T) {
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Company, error) {
			return &domain.Company{Base: domain.Base{ID: id}, CreatorID: "owner-1"}, nil
		},
	}
	svc, _, _, _ := newServiceUnderTest(t, repo)

	_, err := svc.Update(context.Background(), Actor{ID: "intruder"}, "c-1", UpdateCompanyRequest{})
	assert.Equal(t, companyerrors.ErrNotCompanyOwner, err)

	err = svc.Delete(context.Background(), Actor{ID: "intruder"}, "c-1")
	assert.Equal(t, companyerrors.ErrNotCompanyOwner, err)
}

func TestService_Update_MapsFieldsAndReplacesServices(t *testing.T) {
	var gotValues map[string]any
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Company, error) {
			return &domain.Company{Base: domain.Base{ID: id}, CreatorID: "owner-1"}, nil
		},
		updateFn: func(ctx context.Context, id string, values map[string]any) error {
			gotValues = values
			return nil
		},
	}
	svc, _, _, mock := newServiceUnderTest(t, repo)

	mock.ExpectExec(`UPDATE "companies" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	name := "Acme Regtech"
	services := []domain.ServiceEntry{{Name: "AML monitoring"}}
	_, err := svc.Update(context.Background(), Actor{ID: "owner-1"}, "c-1", UpdateCompanyRequest{
		Name:     &name,
		Socials:  []SocialEntry{{Platform: "linkedin", URL: "https://linkedin.com/new"}},
		Services: &services,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Acme Regtech", gotValues["name"])
	assert.Equal(t, "https://linkedin.com/new", gotValues["social_linkedin"])
	assert.Equal(t, "", gotValues["social_instagram"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Login_GenericCredentialError(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Right1!pw"), bcrypt.DefaultCost)
	repo := &fakeRepo{
		findActiveByEmailFn: func(ctx context.Context, email string) (*domain.Company, error) {
			if email == "known@acme.example" {
				return &domain.Company{Base: domain.Base{ID: "c-1"}, Password: string(hashed)}, nil
			}
			return nil, companyerrors.ErrCompanyNotFound
		},
	}
	svc, _, _, _ := newServiceUnderTest(t, repo)

	_, unknownErr := svc.Login(context.Background(), "nobody@acme.example", "whatever")
	_, wrongErr := svc.Login(context.Background(), "known@acme.example", "Wrong1!pw")
	resp, err := svc.Login(context.Background(), "known@acme.example", "Right1!pw")

	assert.Equal(t, companyerrors.ErrInvalidCompanyCredentials, unknownErr)
	assert.Equal(t, companyerrors.ErrInvalidCompanyCredentials, wrongErr)
	assert.NoError(t, err)
	assert.Equal(t, "c-1", resp.ID)
}

func TestService_ChangePassword_Rules(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Old1!pass"), bcrypt.DefaultCost)
	var gotValues map[string]any
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Company, error) {
			return &domain.Company{Base: domain.Base{ID: id}, CreatorID: "owner-1", Password: string(hashed)}, nil
		},
		updateFn: func(ctx context.Context, id string, values map[string]any) error {
			gotValues = values
			return nil
		},
	}
	svc, _, _, _ := newServiceUnderTest(t, repo)
	owner := Actor{ID: "owner-1"}

	err := svc.ChangePassword(context.Background(), owner, "c-1", ChangeCompanyPasswordRequest{
		CurrentPassword: "Wrong1!pass", NewPassword: "New1!pass",
	})
	assert.Error(t, err)

	err = svc.ChangePassword(context.Background(), owner, "c-1", ChangeCompanyPasswordRequest{
		CurrentPassword: "Old1!pass", NewPassword: "Old1!pass",
	})
	assert.Error(t, err)

	err = svc.ChangePassword(context.Background(), owner, "c-1", ChangeCompanyPasswordRequest{
		CurrentPassword: "Old1!pass", NewPassword: "New1!pass",
	})
	assert.NoError(t, err)

	stored, ok := gotValues["password"].(string)
	assert.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("New1!pass")))
}
