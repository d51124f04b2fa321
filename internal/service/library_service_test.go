package service

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/internal/repository"
	"github.com/drivetimetales/dtt-backend/pkg/catalog"
	"github.com/drivetimetales/dtt-backend/pkg/email"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

type fakeStorage struct{}

func (fakeStorage) Upload(key string, src io.Reader, contentType string) error { return nil }
func (fakeStorage) Delete(key string) error                                    { return nil }
func (fakeStorage) PresignUpload(key, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}
func (fakeStorage) PublicURL(key string) string { return "https://cdn.test/" + key }

func newLibraryService(db *gorm.DB) *LibraryService {
	return NewLibraryService(
		db,
		repository.NewUserRepository(db),
		repository.NewStoryRepository(db),
		repository.NewLibraryRepository(db),
		catalog.Default(),
		fakeStorage{},
		email.NewEmailService(),
		zap.NewNop(),
	)
}

func expectStory(mock sqlmock.Sqlmock, id uint, credits int) {
	mock.ExpectQuery(`SELECT \* FROM "stories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author", "credits", "audio_key"}).
			AddRow(id, "The Long Haul", "M. Kessler", credits, "stories/long-haul.mp3"))
}

func expectUser(mock sqlmock.Sqlmock, id uint, credits int, plan string) {
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "display_name", "credits", "subscription_type"}).
			AddRow(id, "driver@example.com", "Dana", credits, plan))
}

func TestPurchaseStorySpendsCredits(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newLibraryService(db)

	expectStory(mock, 10, 3)
	expectUser(mock, 1, 5, "free")
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_stories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "credits"=credits - .+ AND credits >= `).
		WithArgs(3, sqlmock.AnyArg(), 1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "user_stories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	resp, err := svc.PurchaseStory(1, 10)
	if err != nil {
		t.Fatalf("PurchaseStory: %v", err)
	}
	if resp.CreditsSpent != 3 {
		t.Errorf("credits spent = %d, want 3", resp.CreditsSpent)
	}
	if resp.RemainingCredits != 2 {
		t.Errorf("remaining = %d, want 2", resp.RemainingCredits)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPurchaseStoryInsufficientCredits(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newLibraryService(db)

	expectStory(mock, 10, 8)
	expectUser(mock, 1, 2, "free")
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_stories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// The guarded UPDATE touches no rows, so the transaction rolls back and
	// no entitlement is written.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "credits"=credits - .+ AND credits >= `).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.PurchaseStory(1, 10)

	var insufficient *InsufficientCreditsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientCreditsError", err)
	}
	if insufficient.Required != 8 || insufficient.Available != 2 {
		t.Errorf("detail = %+v", insufficient)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPurchaseStoryAlreadyOwned(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newLibraryService(db)

	expectStory(mock, 10, 3)
	expectUser(mock, 1, 5, "free")
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_stories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	if _, err := svc.PurchaseStory(1, 10); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("err = %v, want ErrAlreadyOwned", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPurchaseStoryUnlimitedPlanSkipsDebit(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newLibraryService(db)

	expectStory(mock, 10, 3)
	expectUser(mock, 1, catalog.UnlimitedCredits, "road_warrior")
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_stories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// No UPDATE on users: the entitlement is written without a debit.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_stories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	resp, err := svc.PurchaseStory(1, 10)
	if err != nil {
		t.Fatalf("PurchaseStory: %v", err)
	}
	if resp.CreditsSpent != 0 {
		t.Errorf("credits spent = %d, want 0", resp.CreditsSpent)
	}
	if resp.RemainingCredits != catalog.UnlimitedCredits {
		t.Errorf("remaining = %d, want unlimited sentinel", resp.RemainingCredits)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdateProgressRequiresOwnership(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newLibraryService(db)

	mock.ExpectExec(`UPDATE "user_stories" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.UpdateProgress(1, 10, models.UpdateProgressRequest{ProgressSeconds: 900})
	if !errors.Is(err, ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestStreamURLRequiresOwnership(t *testing.T) {
	db, mock := newTestDB(t)
	svc := newLibraryService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_stories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	if _, err := svc.StreamURL(1, 10); !errors.Is(err, ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
