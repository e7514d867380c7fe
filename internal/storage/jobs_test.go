package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/storage"
)

func newJobRepo(t *testing.T) (*storage.JobRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db := sqlx.NewDb(mockDB, "postgres")
	repo := storage.NewJobRepository(db)

	return repo, mock, func() { mockDB.Close() }
}

func sampleJob() *domain.Job {
	return &domain.Job{
		ExternalID:   "4521",
		Title:        "Programme Officer",
		Organization: "Rural Health Trust",
		Location:     "New Delhi",
		Deadline:     "15 Sep 2026",
		Sectors:      []string{"Health", "Nutrition"},
		Description:  "Lead the district health programme.",
		OriginalURL:  "https://example.org/jobdescription.php?job_id=4521",
	}
}

func TestJobRepository_EnsureSchema(t *testing.T) {
	repo, mock, cleanup := newJobRepo(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS jobs").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestJobRepository_Upsert_Insert(t *testing.T) {
	repo, mock, cleanup := newJobRepo(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO jobs").
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))

	inserted, err := repo.Upsert(context.Background(), sampleJob())
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !inserted {
		t.Error("expected inserted=true for a new row")
	}
}

func TestJobRepository_Upsert_Update(t *testing.T) {
	repo, mock, cleanup := newJobRepo(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO jobs").
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))

	inserted, err := repo.Upsert(context.Background(), sampleJob())
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if inserted {
		t.Error("expected inserted=false for an existing row")
	}
}

func TestJobRepository_Upsert_Error(t *testing.T) {
	repo, mock, cleanup := newJobRepo(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO jobs").
		WillReturnError(errors.New("constraint violation"))

	if _, err := repo.Upsert(context.Background(), sampleJob()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
