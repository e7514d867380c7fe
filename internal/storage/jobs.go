package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/devjobshq/jobharvest/internal/domain"
)

// sectorArray adapts a sector list to the driver's array type.
func sectorArray(sectors []string) pq.StringArray {
	return pq.StringArray(sectors)
}

// jobsSchema creates the destination table if absent. Sectors are stored
// as a native text array; external_id is the natural key.
const jobsSchema = `
	CREATE TABLE IF NOT EXISTS jobs (
		external_id  TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		organization TEXT NOT NULL,
		location     TEXT NOT NULL,
		deadline     TEXT NOT NULL,
		sectors      TEXT[] NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		original_url TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// JobRepository handles database operations for harvested jobs.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// EnsureSchema creates the jobs table if it does not exist. It must
// succeed before any write; failure aborts the import phase.
func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, jobsSchema); err != nil {
		return fmt.Errorf("failed to ensure jobs schema: %w", err)
	}
	return nil
}

// Upsert inserts the record or overwrites all mutable fields of the
// existing row keyed on external_id, bumping updated_at. The statement
// is atomic; there is no read-then-write window for concurrent writers
// to race through. Returns whether the row was newly inserted.
func (r *JobRepository) Upsert(ctx context.Context, job *domain.Job) (bool, error) {
	query := `
		INSERT INTO jobs (external_id, title, organization, location,
		                  deadline, sectors, description, original_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id)
		DO UPDATE SET
			title        = EXCLUDED.title,
			organization = EXCLUDED.organization,
			location     = EXCLUDED.location,
			deadline     = EXCLUDED.deadline,
			sectors      = EXCLUDED.sectors,
			description  = EXCLUDED.description,
			original_url = EXCLUDED.original_url,
			updated_at   = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.QueryRowContext(
		ctx,
		query,
		job.ExternalID,
		job.Title,
		job.Organization,
		job.Location,
		job.Deadline,
		sectorArray(job.Sectors),
		job.Description,
		job.OriginalURL,
	).Scan(&inserted)

	if err != nil {
		return false, fmt.Errorf("failed to upsert job %s: %w", job.ExternalID, err)
	}

	return inserted, nil
}

// Count returns the number of stored jobs.
func (r *JobRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM jobs`); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}
