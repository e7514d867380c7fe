package importer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devjobshq/jobharvest/internal/domain"
	"github.com/devjobshq/jobharvest/internal/importer"
	"github.com/devjobshq/jobharvest/internal/logger"
)

// fakeStore keeps upserted jobs in memory, failing designated ids.
type fakeStore struct {
	schemaErr error
	failIDs   map[string]bool
	rows      map[string]domain.Job
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		failIDs: make(map[string]bool),
		rows:    make(map[string]domain.Job),
	}
}

func (s *fakeStore) EnsureSchema(context.Context) error {
	return s.schemaErr
}

func (s *fakeStore) Upsert(_ context.Context, job *domain.Job) (bool, error) {
	if s.failIDs[job.ExternalID] {
		return false, errors.New("constraint violation")
	}

	_, exists := s.rows[job.ExternalID]
	s.rows[job.ExternalID] = *job

	return !exists, nil
}

func snapshot(ids ...string) *domain.HarvestOutput {
	jobs := make([]domain.Job, len(ids))
	for i, id := range ids {
		jobs[i] = domain.Job{
			ExternalID:   id,
			Title:        "Job " + id,
			Organization: domain.DefaultOrganization,
			Location:     domain.DefaultLocation,
			Deadline:     domain.DefaultDeadline,
			Sectors:      []string{domain.DefaultSector},
			OriginalURL:  "https://example.org/jobdescription.php?job_id=" + id,
		}
	}
	return domain.NewHarvestOutput(jobs)
}

func TestImport_CountsInsertsAndUpdates(t *testing.T) {
	store := newFakeStore()
	imp := importer.New(store, logger.NewNoOp())

	summary, err := imp.Import(context.Background(), snapshot("1", "2", "3"))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Inserted)
	assert.Zero(t, summary.Updated)
	assert.Zero(t, summary.Errored)
	assert.NotEmpty(t, summary.RunID)

	// Importing the same snapshot again flips inserts to updates.
	summary, err = imp.Import(context.Background(), snapshot("1", "2", "3"))
	require.NoError(t, err)

	assert.Zero(t, summary.Inserted)
	assert.Equal(t, 3, summary.Updated)
}

func TestImport_PerRecordFailureDoesNotAbort(t *testing.T) {
	store := newFakeStore()
	store.failIDs["2"] = true

	summary, err := importer.New(store, logger.NewNoOp()).
		Import(context.Background(), snapshot("1", "2", "3"))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Errored)

	// The failing record must not block its successors.
	assert.Contains(t, store.rows, "3")
	assert.NotContains(t, store.rows, "2")
}

func TestImport_SchemaFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.schemaErr = errors.New("permission denied")

	summary, err := importer.New(store, logger.NewNoOp()).
		Import(context.Background(), snapshot("1"))

	require.Error(t, err)
	assert.Nil(t, summary)
	assert.Empty(t, store.rows)
}

func TestImport_EmptySnapshot(t *testing.T) {
	store := newFakeStore()

	summary, err := importer.New(store, logger.NewNoOp()).
		Import(context.Background(), snapshot())
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.Errored)
}
