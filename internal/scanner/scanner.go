// Package scanner implements backward discovery over the source's
// sequential identifier space. Identifiers are probed in fixed-size
// concurrent batches; the batch boundary is the backpressure mechanism.
package scanner

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/devjobshq/jobharvest/internal/logger"
)

// ErrNoJobsDiscovered is returned when a full scan finds no valid
// identifiers at all. An empty scan means the site is unreachable or its
// markup shifted; surfacing it keeps a broken run from looking healthy.
var ErrNoJobsDiscovered = errors.New("no valid job identifiers discovered")

// Prober checks whether a single identifier names a live record.
// Implementations must be side-effect-free with respect to other probes
// and must report fetch faults as "not valid", never as errors.
type Prober interface {
	Probe(ctx context.Context, id int) bool
}

// Config holds the scanner knobs.
type Config struct {
	// BatchSize is the number of ids probed concurrently per batch.
	BatchSize int
	// InvalidThreshold stops the scan after this many consecutive
	// invalid ids, counted in descending id order.
	InvalidThreshold int
}

// Scanner walks the identifier space backward from a start id.
type Scanner struct {
	prober           Prober
	log              logger.Interface
	batchSize        int
	invalidThreshold int
}

// New creates a scanner.
func New(prober Prober, cfg Config, log logger.Interface) *Scanner {
	return &Scanner{
		prober:           prober,
		log:              log.WithComponent("scanner"),
		batchSize:        cfg.BatchSize,
		invalidThreshold: cfg.InvalidThreshold,
	}
}

// probeResult pairs an identifier with its probe outcome.
type probeResult struct {
	id    int
	valid bool
}

// Scan probes ids strictly backward from startID and returns the valid
// ones in descending order. limit > 0 caps the result; surplus results
// from in-flight probes are discarded. The scan stops once
// InvalidThreshold consecutive ids (in id order, not completion order)
// come back invalid.
func (s *Scanner) Scan(ctx context.Context, startID, limit int) ([]int, error) {
	var valid []int
	consecutiveInvalid := 0

	s.log.Info("scan started",
		"start_id", startID,
		"batch_size", s.batchSize,
		"invalid_threshold", s.invalidThreshold,
		"limit", limit,
	)

scan:
	for next := startID; next >= 0; next -= s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch := s.batchIDs(next)
		if len(batch) == 0 {
			break
		}

		for _, result := range s.probeBatch(ctx, batch) {
			if !result.valid {
				consecutiveInvalid++
				if consecutiveInvalid >= s.invalidThreshold {
					s.log.Info("invalid threshold reached", "last_id", result.id)
					break scan
				}
				continue
			}

			consecutiveInvalid = 0

			valid = append(valid, result.id)
			if limit > 0 && len(valid) >= limit {
				s.log.Info("limit reached", "limit", limit)
				break scan
			}
		}

		s.log.Debug("batch scanned", "low_id", batch[len(batch)-1], "valid_so_far", len(valid))
	}

	if len(valid) == 0 {
		return nil, ErrNoJobsDiscovered
	}

	s.log.Info("scan finished", "valid_ids", len(valid))

	return valid, nil
}

// batchIDs returns the descending id batch starting at high, clipped at 0.
func (s *Scanner) batchIDs(high int) []int {
	ids := make([]int, 0, s.batchSize)
	for id := high; id > high-s.batchSize && id >= 0; id-- {
		ids = append(ids, id)
	}
	return ids
}

// probeBatch probes all ids concurrently and returns the results sorted
// descending by id. Probes complete out of order; the sort restores the
// ordering invariant downstream consumers depend on.
func (s *Scanner) probeBatch(ctx context.Context, ids []int) []probeResult {
	results := make([]probeResult, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)

		go func(slot, id int) {
			defer wg.Done()
			results[slot] = probeResult{id: id, valid: s.prober.Probe(ctx, id)}
		}(i, id)
	}
	wg.Wait()

	sort.Slice(results, func(a, b int) bool {
		return results[a].id > results[b].id
	})

	return results
}
