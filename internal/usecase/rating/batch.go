package rating

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"carescore/internal/bootstrap/logging"
	"carescore/internal/errs"
	"carescore/internal/ports"
)

const defaultBatchWorkers = 4

type BatchInput struct {
	// Mode is applied to every facility; empty uses the configured default.
	Mode string
	// City/Status narrow the facility set; Limit caps it (0 = all).
	City   string
	Status string
	Limit  int
	// Workers sizes the pool; values below 1 use the default.
	Workers       int
	DisableJitter bool
}

// BatchFailure records one facility that could not be rated.
type BatchFailure struct {
	FacilityID string
	Err        error
}

type BatchSummary struct {
	RunID    string
	Mode     string
	Total    int
	Rated    int
	Failed   int
	Failures []BatchFailure
	Elapsed  time.Duration
}

// RateAll rates every matching facility with a bounded worker pool. A
// failing facility is logged and counted, never aborts the run.
func (s *Service) RateAll(ctx context.Context, input BatchInput) (BatchSummary, error) {
	if ctx == nil {
		return BatchSummary{}, errors.New("context is required")
	}
	mode, err := s.resolveMode(input.Mode)
	if err != nil {
		return BatchSummary{}, err
	}

	facilities, err := s.repo.ListFacilities(ctx, ports.FacilityFilter{
		City:   input.City,
		Status: input.Status,
		Limit:  input.Limit,
	})
	if err != nil {
		return BatchSummary{}, errs.Wrap(err, "list facilities")
	}

	summary := BatchSummary{
		RunID: uuid.NewString(),
		Mode:  mode,
		Total: len(facilities),
	}
	started := s.now()

	workers := input.Workers
	if workers < 1 {
		workers = defaultBatchWorkers
	}
	if workers > len(facilities) && len(facilities) > 0 {
		workers = len(facilities)
	}

	jobs := make(chan ports.Facility)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for facility := range jobs {
				_, rateErr := s.RateFacility(ctx, RateFacilityInput{
					FacilityID:    facility.FacilityID,
					Mode:          mode,
					DisableJitter: input.DisableJitter,
					Persist:       true,
				})
				mu.Lock()
				if rateErr != nil {
					summary.Failed++
					summary.Failures = append(summary.Failures, BatchFailure{
						FacilityID: facility.FacilityID,
						Err:        rateErr,
					})
				} else {
					summary.Rated++
				}
				mu.Unlock()
				if rateErr != nil {
					logging.Warn(ctx, "rate facility failed",
						slog.String("run_id", summary.RunID),
						slog.String("facility_id", facility.FacilityID),
						slog.Any("err", errs.Loggable(rateErr)))
				}
			}
		}()
	}

dispatch:
	for _, facility := range facilities {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- facility:
		}
	}
	close(jobs)
	wg.Wait()

	summary.Elapsed = s.now().Sub(started)
	if err := ctx.Err(); err != nil {
		return summary, errs.Wrap(err, "batch interrupted")
	}

	logging.Info(ctx, "batch rating finished",
		slog.String("run_id", summary.RunID),
		slog.String("mode", mode),
		slog.Int("total", summary.Total),
		slog.Int("rated", summary.Rated),
		slog.Int("failed", summary.Failed))
	return summary, nil
}
