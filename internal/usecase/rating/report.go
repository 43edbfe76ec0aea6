package rating

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domainrating "carescore/internal/domain/rating"
	"carescore/internal/errs"
	"carescore/internal/ports"
)

type ReportInput struct {
	City   string
	Status string
	Limit  int
	// DisableJitter makes the balanced column deterministic.
	DisableJitter bool
}

// CalibrationReport rates every matching facility under both policies in
// memory and summarizes how calibration moves the distribution. Nothing
// is persisted.
func (s *Service) CalibrationReport(ctx context.Context, input ReportInput) (*domainrating.CalibrationSummary, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	facilities, err := s.repo.ListFacilities(ctx, ports.FacilityFilter{
		City:   input.City,
		Status: input.Status,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, errs.Wrap(err, "list facilities")
	}

	summary := domainrating.NewCalibrationSummary(uuid.NewString())
	now := s.now()

	for _, facility := range facilities {
		if err := ctx.Err(); err != nil {
			return nil, errs.Wrap(err, "report interrupted")
		}

		violations, err := s.repo.ListViolations(ctx, facility.FacilityID)
		if err != nil {
			return nil, errs.Wrapf(err, "load violations for %s", facility.FacilityID)
		}
		inspections, err := s.repo.ListInspections(ctx, facility.FacilityID)
		if err != nil {
			return nil, errs.Wrapf(err, "load inspections for %s", facility.FacilityID)
		}
		reviews, err := s.repo.ListReviews(ctx, facility.FacilityID)
		if err != nil {
			return nil, errs.Wrapf(err, "load reviews for %s", facility.FacilityID)
		}

		before := s.engine.Rate(toEngineInput(facility, violations, inspections, reviews), now)
		calibrator := domainrating.NewCalibrator(s.profile, s.jitterSource(facility.FacilityID, input.DisableJitter))
		after := calibrator.Calibrate(before, toFacilityRecord(facility))
		summary.Observe(before, after)
	}

	summary.Finalize()
	return summary, nil
}

// ListRatings returns persisted results for display, newest first as the
// repository orders them.
func (s *Service) ListRatings(ctx context.Context, mode string, limit int) ([]domainrating.RatingResult, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	resolved, err := s.resolveMode(mode)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListRatingResults(ctx, resolved, limit)
	if err != nil {
		return nil, errs.Wrap(err, "list rating results")
	}
	results := make([]domainrating.RatingResult, 0, len(records))
	for _, record := range records {
		results = append(results, fromResultRecord(record))
	}
	return results, nil
}

// ListFacilities passes the filter through to persistence for display
// surfaces.
func (s *Service) ListFacilities(ctx context.Context, filter ports.FacilityFilter) ([]ports.Facility, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	facilities, err := s.repo.ListFacilities(ctx, filter)
	if err != nil {
		return nil, errs.Wrap(err, "list facilities")
	}
	return facilities, nil
}

// Profile exposes the active scoring profile for inspection commands.
func (s *Service) Profile() *domainrating.Profile {
	return s.profile
}

// DefaultMode reports the configured rating mode.
func (s *Service) DefaultMode() string {
	return s.defaultMode
}
