package rating

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"carescore/internal/bootstrap/logging"
	domainrating "carescore/internal/domain/rating"
	"carescore/internal/errs"
	"carescore/internal/ports"
)

const (
	ModeStandard = "standard"
	ModeBalanced = "balanced"
)

var ErrUnknownMode = errors.New("unknown rating mode")

// Options tune service-wide behavior.
type Options struct {
	// DefaultMode applies when a request does not name a mode.
	DefaultMode string
	// JitterSeed seeds balanced-mode jitter; zero disables jitter so runs
	// stay reproducible unless a seed is configured explicitly.
	JitterSeed int64
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service wires the rating engine to persistence and caching.
type Service struct {
	repo    ports.FacilityRepository
	uow     ports.UnitOfWork
	cache   ports.Cache
	engine  *domainrating.Engine
	profile *domainrating.Profile

	defaultMode string
	jitterSeed  int64
	now         func() time.Time
}

func NewService(repo ports.FacilityRepository, uow ports.UnitOfWork, cache ports.Cache, profile *domainrating.Profile, opts Options) *Service {
	if profile == nil {
		profile = domainrating.DefaultProfile()
	}
	mode := strings.TrimSpace(opts.DefaultMode)
	if mode == "" {
		mode = ModeStandard
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		repo:        repo,
		uow:         uow,
		cache:       cache,
		engine:      domainrating.NewEngine(profile),
		profile:     profile,
		defaultMode: mode,
		jitterSeed:  opts.JitterSeed,
		now:         nowFn,
	}
}

type RateFacilityInput struct {
	FacilityID string
	// Mode is "standard" or "balanced"; empty uses the configured default.
	Mode string
	// DisableJitter forces deterministic balanced-mode output.
	DisableJitter bool
	// Persist stores the result and refreshes the cache when true.
	Persist bool
}

// RateFacility loads one facility's records, runs the engine and, when
// requested, upserts the stored result.
func (s *Service) RateFacility(ctx context.Context, input RateFacilityInput) (domainrating.RatingResult, error) {
	if ctx == nil {
		return domainrating.RatingResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return domainrating.RatingResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return domainrating.RatingResult{}, errors.New("facility repository is required")
	}

	facilityID := strings.TrimSpace(input.FacilityID)
	if facilityID == "" {
		return domainrating.RatingResult{}, errors.New("facility id is required")
	}
	mode, err := s.resolveMode(input.Mode)
	if err != nil {
		return domainrating.RatingResult{}, err
	}

	facility, err := s.repo.GetFacility(ctx, facilityID)
	if err != nil {
		return domainrating.RatingResult{}, errs.Wrapf(err, "load facility %s", facilityID)
	}
	violations, err := s.repo.ListViolations(ctx, facilityID)
	if err != nil {
		return domainrating.RatingResult{}, errs.Wrap(err, "load violations")
	}
	inspections, err := s.repo.ListInspections(ctx, facilityID)
	if err != nil {
		return domainrating.RatingResult{}, errs.Wrap(err, "load inspections")
	}
	reviews, err := s.repo.ListReviews(ctx, facilityID)
	if err != nil {
		return domainrating.RatingResult{}, errs.Wrap(err, "load reviews")
	}

	now := s.now()
	result := s.engine.Rate(toEngineInput(facility, violations, inspections, reviews), now)

	if mode == ModeBalanced {
		calibrator := domainrating.NewCalibrator(s.profile, s.jitterSource(facilityID, input.DisableJitter))
		result = calibrator.Calibrate(result, toFacilityRecord(facility))
	}

	if input.Persist {
		if err := s.persistResult(ctx, result, now); err != nil {
			return domainrating.RatingResult{}, err
		}
	}
	return result, nil
}

func (s *Service) resolveMode(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == "" {
		mode = s.defaultMode
	}
	if mode != ModeStandard && mode != ModeBalanced {
		return "", errs.Wrapf(ErrUnknownMode, "mode %q", raw)
	}
	return mode, nil
}

// jitterSource derives a per-facility RNG so batch output is reproducible
// for a fixed configured seed. A zero seed or an explicit disable returns
// nil, which turns jitter off.
func (s *Service) jitterSource(facilityID string, disabled bool) *rand.Rand {
	if disabled || s.jitterSeed == 0 {
		return nil
	}
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(facilityID))
	return rand.New(rand.NewSource(s.jitterSeed ^ int64(hasher.Sum64())))
}

func (s *Service) persistResult(ctx context.Context, result domainrating.RatingResult, now time.Time) error {
	if s.uow == nil {
		return errors.New("unit of work is required")
	}

	record, err := toResultRecord(result, now)
	if err != nil {
		return err
	}
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.SaveRatingResult(txCtx, record)
	}); err != nil {
		return errs.Wrap(err, "save rating result")
	}

	if s.cache != nil {
		payload, marshalErr := json.Marshal(result)
		if marshalErr == nil {
			if cacheErr := s.cache.Set(ctx, cacheKey(result.FacilityID, result.Mode), string(payload), 0); cacheErr != nil {
				logging.Warn(ctx, "cache rating result failed",
					slog.String("facility_id", result.FacilityID),
					slog.Any("err", errs.Loggable(cacheErr)))
			}
		}
	}
	return nil
}

func cacheKey(facilityID string, mode string) string {
	return "rating:" + facilityID + ":" + mode
}

// StoredRating returns the persisted result for display, preferring the
// cache snapshot. Corrupt stored factor/indicator JSON degrades to empty
// lists; the numeric rating is always served.
func (s *Service) StoredRating(ctx context.Context, facilityID string, mode string) (domainrating.RatingResult, bool, error) {
	if ctx == nil {
		return domainrating.RatingResult{}, false, errors.New("context is required")
	}
	resolved, err := s.resolveMode(mode)
	if err != nil {
		return domainrating.RatingResult{}, false, err
	}

	if s.cache != nil {
		payload, found, cacheErr := s.cache.Get(ctx, cacheKey(strings.TrimSpace(facilityID), resolved))
		if cacheErr == nil && found {
			var cached domainrating.RatingResult
			if unmarshalErr := json.Unmarshal([]byte(payload), &cached); unmarshalErr == nil {
				return cached, true, nil
			}
			// A corrupt snapshot falls through to the durable row.
		}
	}

	record, found, err := s.repo.GetRatingResult(ctx, strings.TrimSpace(facilityID), resolved)
	if err != nil {
		return domainrating.RatingResult{}, false, errs.Wrap(err, "load rating result")
	}
	if !found {
		return domainrating.RatingResult{}, false, nil
	}
	return fromResultRecord(record), true, nil
}

func toResultRecord(result domainrating.RatingResult, now time.Time) (ports.RatingResultRecord, error) {
	factorsJSON, err := json.Marshal(emptyIfNil(result.RatingFactors))
	if err != nil {
		return ports.RatingResultRecord{}, errs.Wrap(err, "marshal rating factors")
	}
	indicatorsJSON, err := json.Marshal(emptyIfNil(result.QualityIndicators))
	if err != nil {
		return ports.RatingResultRecord{}, errs.Wrap(err, "marshal quality indicators")
	}
	categoriesJSON, err := json.Marshal(result.ViolationsByCategory)
	if err != nil {
		return ports.RatingResultRecord{}, errs.Wrap(err, "marshal category counts")
	}

	return ports.RatingResultRecord{
		FacilityID:                  result.FacilityID,
		Mode:                        result.Mode,
		OverallRating:               result.OverallRating,
		SafetyRating:                result.SafetyRating,
		HealthRating:                result.HealthRating,
		WellbeingRating:             result.WellbeingRating,
		FacilityRating:              result.FacilityRating,
		AdminRating:                 result.AdminRating,
		SafetyComplianceScore:       result.SafetyComplianceScore,
		OperationalQualityScore:     result.OperationalQualityScore,
		EducationalProgrammingScore: result.EducationalProgrammingScore,
		StaffQualificationsScore:    result.StaffQualificationsScore,
		ViolationCount:              result.ViolationCount,
		HighRiskViolationCount:      result.HighRiskViolationCount,
		RecentViolationsCount:       result.RecentViolationsCount,
		FactorsJSON:                 string(factorsJSON),
		IndicatorsJSON:              string(indicatorsJSON),
		CategoriesJSON:              string(categoriesJSON),
		RatedAt:                     now.Format(time.RFC3339Nano),
	}, nil
}

func fromResultRecord(record ports.RatingResultRecord) domainrating.RatingResult {
	result := domainrating.RatingResult{
		FacilityID:                  record.FacilityID,
		Mode:                        record.Mode,
		OverallRating:               record.OverallRating,
		SafetyRating:                record.SafetyRating,
		HealthRating:                record.HealthRating,
		WellbeingRating:             record.WellbeingRating,
		FacilityRating:              record.FacilityRating,
		AdminRating:                 record.AdminRating,
		SafetyComplianceScore:       record.SafetyComplianceScore,
		OperationalQualityScore:     record.OperationalQualityScore,
		EducationalProgrammingScore: record.EducationalProgrammingScore,
		StaffQualificationsScore:    record.StaffQualificationsScore,
		ViolationCount:              record.ViolationCount,
		HighRiskViolationCount:      record.HighRiskViolationCount,
		RecentViolationsCount:       record.RecentViolationsCount,
		RatingFactors:               decodeStringList(record.FactorsJSON),
		QualityIndicators:           decodeStringList(record.IndicatorsJSON),
		ViolationsByCategory:        decodeCategoryCounts(record.CategoriesJSON),
	}
	return result
}

// decodeStringList never fails: a corrupt stored explanation list must
// not block serving the rating.
func decodeStringList(raw string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	if out == nil {
		return []string{}
	}
	return out
}

func decodeCategoryCounts(raw string) map[domainrating.Category]int {
	var out map[domainrating.Category]int
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[domainrating.Category]int{}
	}
	if out == nil {
		return map[domainrating.Category]int{}
	}
	return out
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// dateLayouts covers the formats seen in the source dataset.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
}

// parseDate degrades to the zero time on malformed input; the engine
// then treats the record as undated.
func parseDate(raw string) time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func toFacilityRecord(facility ports.Facility) domainrating.FacilityRecord {
	return domainrating.FacilityRecord{
		ID:               facility.FacilityID,
		Name:             facility.Name,
		OperationType:    facility.OperationType,
		City:             facility.City,
		Capacity:         facility.Capacity,
		LicenseIssueDate: parseDate(facility.LicenseIssueDate),
		HoursText:        facility.HoursText,
		DaysText:         facility.DaysText,
		AgeRangeText:     facility.AgeRangeText,
		PermitConditions: facility.PermitConditions,
		Status:           facility.Status,
		AcceptsSubsidy:   facility.AcceptsSubsidy,
		ProgramsText:     facility.ProgramsText,
		RiskScore:        facility.RiskScore,
	}
}

func toEngineInput(facility ports.Facility, violations []ports.Violation, inspections []ports.Inspection, reviews []ports.Review) domainrating.Input {
	input := domainrating.Input{
		Facility: toFacilityRecord(facility),
	}

	input.Violations = make([]domainrating.ViolationRecord, 0, len(violations))
	for _, violation := range violations {
		input.Violations = append(input.Violations, domainrating.ViolationRecord{
			StandardCode:  violation.StandardCode,
			RiskLevel:     violation.RiskLevel,
			ActivityDate:  parseDate(violation.ActivityDate),
			Corrected:     violation.Corrected,
			CorrectedDate: parseDate(violation.CorrectedDate),
			Narrative:     violation.Narrative,
		})
	}

	input.Inspections = make([]time.Time, 0, len(inspections))
	for _, inspection := range inspections {
		if parsed := parseDate(inspection.InspectionDate); !parsed.IsZero() {
			input.Inspections = append(input.Inspections, parsed)
		}
	}

	input.Reviews = make([]domainrating.ReviewRecord, 0, len(reviews))
	for _, review := range reviews {
		input.Reviews = append(input.Reviews, domainrating.ReviewRecord{
			Rating:       review.Rating,
			Date:         parseDate(review.ReviewDate),
			HelpfulVotes: review.HelpfulVotes,
		})
	}
	return input
}
