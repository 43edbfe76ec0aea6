package rating

import (
	"math"
	"strings"
)

// Composite weighting: violations dominate, reviews and quality signals
// share the remainder.
const (
	weightViolations = 0.6
	weightReviews    = 0.2
	weightQuality    = 0.2

	capInactive  = 2.5
	capHighRisk  = 4.0
	capRiskScore = 3.0
	riskScoreBar = 60.0
	qualityScale = 4.0
)

var inactiveStatuses = []string{"inactive", "temporarily closed", "closed"}

// compositeInput carries everything the scorer combines for one facility.
type compositeInput struct {
	facility    FacilityRecord
	deductions  DeductionOutcome
	quality     QualityOutcome
	reviewScore float64
	violations  int
	reviews     int
	highRisk    int
	recent      int
}

// ceiling is one hard cap with the factor text logged when it fires.
type ceiling struct {
	value  float64
	factor string
}

// ceilingsFor lists the hard caps that apply to a facility, in priority
// order. The composite and the calibrator both honor them; a cap only
// ever lowers a score.
func ceilingsFor(facility FacilityRecord, highRisk int, recent int) []ceiling {
	var caps []ceiling
	if isInactive(facility.Status) {
		caps = append(caps, ceiling{value: capInactive, factor: "Facility is not currently in active operation"})
	}
	if highRisk > 0 && recent > 0 {
		caps = append(caps, ceiling{value: capHighRisk, factor: "Recent high-risk violations on record"})
	}
	if facility.RiskScore != nil && *facility.RiskScore > riskScoreBar {
		caps = append(caps, ceiling{value: capRiskScore, factor: "Elevated regulatory risk score"})
	}
	return caps
}

// compose combines the three component scores, applies the hard ceilings
// in priority order and rounds to the nearest half star. The unrounded
// value is preserved for the calibrator.
func compose(in compositeInput) (rating float64, raw float64, factors []string) {
	// The boost (capped at half a star) is scaled onto the 3.0-baseline
	// 1-5 quality score so a maxed-out boost reaches 5.0; a single boost
	// computation feeds both displays.
	qualityScore := clamp(3.0+in.quality.Boost*qualityScale, 1.0, 5.0)

	if in.violations == 0 && in.reviews == 0 && in.quality.RawBoost == 0 && in.quality.Boost == 0 {
		// A spotless record rates a full five stars before the ceilings.
		// The neutral review and quality priors only blend in when there
		// is data behind them.
		raw = 5.0
	} else {
		raw = weightViolations*in.deductions.ViolationScore +
			weightReviews*in.reviewScore +
			weightQuality*qualityScore
	}

	factors = append(factors, in.deductions.RatingFactors...)

	for _, limit := range ceilingsFor(in.facility, in.highRisk, in.recent) {
		if raw > limit.value {
			raw = limit.value
			factors = append(factors, limit.factor)
		}
	}

	return roundHalf(raw), raw, factors
}

func isInactive(status string) bool {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return false
	}
	for _, candidate := range inactiveStatuses {
		if strings.Contains(normalized, candidate) {
			return true
		}
	}
	return false
}

// roundHalf rounds to the nearest 0.5 star, floored at half a star.
func roundHalf(value float64) float64 {
	rounded := math.Round(value*2) / 2
	if rounded < 0.5 {
		return 0.5
	}
	if rounded > 5.0 {
		return 5.0
	}
	return rounded
}
