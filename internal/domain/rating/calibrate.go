package rating

import (
	"fmt"
	"math/rand"
)

// Calibrator implements the balanced scoring policy: it rebuilds the
// quality boost from a smaller weight table, perturbs the score with
// bounded jitter and re-buckets through non-uniform thresholds to flatten
// clustering in the output histogram.
type Calibrator struct {
	profile *Profile
	// rng supplies jitter; nil disables jitter entirely.
	rng *rand.Rand
}

func NewCalibrator(profile *Profile, rng *rand.Rand) *Calibrator {
	return &Calibrator{profile: profile, rng: rng}
}

// Calibrate rewrites the overall rating of a standard-mode result in
// place of naive half-star rounding. The input result is not mutated.
func (c *Calibrator) Calibrate(result RatingResult, facility FacilityRecord) RatingResult {
	balanced := c.profile.Balanced

	// Rebuild the boost with the alternate table: same dictionaries and
	// diminishing tranches, roughly half the magnitude, lower cap.
	quality := ExtractQuality(c.profile, facility)
	scaled := 0.0
	positive := 0.0
	negative := 0.0
	for _, indicator := range quality.Indicators {
		if indicator.Boost >= 0 {
			positive += indicator.Boost * balanced.Scale
		} else {
			negative += indicator.Boost * balanced.Scale
		}
	}
	scaled = diminish(c.profile, positive) + negative
	if scaled > balanced.MaxBoost {
		scaled = balanced.MaxBoost
	}

	// Remove the boost contribution the composite already carries, then
	// apply the balanced one.
	base := result.RawScore - weightQuality*result.QualityBoost*qualityScale
	calibrated := base + weightQuality*scaled*qualityScale

	if c.rng != nil && balanced.Jitter > 0 {
		calibrated += (c.rng.Float64()*2 - 1) * balanced.Jitter
	}

	out := result
	out.Mode = "balanced"
	out.QualityBoost = scaled
	out.RawScore = calibrated
	out.OverallRating = c.bucket(calibrated)

	// The composite's hard ceilings still bind: re-bucketing or jitter
	// never lifts a capped score above its ceiling.
	for _, limit := range ceilingsFor(facility, result.HighRiskViolationCount, result.RecentViolationsCount) {
		if out.OverallRating > limit.value {
			out.OverallRating = limit.value
		}
	}
	return out
}

// bucket maps a continuous score through the configured thresholds; the
// thresholds are tuned independently of rounding on purpose.
func (c *Calibrator) bucket(value float64) float64 {
	for _, bucket := range c.profile.Balanced.Buckets {
		if value < bucket.Below {
			return bucket.Rating
		}
	}
	return 5.0
}

// CalibrationSummary reports a batch calibration run for the reporting
// collaborator.
type CalibrationSummary struct {
	RunID      string
	Total      int
	Before     map[float64]int
	After      map[float64]int
	MeanBefore float64
	MeanAfter  float64
	Upgraded   int
	Downgraded int
	Unchanged  int
}

// NewCalibrationSummary prepares an empty summary with both histograms
// initialized over every half-star bucket.
func NewCalibrationSummary(runID string) *CalibrationSummary {
	summary := &CalibrationSummary{
		RunID:  runID,
		Before: map[float64]int{},
		After:  map[float64]int{},
	}
	for tier := 0.5; tier <= 5.0; tier += 0.5 {
		summary.Before[tier] = 0
		summary.After[tier] = 0
	}
	return summary
}

// Observe records one facility's standard and balanced outcomes.
func (s *CalibrationSummary) Observe(before RatingResult, after RatingResult) {
	s.Total++
	s.Before[before.OverallRating]++
	s.After[after.OverallRating]++
	s.MeanBefore += before.OverallRating
	s.MeanAfter += after.OverallRating
	switch {
	case after.OverallRating > before.OverallRating:
		s.Upgraded++
	case after.OverallRating < before.OverallRating:
		s.Downgraded++
	default:
		s.Unchanged++
	}
}

// Finalize converts accumulated sums into means.
func (s *CalibrationSummary) Finalize() {
	if s.Total == 0 {
		return
	}
	s.MeanBefore /= float64(s.Total)
	s.MeanAfter /= float64(s.Total)
}

// Tiers returns the half-star buckets in ascending order for rendering.
func (s *CalibrationSummary) Tiers() []string {
	tiers := make([]string, 0, 10)
	for tier := 0.5; tier <= 5.0; tier += 0.5 {
		tiers = append(tiers, fmt.Sprintf("%.1f", tier))
	}
	return tiers
}
