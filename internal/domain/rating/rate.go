package rating

import "time"

const recentWindowDays = 365

// Input is everything one rating pass consumes. Inspections only inform
// recency bookkeeping, never classification.
type Input struct {
	Facility    FacilityRecord
	Violations  []ViolationRecord
	Inspections []time.Time
	Reviews     []ReviewRecord
}

// Engine computes ratings against a fixed profile. An Engine is
// stateless between calls; callers may rate facilities concurrently.
type Engine struct {
	profile *Profile
}

func NewEngine(profile *Profile) *Engine {
	if profile == nil {
		profile = DefaultProfile()
	}
	return &Engine{profile: profile}
}

func (e *Engine) Profile() *Profile {
	return e.profile
}

// Rate runs the standard scoring policy for one facility.
func (e *Engine) Rate(input Input, now time.Time) RatingResult {
	classifier := NewClassifier(e.profile, now)
	classified := classifier.ClassifyAll(input.Violations)

	deductions := Deduct(e.profile, classified)
	quality := ExtractQuality(e.profile, input.Facility)
	reviewScore := AggregateReviews(input.Reviews, now)

	highRisk := 0
	recent := 0
	cutoff := now.AddDate(0, 0, -recentWindowDays)
	for _, violation := range classified {
		if violation.Severity == SeverityHigh {
			highRisk++
		}
		if !violation.ActivityDate.IsZero() && violation.ActivityDate.After(cutoff) {
			recent++
		}
	}

	overall, raw, factors := compose(compositeInput{
		facility:    input.Facility,
		deductions:  deductions,
		quality:     quality,
		reviewScore: reviewScore,
		violations:  len(classified),
		reviews:     len(input.Reviews),
		highRisk:    highRisk,
		recent:      recent,
	})

	otherViolations := len(classified) - highRisk
	subscores := ComputeSubscores(input.Facility, highRisk, otherViolations, quality.Indicators)

	indicatorLabels := make([]string, 0, len(quality.Indicators))
	for _, indicator := range quality.Indicators {
		indicatorLabels = append(indicatorLabels, indicator.Label)
	}

	result := RatingResult{
		FacilityID:    input.Facility.ID,
		Mode:          "standard",
		OverallRating: overall,

		SafetyComplianceScore:       subscores.SafetyCompliance,
		OperationalQualityScore:     subscores.OperationalQuality,
		EducationalProgrammingScore: subscores.EducationalProgramming,
		StaffQualificationsScore:    subscores.StaffQualifications,

		ViolationCount:         len(classified),
		HighRiskViolationCount: highRisk,
		RecentViolationsCount:  recent,

		RatingFactors:        factors,
		QualityIndicators:    indicatorLabels,
		ViolationsByCategory: deductions.CountsByCategory,

		ViolationScore:    deductions.ViolationScore,
		QualityBoost:      quality.Boost,
		ParentReviewScore: reviewScore,
		RawScore:          raw,
	}
	applyLegacyRatings(&result, deductions)
	return result
}

// legacyGroups folds the eleven violation categories into the five
// category ratings the directory UI has always displayed.
var legacyGroups = []struct {
	assign     func(*RatingResult, *float64)
	categories []Category
}{
	{
		assign:     func(r *RatingResult, v *float64) { r.SafetyRating = v },
		categories: []Category{CategorySafety, CategoryTransportation},
	},
	{
		assign:     func(r *RatingResult, v *float64) { r.HealthRating = v },
		categories: []Category{CategoryChildHealth, CategoryNutrition, CategorySleepRest},
	},
	{
		assign:     func(r *RatingResult, v *float64) { r.WellbeingRating = v },
		categories: []Category{CategoryChildWellBeing},
	},
	{
		assign:     func(r *RatingResult, v *float64) { r.FacilityRating = v },
		categories: []Category{CategoryFacility, CategoryEnvironmental},
	},
	{
		assign:     func(r *RatingResult, v *float64) { r.AdminRating = v },
		categories: []Category{CategoryAdministrative, CategoryPaperwork, CategoryOther},
	},
}

// applyLegacyRatings sets each legacy rating to the lowest category score
// inside its group, or leaves it null when the group had no counted
// violations.
func applyLegacyRatings(result *RatingResult, deductions DeductionOutcome) {
	for _, group := range legacyGroups {
		var lowest *float64
		for _, category := range group.categories {
			score, ok := deductions.CategoryScores[category]
			if !ok {
				continue
			}
			if lowest == nil || score < *lowest {
				value := score
				lowest = &value
			}
		}
		group.assign(result, lowest)
	}
}
