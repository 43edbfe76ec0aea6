package rating

import (
	"fmt"
	"math"
	"sort"
)

// DeductionOutcome is the aggregate violation score plus the per-category
// breakdown the display layer consumes.
type DeductionOutcome struct {
	ViolationScore float64
	// CategoryScores holds 5-x per-category subscores for categories that
	// had at least one counted violation.
	CategoryScores   map[Category]float64
	CountsByCategory map[Category]int
	RatingFactors    []string
}

// categoryLabels are the human-readable names used in rating factors.
var categoryLabels = map[Category]string{
	CategorySafety:         "Safety",
	CategoryChildHealth:    "Child health",
	CategoryChildWellBeing: "Child well-being",
	CategoryAdministrative: "Administration",
	CategoryFacility:       "Facility condition",
	CategoryPaperwork:      "Paperwork",
	CategoryTransportation: "Transportation",
	CategoryNutrition:      "Nutrition",
	CategorySleepRest:      "Sleep and rest",
	CategoryEnvironmental:  "Outdoor environment",
	CategoryOther:          "Other standards",
}

// Deduct aggregates classified violations into a violation score in
// [1.0, 5.0] with diminishing marginal penalties per category/tier.
func Deduct(profile *Profile, violations []ClassifiedViolation) DeductionOutcome {
	counts := map[Category]map[Severity]int{}
	byCategory := map[Category]int{}
	for _, violation := range violations {
		if violation.Severity == SeverityNone {
			continue
		}
		if counts[violation.Category] == nil {
			counts[violation.Category] = map[Severity]int{}
		}
		counts[violation.Category][violation.Severity]++
		byCategory[violation.Category]++
	}

	total := 0.0
	categoryTotals := map[Category]float64{}
	for category, tiers := range counts {
		rules := profile.Deductions[category]
		for severity, count := range tiers {
			rule, ok := rules[severity]
			if !ok || count <= 0 {
				continue
			}
			minCount := rule.MinCount
			if minCount < 1 {
				minCount = 1
			}
			if count < minCount {
				continue
			}
			deduction := math.Min(rule.Cap, rule.Base+float64(count-1)*rule.Increment)
			categoryTotals[category] += deduction
			total += deduction
		}
	}

	scores := map[Category]float64{}
	for category := range byCategory {
		scores[category] = clamp(5.0-categoryTotals[category], 1.0, 5.0)
	}

	return DeductionOutcome{
		ViolationScore:   math.Max(1.0, 5.0-total),
		CategoryScores:   scores,
		CountsByCategory: byCategory,
		RatingFactors:    worstCategoryFactors(scores, byCategory),
	}
}

// worstCategoryFactors renders the up-to-three lowest category scores
// under 4.0 as display factors, worst first.
func worstCategoryFactors(scores map[Category]float64, counts map[Category]int) []string {
	type entry struct {
		category Category
		score    float64
	}
	entries := make([]entry, 0, len(scores))
	for category, score := range scores {
		if score < 4.0 {
			entries = append(entries, entry{category: category, score: score})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score < entries[j].score
		}
		return entries[i].category < entries[j].category
	})
	if len(entries) > 3 {
		entries = entries[:3]
	}

	factors := make([]string, 0, len(entries))
	for _, e := range entries {
		noun := "violations"
		if counts[e.category] == 1 {
			noun = "violation"
		}
		factors = append(factors, fmt.Sprintf(
			"%s concerns: %d %s (score %.1f/5)",
			categoryLabels[e.category], counts[e.category], noun, e.score,
		))
	}
	return factors
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// defaultDeductions is the hand-calibrated deduction table. Safety and
// child well-being carry the largest penalties; paperwork, outdoor
// environment and unmapped standards only register once they recur.
func defaultDeductions() map[Category]map[Severity]DeductionRule {
	heavy := map[Severity]DeductionRule{
		SeverityHigh:       {Base: 0.75, Increment: 0.25, Cap: 1.50},
		SeverityMediumHigh: {Base: 0.50, Increment: 0.15, Cap: 1.00},
		SeverityMedium:     {Base: 0.30, Increment: 0.10, Cap: 0.70},
		SeverityMediumLow:  {Base: 0.15, Increment: 0.05, Cap: 0.40},
		SeverityLow:        {Base: 0.05, Increment: 0.02, Cap: 0.20},
	}
	elevated := map[Severity]DeductionRule{
		SeverityHigh:       {Base: 0.60, Increment: 0.20, Cap: 1.20},
		SeverityMediumHigh: {Base: 0.40, Increment: 0.12, Cap: 0.80},
		SeverityMedium:     {Base: 0.25, Increment: 0.08, Cap: 0.50},
		SeverityMediumLow:  {Base: 0.10, Increment: 0.04, Cap: 0.30},
		SeverityLow:        {Base: 0.04, Increment: 0.02, Cap: 0.15},
	}
	moderate := map[Severity]DeductionRule{
		SeverityHigh:       {Base: 0.50, Increment: 0.15, Cap: 1.00},
		SeverityMediumHigh: {Base: 0.30, Increment: 0.10, Cap: 0.60},
		SeverityMedium:     {Base: 0.20, Increment: 0.06, Cap: 0.40},
		SeverityMediumLow:  {Base: 0.08, Increment: 0.03, Cap: 0.20},
		SeverityLow:        {Base: 0.03, Increment: 0.01, Cap: 0.10},
	}
	light := map[Severity]DeductionRule{
		SeverityHigh:       {Base: 0.25, Increment: 0.08, Cap: 0.50},
		SeverityMediumHigh: {Base: 0.15, Increment: 0.05, Cap: 0.30, MinCount: 3},
		SeverityMedium:     {Base: 0.10, Increment: 0.03, Cap: 0.20, MinCount: 4},
		SeverityMediumLow:  {Base: 0.05, Increment: 0.02, Cap: 0.12, MinCount: 5},
		SeverityLow:        {Base: 0.02, Increment: 0.01, Cap: 0.08, MinCount: 10},
	}

	return map[Category]map[Severity]DeductionRule{
		CategorySafety:         heavy,
		CategoryChildWellBeing: heavy,
		CategoryChildHealth:    elevated,
		CategoryTransportation: elevated,
		CategorySleepRest:      elevated,
		CategoryNutrition:      moderate,
		CategoryAdministrative: moderate,
		CategoryFacility:       moderate,
		CategoryPaperwork:      light,
		CategoryEnvironmental:  light,
		CategoryOther:          light,
	}
}
