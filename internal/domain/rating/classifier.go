package rating

import (
	"strings"
	"time"
)

const (
	monthsRecent = 3
	monthsMid    = 6
	monthsOld    = 12
	daysPerMonth = 30.44
)

// Classifier maps raw violations onto canonical categories and
// time/correction-adjusted severity tiers.
type Classifier struct {
	profile *Profile
	now     time.Time
}

func NewClassifier(profile *Profile, now time.Time) *Classifier {
	return &Classifier{profile: profile, now: now}
}

// ClassifyAll classifies every violation and applies the cross-violation
// minor-health rule. Violations resolving to SeverityNone are dropped;
// nothing else is ever discarded.
func (c *Classifier) ClassifyAll(violations []ViolationRecord) []ClassifiedViolation {
	candidates := make([]ClassifiedViolation, 0, len(violations))
	for _, violation := range violations {
		classified, ok := c.classify(violation)
		if !ok {
			continue
		}
		candidates = append(candidates, classified)
	}

	// Sparse low-grade health notes behave like paperwork noise; they only
	// count once the facility accumulates enough of them in the trailing
	// window.
	window := time.Duration(c.profile.MinorHealthWindowDays) * 24 * time.Hour
	cutoff := c.now.Add(-window)
	recentMinorHealth := 0
	for _, classified := range candidates {
		if isMinorHealth(classified) && !classified.ActivityDate.IsZero() && classified.ActivityDate.After(cutoff) {
			recentMinorHealth++
		}
	}
	if recentMinorHealth >= c.profile.MinorHealthMinCount {
		return candidates
	}

	kept := candidates[:0]
	for _, classified := range candidates {
		if isMinorHealth(classified) {
			continue
		}
		kept = append(kept, classified)
	}
	return kept
}

func isMinorHealth(v ClassifiedViolation) bool {
	return v.Category == CategoryChildHealth &&
		(v.Severity == SeverityLow || v.Severity == SeverityMediumLow)
}

// classify resolves one violation. The bool is false when the final
// severity is SeverityNone.
func (c *Classifier) classify(violation ViolationRecord) (ClassifiedViolation, bool) {
	category, severity := c.resolve(violation)

	corrected := isCorrected(violation)
	ageMonths, hasDate := c.ageMonths(violation.ActivityDate)

	if corrected {
		severity = correctionDowngrade(severity)
	}
	severity = ageDowngrade(severity, ageMonths, hasDate, corrected)

	if severity == SeverityNone {
		return ClassifiedViolation{}, false
	}
	return ClassifiedViolation{
		Category:     category,
		Severity:     severity,
		ActivityDate: violation.ActivityDate,
	}, true
}

// resolve determines the base category and severity: standards mapping
// first, narrative keywords second, "other" at the raw risk level last.
func (c *Classifier) resolve(violation ViolationRecord) (Category, Severity) {
	if info, ok := c.profile.Standards.Lookup(violation.StandardCode); ok {
		return info.Category, info.Severity
	}

	raw := parseRiskLevel(violation.RiskLevel)
	if category, ok := inferCategory(violation.Narrative); ok {
		return category, raw
	}
	return CategoryOther, raw
}

// parseRiskLevel normalizes the dataset's free-form risk level strings.
// Unknown values land on medium rather than dropping the violation.
func parseRiskLevel(raw string) Severity {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", " ")
	normalized = strings.ReplaceAll(normalized, "_", " ")
	switch normalized {
	case "high":
		return SeverityHigh
	case "medium high", "med high":
		return SeverityMediumHigh
	case "medium", "med":
		return SeverityMedium
	case "medium low", "med low":
		return SeverityMediumLow
	case "low":
		return SeverityLow
	}
	return SeverityMedium
}

func isCorrected(violation ViolationRecord) bool {
	if violation.Corrected || !violation.CorrectedDate.IsZero() {
		return true
	}
	return strings.Contains(strings.ToLower(violation.Narrative), "corrected on")
}

// ageMonths returns the violation age; hasDate is false for missing or
// unparseable dates, which fall into the oldest bucket.
func (c *Classifier) ageMonths(activityDate time.Time) (float64, bool) {
	if activityDate.IsZero() || activityDate.After(c.now) {
		return 0, false
	}
	return c.now.Sub(activityDate).Hours() / 24 / daysPerMonth, true
}

// correctionDowngrade steps a corrected violation down one tier.
var correctionSteps = map[Severity]Severity{
	SeverityHigh:       SeverityMedium,
	SeverityMediumHigh: SeverityMediumLow,
	SeverityMedium:     SeverityLow,
	SeverityMediumLow:  SeverityLow,
	SeverityLow:        SeverityLow,
}

func correctionDowngrade(severity Severity) Severity {
	if next, ok := correctionSteps[severity]; ok {
		return next
	}
	return severity
}

// oneTierDown is the uniform single-step downgrade used by the age rule.
var oneTierDown = map[Severity]Severity{
	SeverityHigh:       SeverityMediumHigh,
	SeverityMediumHigh: SeverityMedium,
	SeverityMedium:     SeverityMediumLow,
	SeverityMediumLow:  SeverityLow,
	SeverityLow:        SeverityLow,
}

// ageDowngrade discounts stale violations. Corrected violations older
// than twelve months stop counting entirely.
func ageDowngrade(severity Severity, ageMonths float64, hasDate bool, corrected bool) Severity {
	old := !hasDate || ageMonths > monthsOld

	switch {
	case old:
		if corrected {
			return SeverityNone
		}
		if severity == SeverityHigh {
			return SeverityMediumLow
		}
		return SeverityLow
	case ageMonths > monthsMid:
		return oneTierDown[severity]
	case ageMonths > monthsRecent:
		if severity == SeverityHigh {
			return SeverityMediumHigh
		}
		return severity
	default:
		return severity
	}
}
