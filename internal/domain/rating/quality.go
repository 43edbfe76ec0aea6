package rating

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// QualityOutcome is the indicator list plus the bounded boost derived
// from it.
type QualityOutcome struct {
	Indicators []QualityIndicator
	// RawBoost is the undiminished sum of all matches.
	RawBoost float64
	// Boost is the diminished, clamped value applied to scores.
	Boost float64
}

// hour/day/age matchers for operational factors. Matching is plain
// substring search over the free-text schedule fields; the dataset is not
// consistent enough for stricter parsing.
var (
	earlyMorningNeedles = []string{"5:00 am", "5:30 am", "5:45 am", "6:00 am", "6:15 am"}
	eveningNeedles      = []string{"7:00 pm", "7:30 pm", "8:00 pm", "9:00 pm", "10:00 pm", "11:00 pm", "midnight"}
	aroundClockNeedles  = []string{"24 hour", "24-hour", "24 hr", "overnight"}
	saturdayNeedles     = []string{"saturday", "sat"}
	sundayNeedles       = []string{"sunday", "sun"}
	sevenDayNeedles     = []string{"7 days", "seven days", "every day"}
	infantNeedles       = []string{"infant", "0 year", "6 weeks", "birth"}
	wideRangeNeedles    = []string{"12 years", "13 years", "school", "pre-teen"}
)

// ExtractQuality scans descriptive and structured facility fields for
// quality signals and converts them into a bounded star boost.
func ExtractQuality(profile *Profile, facility FacilityRecord) QualityOutcome {
	indicators := matchDescriptive(profile, facility.ProgramsText)
	indicators = append(indicators, matchOperational(profile, facility)...)

	positive := 0.0
	negative := 0.0
	for _, indicator := range indicators {
		if indicator.Boost >= 0 {
			positive += indicator.Boost
		} else {
			negative += indicator.Boost
		}
	}

	raw := positive + negative
	// Penalties stay undiminished; only accumulated positives flatten out.
	boost := diminish(profile, positive) + negative
	if boost > profile.MaxQualityBoost {
		boost = profile.MaxQualityBoost
	}

	return QualityOutcome{Indicators: indicators, RawBoost: raw, Boost: boost}
}

// matchDescriptive runs the five keyword dictionaries over programs_text.
func matchDescriptive(profile *Profile, programsText string) []QualityIndicator {
	text := strings.ToLower(programsText)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	indicators := make([]QualityIndicator, 0, 8)
	for _, kind := range []IndicatorKind{KindAccreditation, KindCurriculum, KindStaff, KindHealth, KindServices} {
		dictionary := profile.Descriptive[kind]
		keywords := make([]string, 0, len(dictionary))
		for keyword := range dictionary {
			keywords = append(keywords, keyword)
		}
		// Deterministic indicator order regardless of map iteration.
		sort.Strings(keywords)
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				indicators = append(indicators, QualityIndicator{
					Label: indicatorLabel(kind, keyword),
					Boost: dictionary[keyword],
					Kind:  kind,
				})
			}
		}
	}
	return indicators
}

func indicatorLabel(kind IndicatorKind, keyword string) string {
	switch kind {
	case KindAccreditation:
		return fmt.Sprintf("Accreditation: %s", keyword)
	case KindCurriculum:
		return fmt.Sprintf("Curriculum: %s", keyword)
	case KindStaff:
		return fmt.Sprintf("Staff: %s", keyword)
	case KindHealth:
		return fmt.Sprintf("Health & nutrition: %s", keyword)
	case KindServices:
		return fmt.Sprintf("Services: %s", keyword)
	}
	return keyword
}

// matchOperational evaluates structured fields: schedule coverage,
// subsidy acceptance, capacity, age range and permit conditions.
func matchOperational(profile *Profile, facility FacilityRecord) []QualityIndicator {
	weights := profile.Operational
	indicators := make([]QualityIndicator, 0, 6)
	add := func(label string, boost float64) {
		if boost == 0 {
			return
		}
		indicators = append(indicators, QualityIndicator{Label: label, Boost: boost, Kind: KindOperational})
	}

	if facility.AcceptsSubsidy {
		add("Accepts child care subsidies", weights.Subsidy)
	}
	if containsAny(facility.HoursText, aroundClockNeedles) {
		add("24-hour care", weights.AroundTheClock)
	} else {
		if containsAny(facility.HoursText, earlyMorningNeedles) {
			add("Early morning hours", weights.EarlyMorning)
		}
		if containsAny(facility.HoursText, eveningNeedles) {
			add("Evening hours", weights.Evening)
		}
	}
	if containsAny(facility.DaysText, sevenDayNeedles) {
		add("Open 7 days a week", weights.SevenDays)
	} else {
		if containsAny(facility.DaysText, saturdayNeedles) {
			add("Open Saturdays", weights.Saturday)
		}
		if containsAny(facility.DaysText, sundayNeedles) {
			add("Open Sundays", weights.Sunday)
		}
	}
	if facility.PermitConditions {
		add("Operating with permit conditions", weights.PermitConditions)
	}
	if facility.Capacity > 100 {
		add("Large licensed capacity", weights.LargeCapacity)
	}
	if containsAny(facility.AgeRangeText, infantNeedles) {
		add("Infant care", weights.InfantCare)
		if containsAny(facility.AgeRangeText, wideRangeNeedles) {
			add("Wide age range", weights.WideAgeRange)
		}
	}

	return indicators
}

// diminish applies the progressive tranches to a positive boost total.
func diminish(profile *Profile, positive float64) float64 {
	if positive <= 0 {
		return 0
	}

	out := 0.0
	remaining := positive
	for _, rate := range profile.TrancheRates {
		step := math.Min(remaining, profile.TrancheSize)
		out += step * rate
		remaining -= step
		if remaining <= 0 {
			return out
		}
	}
	return out + remaining*profile.TailRate
}

// defaultDescriptive holds the five production keyword dictionaries.
func defaultDescriptive() map[IndicatorKind]map[string]float64 {
	return map[IndicatorKind]map[string]float64{
		KindAccreditation: {
			"naeyc":                 0.25,
			"necpa":                 0.20,
			"texas rising star":     0.20,
			"nationally accredited": 0.18,
			"accredited":            0.12,
			"apple accredit":        0.15,
		},
		KindCurriculum: {
			"montessori":             0.15,
			"reggio":                 0.15,
			"waldorf":                0.12,
			"steam":                  0.10,
			"stem":                   0.10,
			"dual language":          0.12,
			"bilingual":              0.12,
			"spanish immersion":      0.12,
			"kindergarten readiness": 0.08,
			"creative curriculum":    0.10,
			"frog street":            0.08,
		},
		KindStaff: {
			"degreed teachers":     0.15,
			"certified teachers":   0.12,
			"cda":                  0.12,
			"low turnover":         0.10,
			"experienced staff":    0.08,
			"cpr certified":        0.06,
			"continuing education": 0.06,
		},
		KindHealth: {
			"organic meals":    0.10,
			"nutritious meals": 0.08,
			"meals included":   0.06,
			"nurse on staff":   0.12,
			"allergy aware":    0.06,
			"outdoor play":     0.05,
		},
		KindServices: {
			"transportation provided": 0.08,
			"before and after school": 0.06,
			"after school":            0.05,
			"summer camp":             0.05,
			"special needs":           0.12,
			"live camera":             0.08,
			"parent app":              0.05,
		},
	}
}
