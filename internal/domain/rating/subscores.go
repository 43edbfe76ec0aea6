package rating

import "math"

// Subscores are the four independent 1-10 display scores.
type Subscores struct {
	SafetyCompliance       float64
	OperationalQuality     float64
	EducationalProgramming float64
	StaffQualifications    float64
}

// subscore scaling constants: star boosts are rescaled onto the 10-point
// axis with different emphasis per subcategory.
const (
	operationalScale = 5.0
	educationScale   = 7.0
	staffScale       = 8.0
	keywordCredit    = 0.5
)

// ComputeSubscores derives the tiered display scores from the raw inputs
// and the extracted indicator list.
func ComputeSubscores(facility FacilityRecord, highRisk int, otherViolations int, indicators []QualityIndicator) Subscores {
	return Subscores{
		SafetyCompliance:       safetyCompliance(facility, highRisk, otherViolations),
		OperationalQuality:     operationalQuality(facility, indicators),
		EducationalProgramming: kindScore(indicators, educationScale, KindCurriculum, KindAccreditation),
		StaffQualifications:    kindScore(indicators, staffScale, KindStaff),
	}
}

func safetyCompliance(facility FacilityRecord, highRisk int, otherViolations int) float64 {
	if facility.RiskScore != nil {
		return roundTenth(clamp(10.0-*facility.RiskScore/10.0, 1.0, 10.0))
	}
	score := 10.0 - 1.5*float64(highRisk) - 0.5*float64(otherViolations)
	return roundTenth(clamp(score, 1.0, 10.0))
}

func operationalQuality(facility FacilityRecord, indicators []QualityIndicator) float64 {
	score := 5.0
	for _, indicator := range indicators {
		if indicator.Kind == KindOperational || indicator.Kind == KindServices {
			score += indicator.Boost * operationalScale
		}
	}
	if isInactive(facility.Status) {
		score -= 5.0
	}
	return roundTenth(clamp(score, 1.0, 10.0))
}

// kindScore rescales matching indicator boosts and adds a flat credit per
// matched keyword.
func kindScore(indicators []QualityIndicator, scale float64, kinds ...IndicatorKind) float64 {
	score := 5.0
	for _, indicator := range indicators {
		for _, kind := range kinds {
			if indicator.Kind == kind {
				score += indicator.Boost*scale + keywordCredit
				break
			}
		}
	}
	return roundTenth(clamp(score, 1.0, 10.0))
}

func roundTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
