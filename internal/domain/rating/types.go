// Package rating implements the carescore rating engine: violation
// classification, category-weighted deductions, quality-indicator boosts,
// parent-review aggregation, composite scoring, distribution calibration
// and derived subcategory scores. The package is pure computation; all
// tunables live on a Profile and all inputs arrive as immutable records.
package rating

import "time"

// Category is one of the canonical violation domains.
type Category string

const (
	CategorySafety         Category = "safety"
	CategoryChildHealth    Category = "child_health"
	CategoryChildWellBeing Category = "child_well_being"
	CategoryAdministrative Category = "administrative"
	CategoryFacility       Category = "facility"
	CategoryPaperwork      Category = "paperwork"
	CategoryTransportation Category = "transportation"
	CategoryNutrition      Category = "nutrition"
	CategorySleepRest      Category = "sleep_rest"
	CategoryEnvironmental  Category = "environmental_feature"
	CategoryOther          Category = "other"
)

// Categories lists every canonical category in display order.
var Categories = []Category{
	CategorySafety,
	CategoryChildHealth,
	CategoryChildWellBeing,
	CategoryAdministrative,
	CategoryFacility,
	CategoryPaperwork,
	CategoryTransportation,
	CategoryNutrition,
	CategorySleepRest,
	CategoryEnvironmental,
	CategoryOther,
}

// Severity is a violation impact tier. SeverityNone marks a violation that
// must be excluded from every count.
type Severity string

const (
	SeverityHigh       Severity = "high"
	SeverityMediumHigh Severity = "medium_high"
	SeverityMedium     Severity = "medium"
	SeverityMediumLow  Severity = "medium_low"
	SeverityLow        Severity = "low"
	SeverityNone       Severity = "none"
)

// Severities lists countable tiers from worst to mildest.
var Severities = []Severity{
	SeverityHigh,
	SeverityMediumHigh,
	SeverityMedium,
	SeverityMediumLow,
	SeverityLow,
}

// FacilityRecord is the read-only facility input for one rating pass.
type FacilityRecord struct {
	ID               string
	Name             string
	OperationType    string
	City             string
	Capacity         int
	LicenseIssueDate time.Time
	HoursText        string
	DaysText         string
	AgeRangeText     string
	PermitConditions bool
	Status           string
	AcceptsSubsidy   bool
	ProgramsText     string
	// RiskScore is the externally precomputed risk score; nil when unknown.
	RiskScore *float64
}

// ViolationRecord is one raw regulatory violation. A zero ActivityDate
// means the date was missing or unparseable and the violation falls into
// the oldest time bucket.
type ViolationRecord struct {
	StandardCode  string
	RiskLevel     string
	ActivityDate  time.Time
	Corrected     bool
	CorrectedDate time.Time
	Narrative     string
}

// ReviewRecord is one parent review.
type ReviewRecord struct {
	Rating       float64
	Date         time.Time
	HelpfulVotes int
}

// ClassifiedViolation is the classifier output for one violation.
type ClassifiedViolation struct {
	Category     Category
	Severity     Severity
	ActivityDate time.Time
}

// IndicatorKind groups quality indicators by the dictionary or factor
// that produced them; subcategory scoring keys off the kind.
type IndicatorKind string

const (
	KindAccreditation IndicatorKind = "accreditation"
	KindCurriculum    IndicatorKind = "curriculum"
	KindStaff         IndicatorKind = "staff"
	KindHealth        IndicatorKind = "health"
	KindServices      IndicatorKind = "services"
	KindOperational   IndicatorKind = "operational"
)

// QualityIndicator is a single matched facility strength (or penalty).
type QualityIndicator struct {
	Label string
	Boost float64
	Kind  IndicatorKind
}

// RatingResult is the engine output for one facility. Field names, the
// five legacy category ratings, the four subcategory scores and the
// free-text factor/indicator lists are display contract and stable.
type RatingResult struct {
	FacilityID    string
	Mode          string
	OverallRating float64

	SafetyRating    *float64
	HealthRating    *float64
	WellbeingRating *float64
	FacilityRating  *float64
	AdminRating     *float64

	SafetyComplianceScore       float64
	OperationalQualityScore     float64
	EducationalProgrammingScore float64
	StaffQualificationsScore    float64

	ViolationCount         int
	HighRiskViolationCount int
	RecentViolationsCount  int

	RatingFactors        []string
	QualityIndicators    []string
	ViolationsByCategory map[Category]int

	// Intermediate values kept for calibration and reporting.
	ViolationScore    float64
	QualityBoost      float64
	ParentReviewScore float64
	RawScore          float64
}
