package ports

import (
	"context"
	"errors"
)

var ErrFacilityNotFound = errors.New("facility not found")

type FacilityFilter struct {
	City   string
	Status string
	Limit  int
}

// Facility mirrors the stored facility row. Dates travel as strings
// (RFC3339 or YYYY-MM-DD); the usecase parses them and degrades
// gracefully on malformed values.
type Facility struct {
	FacilityID       string
	Name             string
	OperationType    string
	City             string
	Capacity         int
	LicenseIssueDate string
	HoursText        string
	DaysText         string
	AgeRangeText     string
	PermitConditions bool
	Status           string
	AcceptsSubsidy   bool
	ProgramsText     string
	RiskScore        *float64
	UpdatedAt        string
}

type Violation struct {
	ViolationID   uint64
	FacilityID    string
	StandardCode  string
	RiskLevel     string
	ActivityDate  string
	Corrected     bool
	CorrectedDate string
	Narrative     string
}

type Inspection struct {
	InspectionID   uint64
	FacilityID     string
	InspectionDate string
}

type Review struct {
	ReviewID     uint64
	FacilityID   string
	Rating       float64
	ReviewDate   string
	HelpfulVotes int
}

// RatingResultRecord is the persisted form of a rating run for one
// facility. Factor/indicator/category lists are stored as JSON text.
type RatingResultRecord struct {
	FacilityID                  string
	Mode                        string
	OverallRating               float64
	SafetyRating                *float64
	HealthRating                *float64
	WellbeingRating             *float64
	FacilityRating              *float64
	AdminRating                 *float64
	SafetyComplianceScore       float64
	OperationalQualityScore     float64
	EducationalProgrammingScore float64
	StaffQualificationsScore    float64
	ViolationCount              int
	HighRiskViolationCount      int
	RecentViolationsCount       int
	FactorsJSON                 string
	IndicatorsJSON              string
	CategoriesJSON              string
	RatedAt                     string
}

type FacilityReadRepository interface {
	ListFacilities(ctx context.Context, filter FacilityFilter) ([]Facility, error)
	GetFacility(ctx context.Context, facilityID string) (Facility, error)
	ListViolations(ctx context.Context, facilityID string) ([]Violation, error)
	ListInspections(ctx context.Context, facilityID string) ([]Inspection, error)
	ListReviews(ctx context.Context, facilityID string) ([]Review, error)
	GetRatingResult(ctx context.Context, facilityID string, mode string) (RatingResultRecord, bool, error)
	ListRatingResults(ctx context.Context, mode string, limit int) ([]RatingResultRecord, error)
}

type FacilityRepository interface {
	FacilityReadRepository
	UpsertFacility(ctx context.Context, facility Facility) error
	ReplaceViolations(ctx context.Context, facilityID string, violations []Violation) error
	ReplaceInspections(ctx context.Context, facilityID string, inspections []Inspection) error
	ReplaceReviews(ctx context.Context, facilityID string, reviews []Review) error
	SaveRatingResult(ctx context.Context, record RatingResultRecord) error
}
