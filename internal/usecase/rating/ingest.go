package rating

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"

	"carescore/internal/bootstrap/logging"
	"carescore/internal/errs"
	"carescore/internal/ports"
)

// importFile is the on-disk shape consumed by ImportData: one document
// with nested per-facility records.
type importFile struct {
	Facilities []importFacility `json:"facilities"`
}

type importFacility struct {
	FacilityID       string   `json:"facility_id"`
	Name             string   `json:"name"`
	OperationType    string   `json:"operation_type"`
	City             string   `json:"city"`
	Capacity         int      `json:"capacity"`
	LicenseIssueDate string   `json:"license_issue_date"`
	HoursText        string   `json:"hours"`
	DaysText         string   `json:"days"`
	AgeRangeText     string   `json:"age_range"`
	PermitConditions bool     `json:"permit_conditions"`
	Status           string   `json:"status"`
	AcceptsSubsidy   bool     `json:"accepts_subsidy"`
	ProgramsText     string   `json:"programs"`
	RiskScore        *float64 `json:"risk_score"`

	Violations  []importViolation  `json:"violations"`
	Inspections []importInspection `json:"inspections"`
	Reviews     []importReview     `json:"reviews"`
}

type importViolation struct {
	StandardCode  string `json:"standard_code"`
	RiskLevel     string `json:"risk_level"`
	ActivityDate  string `json:"activity_date"`
	Corrected     bool   `json:"corrected"`
	CorrectedDate string `json:"corrected_date"`
	Narrative     string `json:"narrative"`
}

type importInspection struct {
	InspectionDate string `json:"inspection_date"`
}

type importReview struct {
	Rating       float64 `json:"rating"`
	ReviewDate   string  `json:"review_date"`
	HelpfulVotes int     `json:"helpful_votes"`
}

type ImportSummary struct {
	Total    int
	Imported int
	Skipped  int
}

// ImportData loads a JSON export and upserts each facility with its
// violations, inspections and reviews in one transaction per facility.
// A facility that fails is logged and skipped.
func (s *Service) ImportData(ctx context.Context, path string) (ImportSummary, error) {
	if ctx == nil {
		return ImportSummary{}, errors.New("context is required")
	}
	if strings.TrimSpace(path) == "" {
		return ImportSummary{}, errors.New("import file path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return ImportSummary{}, errs.Wrapf(err, "read import file %s", path)
	}
	var doc importFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ImportSummary{}, errs.Wrap(err, "decode import file")
	}

	summary := ImportSummary{Total: len(doc.Facilities)}
	for _, entry := range doc.Facilities {
		if err := ctx.Err(); err != nil {
			return summary, errs.Wrap(err, "import interrupted")
		}
		if strings.TrimSpace(entry.FacilityID) == "" {
			summary.Skipped++
			logging.Warn(ctx, "skipping facility without id",
				slog.String("name", entry.Name))
			continue
		}
		if err := s.importFacility(ctx, entry); err != nil {
			summary.Skipped++
			logging.Warn(ctx, "import facility failed",
				slog.String("facility_id", entry.FacilityID),
				slog.Any("err", errs.Loggable(err)))
			continue
		}
		summary.Imported++
	}

	logging.Info(ctx, "import finished",
		slog.String("file", path),
		slog.Int("total", summary.Total),
		slog.Int("imported", summary.Imported),
		slog.Int("skipped", summary.Skipped))
	return summary, nil
}

func (s *Service) importFacility(ctx context.Context, entry importFacility) error {
	facility := ports.Facility{
		FacilityID:       entry.FacilityID,
		Name:             entry.Name,
		OperationType:    entry.OperationType,
		City:             entry.City,
		Capacity:         entry.Capacity,
		LicenseIssueDate: entry.LicenseIssueDate,
		HoursText:        entry.HoursText,
		DaysText:         entry.DaysText,
		AgeRangeText:     entry.AgeRangeText,
		PermitConditions: entry.PermitConditions,
		Status:           entry.Status,
		AcceptsSubsidy:   entry.AcceptsSubsidy,
		ProgramsText:     entry.ProgramsText,
		RiskScore:        entry.RiskScore,
	}

	violations := make([]ports.Violation, 0, len(entry.Violations))
	for _, violation := range entry.Violations {
		violations = append(violations, ports.Violation{
			FacilityID:    entry.FacilityID,
			StandardCode:  violation.StandardCode,
			RiskLevel:     violation.RiskLevel,
			ActivityDate:  violation.ActivityDate,
			Corrected:     violation.Corrected,
			CorrectedDate: violation.CorrectedDate,
			Narrative:     violation.Narrative,
		})
	}
	inspections := make([]ports.Inspection, 0, len(entry.Inspections))
	for _, inspection := range entry.Inspections {
		inspections = append(inspections, ports.Inspection{
			FacilityID:     entry.FacilityID,
			InspectionDate: inspection.InspectionDate,
		})
	}
	reviews := make([]ports.Review, 0, len(entry.Reviews))
	for _, review := range entry.Reviews {
		reviews = append(reviews, ports.Review{
			FacilityID:   entry.FacilityID,
			Rating:       review.Rating,
			ReviewDate:   review.ReviewDate,
			HelpfulVotes: review.HelpfulVotes,
		})
	}

	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpsertFacility(txCtx, facility); err != nil {
			return errs.Wrap(err, "upsert facility")
		}
		if err := s.repo.ReplaceViolations(txCtx, entry.FacilityID, violations); err != nil {
			return errs.Wrap(err, "replace violations")
		}
		if err := s.repo.ReplaceInspections(txCtx, entry.FacilityID, inspections); err != nil {
			return errs.Wrap(err, "replace inspections")
		}
		if err := s.repo.ReplaceReviews(txCtx, entry.FacilityID, reviews); err != nil {
			return errs.Wrap(err, "replace reviews")
		}
		return nil
	})
}
