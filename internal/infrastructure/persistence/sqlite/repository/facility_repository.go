package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carescore/internal/errs"
	"carescore/internal/infrastructure/persistence/sqlite/model"
	"carescore/internal/ports"
)

type FacilityRepository struct {
	db *gorm.DB
}

var _ ports.FacilityRepository = (*FacilityRepository)(nil)

func NewFacilityRepository(db *gorm.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

func (r *FacilityRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *FacilityRepository) ListFacilities(ctx context.Context, filter ports.FacilityFilter) ([]ports.Facility, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Facility{})
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("city = ?", city)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []model.Facility
	if err := query.Order("facility_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query facilities")
	}

	items := make([]ports.Facility, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapFacility(row))
	}
	return items, nil
}

func (r *FacilityRepository) GetFacility(ctx context.Context, facilityID string) (ports.Facility, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Facility{}, err
	}

	var row model.Facility
	if err := db.Where("facility_id = ?", facilityID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Facility{}, ports.ErrFacilityNotFound
		}
		return ports.Facility{}, errs.Wrap(err, "query facility")
	}
	return mapFacility(row), nil
}

func (r *FacilityRepository) ListViolations(ctx context.Context, facilityID string) ([]ports.Violation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Violation
	if err := db.Where("facility_id = ?", facilityID).Order("violation_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query violations")
	}

	items := make([]ports.Violation, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Violation{
			ViolationID:   row.ViolationID,
			FacilityID:    row.FacilityID,
			StandardCode:  row.StandardCode,
			RiskLevel:     row.RiskLevel,
			ActivityDate:  row.ActivityDate,
			Corrected:     row.Corrected,
			CorrectedDate: row.CorrectedDate,
			Narrative:     row.Narrative,
		})
	}
	return items, nil
}

func (r *FacilityRepository) ListInspections(ctx context.Context, facilityID string) ([]ports.Inspection, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Inspection
	if err := db.Where("facility_id = ?", facilityID).Order("inspection_date asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query inspections")
	}

	items := make([]ports.Inspection, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Inspection{
			InspectionID:   row.InspectionID,
			FacilityID:     row.FacilityID,
			InspectionDate: row.InspectionDate,
		})
	}
	return items, nil
}

func (r *FacilityRepository) ListReviews(ctx context.Context, facilityID string) ([]ports.Review, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Review
	if err := db.Where("facility_id = ?", facilityID).Order("review_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query reviews")
	}

	items := make([]ports.Review, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Review{
			ReviewID:     row.ReviewID,
			FacilityID:   row.FacilityID,
			Rating:       row.Rating,
			ReviewDate:   row.ReviewDate,
			HelpfulVotes: row.HelpfulVotes,
		})
	}
	return items, nil
}

func (r *FacilityRepository) GetRatingResult(ctx context.Context, facilityID string, mode string) (ports.RatingResultRecord, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.RatingResultRecord{}, false, err
	}

	var row model.RatingResult
	if err := db.Where("facility_id = ? AND mode = ?", facilityID, mode).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RatingResultRecord{}, false, nil
		}
		return ports.RatingResultRecord{}, false, errs.Wrap(err, "query rating result")
	}
	return mapRatingResult(row), true, nil
}

func (r *FacilityRepository) ListRatingResults(ctx context.Context, mode string, limit int) ([]ports.RatingResultRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.RatingResult{}).Where("mode = ?", mode)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.RatingResult
	if err := query.Order("facility_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query rating results")
	}

	items := make([]ports.RatingResultRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapRatingResult(row))
	}
	return items, nil
}

func (r *FacilityRepository) UpsertFacility(ctx context.Context, facility ports.Facility) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	facilityID := strings.TrimSpace(facility.FacilityID)
	if facilityID == "" {
		return errors.New("facility id is required")
	}

	row := model.Facility{
		FacilityID:       facilityID,
		Name:             facility.Name,
		OperationType:    facility.OperationType,
		City:             facility.City,
		Capacity:         facility.Capacity,
		LicenseIssueDate: facility.LicenseIssueDate,
		HoursText:        facility.HoursText,
		DaysText:         facility.DaysText,
		AgeRangeText:     facility.AgeRangeText,
		PermitConditions: facility.PermitConditions,
		Status:           facility.Status,
		AcceptsSubsidy:   facility.AcceptsSubsidy,
		ProgramsText:     facility.ProgramsText,
		RiskScore:        facility.RiskScore,
		UpdatedAt:        facility.UpdatedAt,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "facility_id"}},
		UpdateAll: true,
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert facility")
	}
	return nil
}

func (r *FacilityRepository) ReplaceViolations(ctx context.Context, facilityID string, violations []ports.Violation) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Where("facility_id = ?", facilityID).Delete(&model.Violation{}).Error; err != nil {
		return errs.Wrap(err, "delete violations")
	}
	if len(violations) == 0 {
		return nil
	}

	rows := make([]model.Violation, 0, len(violations))
	for _, violation := range violations {
		rows = append(rows, model.Violation{
			FacilityID:    facilityID,
			StandardCode:  violation.StandardCode,
			RiskLevel:     violation.RiskLevel,
			ActivityDate:  violation.ActivityDate,
			Corrected:     violation.Corrected,
			CorrectedDate: violation.CorrectedDate,
			Narrative:     violation.Narrative,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return errs.Wrap(err, "insert violations")
	}
	return nil
}

func (r *FacilityRepository) ReplaceInspections(ctx context.Context, facilityID string, inspections []ports.Inspection) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Where("facility_id = ?", facilityID).Delete(&model.Inspection{}).Error; err != nil {
		return errs.Wrap(err, "delete inspections")
	}
	if len(inspections) == 0 {
		return nil
	}

	rows := make([]model.Inspection, 0, len(inspections))
	for _, inspection := range inspections {
		rows = append(rows, model.Inspection{
			FacilityID:     facilityID,
			InspectionDate: inspection.InspectionDate,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return errs.Wrap(err, "insert inspections")
	}
	return nil
}

func (r *FacilityRepository) ReplaceReviews(ctx context.Context, facilityID string, reviews []ports.Review) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Where("facility_id = ?", facilityID).Delete(&model.Review{}).Error; err != nil {
		return errs.Wrap(err, "delete reviews")
	}
	if len(reviews) == 0 {
		return nil
	}

	rows := make([]model.Review, 0, len(reviews))
	for _, review := range reviews {
		rows = append(rows, model.Review{
			FacilityID:   facilityID,
			Rating:       review.Rating,
			ReviewDate:   review.ReviewDate,
			HelpfulVotes: review.HelpfulVotes,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return errs.Wrap(err, "insert reviews")
	}
	return nil
}

func (r *FacilityRepository) SaveRatingResult(ctx context.Context, record ports.RatingResultRecord) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.RatingResult{
		FacilityID:                  record.FacilityID,
		Mode:                        record.Mode,
		OverallRating:               record.OverallRating,
		SafetyRating:                record.SafetyRating,
		HealthRating:                record.HealthRating,
		WellbeingRating:             record.WellbeingRating,
		FacilityRating:              record.FacilityRating,
		AdminRating:                 record.AdminRating,
		SafetyComplianceScore:       record.SafetyComplianceScore,
		OperationalQualityScore:     record.OperationalQualityScore,
		EducationalProgrammingScore: record.EducationalProgrammingScore,
		StaffQualificationsScore:    record.StaffQualificationsScore,
		ViolationCount:              record.ViolationCount,
		HighRiskViolationCount:      record.HighRiskViolationCount,
		RecentViolationsCount:       record.RecentViolationsCount,
		FactorsJSON:                 record.FactorsJSON,
		IndicatorsJSON:              record.IndicatorsJSON,
		CategoriesJSON:              record.CategoriesJSON,
		RatedAt:                     record.RatedAt,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "facility_id"}, {Name: "mode"}},
		UpdateAll: true,
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert rating result")
	}
	return nil
}

func mapFacility(row model.Facility) ports.Facility {
	return ports.Facility{
		FacilityID:       row.FacilityID,
		Name:             row.Name,
		OperationType:    row.OperationType,
		City:             row.City,
		Capacity:         row.Capacity,
		LicenseIssueDate: row.LicenseIssueDate,
		HoursText:        row.HoursText,
		DaysText:         row.DaysText,
		AgeRangeText:     row.AgeRangeText,
		PermitConditions: row.PermitConditions,
		Status:           row.Status,
		AcceptsSubsidy:   row.AcceptsSubsidy,
		ProgramsText:     row.ProgramsText,
		RiskScore:        row.RiskScore,
		UpdatedAt:        row.UpdatedAt,
	}
}

func mapRatingResult(row model.RatingResult) ports.RatingResultRecord {
	return ports.RatingResultRecord{
		FacilityID:                  row.FacilityID,
		Mode:                        row.Mode,
		OverallRating:               row.OverallRating,
		SafetyRating:                row.SafetyRating,
		HealthRating:                row.HealthRating,
		WellbeingRating:             row.WellbeingRating,
		FacilityRating:              row.FacilityRating,
		AdminRating:                 row.AdminRating,
		SafetyComplianceScore:       row.SafetyComplianceScore,
		OperationalQualityScore:     row.OperationalQualityScore,
		EducationalProgrammingScore: row.EducationalProgrammingScore,
		StaffQualificationsScore:    row.StaffQualificationsScore,
		ViolationCount:              row.ViolationCount,
		HighRiskViolationCount:      row.HighRiskViolationCount,
		RecentViolationsCount:       row.RecentViolationsCount,
		FactorsJSON:                 row.FactorsJSON,
		IndicatorsJSON:              row.IndicatorsJSON,
		CategoriesJSON:              row.CategoriesJSON,
		RatedAt:                     row.RatedAt,
	}
}
