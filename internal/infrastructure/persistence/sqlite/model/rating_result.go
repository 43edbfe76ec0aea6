package model

type RatingResult struct {
	RatingResultID uint64  `gorm:"column:rating_result_id;primaryKey;autoIncrement"`
	FacilityID     string  `gorm:"column:facility_id;type:text;not null;uniqueIndex:idx_rating_facility_mode"`
	Mode           string  `gorm:"column:mode;type:text;not null;uniqueIndex:idx_rating_facility_mode"`
	OverallRating  float64 `gorm:"column:overall_rating;not null"`

	SafetyRating    *float64 `gorm:"column:safety_rating"`
	HealthRating    *float64 `gorm:"column:health_rating"`
	WellbeingRating *float64 `gorm:"column:wellbeing_rating"`
	FacilityRating  *float64 `gorm:"column:facility_rating"`
	AdminRating     *float64 `gorm:"column:admin_rating"`

	SafetyComplianceScore       float64 `gorm:"column:safety_compliance_score;not null"`
	OperationalQualityScore     float64 `gorm:"column:operational_quality_score;not null"`
	EducationalProgrammingScore float64 `gorm:"column:educational_programming_score;not null"`
	StaffQualificationsScore    float64 `gorm:"column:staff_qualifications_score;not null"`

	ViolationCount         int `gorm:"column:violation_count;not null;default:0"`
	HighRiskViolationCount int `gorm:"column:high_risk_violation_count;not null;default:0"`
	RecentViolationsCount  int `gorm:"column:recent_violations_count;not null;default:0"`

	FactorsJSON    string `gorm:"column:factors_json;type:text;not null;default:'[]'"`
	IndicatorsJSON string `gorm:"column:indicators_json;type:text;not null;default:'[]'"`
	CategoriesJSON string `gorm:"column:categories_json;type:text;not null;default:'{}'"`
	RatedAt        string `gorm:"column:rated_at;type:text;not null"`
}

func (RatingResult) TableName() string {
	return "rating_results"
}
