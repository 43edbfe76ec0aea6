package model

type Violation struct {
	ViolationID   uint64 `gorm:"column:violation_id;primaryKey;autoIncrement"`
	FacilityID    string `gorm:"column:facility_id;type:text;not null;index"`
	StandardCode  string `gorm:"column:standard_code;type:text;not null"`
	RiskLevel     string `gorm:"column:risk_level;type:text;not null"`
	ActivityDate  string `gorm:"column:activity_date;type:text;not null"`
	Corrected     bool   `gorm:"column:corrected;not null;default:0"`
	CorrectedDate string `gorm:"column:corrected_date;type:text;not null;default:''"`
	Narrative     string `gorm:"column:narrative;type:text;not null"`
}

func (Violation) TableName() string {
	return "violations"
}
