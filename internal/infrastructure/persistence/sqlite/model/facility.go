package model

type Facility struct {
	FacilityID       string   `gorm:"column:facility_id;primaryKey"`
	Name             string   `gorm:"column:name;type:text;not null"`
	OperationType    string   `gorm:"column:operation_type;type:text;not null"`
	City             string   `gorm:"column:city;type:text;not null;index"`
	Capacity         int      `gorm:"column:capacity;not null;default:0"`
	LicenseIssueDate string   `gorm:"column:license_issue_date;type:text;not null"`
	HoursText        string   `gorm:"column:hours_text;type:text;not null"`
	DaysText         string   `gorm:"column:days_text;type:text;not null"`
	AgeRangeText     string   `gorm:"column:age_range_text;type:text;not null"`
	PermitConditions bool     `gorm:"column:permit_conditions;not null;default:0"`
	Status           string   `gorm:"column:status;type:text;not null;index"`
	AcceptsSubsidy   bool     `gorm:"column:accepts_subsidy;not null;default:0"`
	ProgramsText     string   `gorm:"column:programs_text;type:text;not null"`
	RiskScore        *float64 `gorm:"column:risk_score"`
	UpdatedAt        string   `gorm:"column:updated_at;type:text;not null"`
}

func (Facility) TableName() string {
	return "facilities"
}
