package model

type Inspection struct {
	InspectionID   uint64 `gorm:"column:inspection_id;primaryKey;autoIncrement"`
	FacilityID     string `gorm:"column:facility_id;type:text;not null;index"`
	InspectionDate string `gorm:"column:inspection_date;type:text;not null"`
}

func (Inspection) TableName() string {
	return "inspections"
}
