package model

type Review struct {
	ReviewID     uint64  `gorm:"column:review_id;primaryKey;autoIncrement"`
	FacilityID   string  `gorm:"column:facility_id;type:text;not null;index"`
	Rating       float64 `gorm:"column:rating;not null"`
	ReviewDate   string  `gorm:"column:review_date;type:text;not null"`
	HelpfulVotes int     `gorm:"column:helpful_votes;not null;default:0"`
}

func (Review) TableName() string {
	return "reviews"
}
