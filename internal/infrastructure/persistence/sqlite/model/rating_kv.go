package model

type RatingKV struct {
	Key       string `gorm:"column:key;primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (RatingKV) TableName() string {
	return "rating_kv"
}
