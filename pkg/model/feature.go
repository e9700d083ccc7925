package model

import "time"

type Feature struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Type        string    `gorm:"column:type;not null" json:"type"`
	Owner       string    `gorm:"column:owner;not null" json:"owner"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	Enabled     bool      `gorm:"column:enabled;not null" json:"enabled"`
	CreatedAt   time.Time `gorm:"column:create_ts;not null" json:"createdAt"`
}

func (Feature) TableName() string {
	return "features"
}
