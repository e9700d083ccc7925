package model

import "time"

type Environment struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:create_ts;not null" json:"createdAt"`
}

func (Environment) TableName() string {
	return "environments"
}
