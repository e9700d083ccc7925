package model

import "time"

type Product struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description"`
	Owner       string    `gorm:"column:owner;not null" json:"owner"`
	CreatedAt   time.Time `gorm:"column:create_ts;not null" json:"createdAt"`
}

func (Product) TableName() string {
	return "products"
}
