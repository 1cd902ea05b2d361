package model

type Category struct {
	CategoryID   int64  `gorm:"column:category_id;primaryKey;autoIncrement" json:"category_id"`
	CategoryName string `gorm:"column:category_name;type:varchar(255);not null" json:"category_name"`
}

func (Category) TableName() string { return "categories" }
