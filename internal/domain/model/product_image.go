package model

type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index" json:"product_id"`
	URL       string `gorm:"column:url;type:text;not null" json:"url"`
}

func (ProductImage) TableName() string { return "images" }
