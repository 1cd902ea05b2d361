package model

import "time"

// 商品マスタ。注文ワークフローからは読み取り専用。
type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int64   `gorm:"not null" json:"stock"`
	Size        string  `gorm:"type:varchar(50)" json:"size"`

	CategoryID int64 `gorm:"column:category;index" json:"category"`
	BrandID    int64 `gorm:"column:brand;index" json:"brand"`

	Category Category       `gorm:"foreignKey:CategoryID;references:CategoryID" json:"-"`
	Brand    Brand          `gorm:"foreignKey:BrandID;references:BrandID" json:"-"`
	Images   []ProductImage `gorm:"foreignKey:ProductID" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
