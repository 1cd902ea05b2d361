package model

type Brand struct {
	BrandID   int64  `gorm:"column:brand_id;primaryKey;autoIncrement" json:"brand_id"`
	BrandName string `gorm:"column:brand_name;type:varchar(255);not null" json:"brand_name"`
}

// 既存スキーマに合わせて単数形。
func (Brand) TableName() string { return "brand" }
