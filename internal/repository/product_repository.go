package repository

import (
	"context"

	"godent-be/internal/domain/model"
)

// 商品カタログの読み取りだけを約束。注文側から商品を書き換えることはない。
type ProductRepository interface {
	// Category / Brand / Images を含めて返す
	ListAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	ListCategories(ctx context.Context) ([]model.Category, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
}
