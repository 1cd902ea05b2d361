package repository

import (
	"context"
	"errors"

	"godent-be/internal/domain/model"
	repo "godent-be/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// カテゴリ・ブランド・画像込みで全件取得
func (r *ProductGormRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var items []model.Product

	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Images").
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Product{}, err
	}

	return items, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product

	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Images").
		Where("id = ?", id).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var items []model.Category
	if err := r.db.WithContext(ctx).Order("category_id asc").Find(&items).Error; err != nil {
		return []model.Category{}, err
	}
	return items, nil
}

func (r *ProductGormRepository) ListBrands(ctx context.Context) ([]model.Brand, error) {
	var items []model.Brand
	if err := r.db.WithContext(ctx).Order("brand_id asc").Find(&items).Error; err != nil {
		return []model.Brand{}, err
	}
	return items, nil
}
