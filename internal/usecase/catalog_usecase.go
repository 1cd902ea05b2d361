package usecase

import (
	"context"
	"net/http"
	"strings"

	"godent-be/internal/domain/model"
	repo "godent-be/internal/repository"
)

// カタログ参照（商品・カテゴリ・ブランド・検索）。すべて公開API。
type CatalogUsecase struct {
	productRepo repo.ProductRepository
}

func NewCatalogUsecase(productRepo repo.ProductRepository) *CatalogUsecase {
	return &CatalogUsecase{productRepo: productRepo}
}

// ProductResponse はカテゴリ名・ブランド名・画像URLをフラットに持つ。
type ProductResponse struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Stock        int64    `json:"stock"`
	Size         string   `json:"size"`
	CategoryName string   `json:"category_name"`
	BrandName    string   `json:"brand_name"`
	Images       []string `json:"images"`
}

type SearchResponse struct {
	Message  string            `json:"message"`
	Count    int               `json:"count"`
	Products []ProductResponse `json:"products"`
}

func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	products, err := u.productRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id int64) (ProductResponse, error) {
	if id <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toProductResponse(p), nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.productRepo.ListCategories(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CatalogUsecase) ListBrands(ctx context.Context) ([]model.Brand, error) {
	items, err := u.productRepo.ListBrands(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// Search は名前・カテゴリ名・ブランド名の部分一致。
// ランキングは持たない素朴なフィルタのまま。
func (u *CatalogUsecase) Search(ctx context.Context, q string) (SearchResponse, error) {
	if strings.TrimSpace(q) == "" {
		return SearchResponse{Message: "Success", Count: 0, Products: []ProductResponse{}}, nil
	}

	products, err := u.productRepo.ListAll(ctx)
	if err != nil {
		return SearchResponse{}, NewHTTPError(http.StatusInternalServerError, "error querying products")
	}

	term := strings.ToLower(q)
	matched := make([]ProductResponse, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Category.CategoryName), term) ||
			strings.Contains(strings.ToLower(p.Brand.BrandName), term) {
			matched = append(matched, toProductResponse(p))
		}
	}

	return SearchResponse{
		Message:  "Success",
		Count:    len(matched),
		Products: matched,
	}, nil
}

func toProductResponse(p model.Product) ProductResponse {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.URL)
	}

	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		Size:         p.Size,
		CategoryName: p.Category.CategoryName,
		BrandName:    p.Brand.BrandName,
		Images:       images,
	}
}
