package usecase

import (
	"context"
	"net/http"

	repo "godent-be/internal/repository"
)

type FavoriteUsecase struct {
	favoriteRepo repo.FavoriteRepository
	productRepo  repo.ProductRepository
}

func NewFavoriteUsecase(favoriteRepo repo.FavoriteRepository, productRepo repo.ProductRepository) *FavoriteUsecase {
	return &FavoriteUsecase{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

func (u *FavoriteUsecase) ListFavorites(ctx context.Context, userID int64) ([]ProductResponse, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	favs, err := u.favoriteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "error getting favorites")
	}

	out := make([]ProductResponse, 0, len(favs))
	for _, f := range favs {
		p, err := u.productRepo.FindByID(ctx, f.ProductID)
		if err == repo.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "error getting favorites")
		}
		out = append(out, toProductResponse(p))
	}

	return out, nil
}

// 追加は重複でもエラーにしない（存在のみの集合なので）。
func (u *FavoriteUsecase) AddFavorite(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product does not exist")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.favoriteRepo.Add(ctx, userID, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "error adding favorite")
	}

	return nil
}

// 無いペアの削除は 404 で、テーブルは変更しない。
func (u *FavoriteUsecase) RemoveFavorite(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	err := u.favoriteRepo.Delete(ctx, userID, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "product not found in favorites")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
