package repository

import (
	"context"

	"godent-be/internal/domain/model"
)

type FavoriteRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.Favorite, error)
	// 既に存在する場合は何もしない
	Add(ctx context.Context, userID int64, productID int64) error
	// 対象が無ければ ErrNotFound
	Delete(ctx context.Context, userID int64, productID int64) error
}
