package repository

import (
	"context"

	"godent-be/internal/domain/model"
)

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	// 同一商品は数量加算
	Upsert(ctx context.Context, userID int64, productID int64, addQty int64) error
	// 対象が無ければ ErrNotFound
	UpdateQuantity(ctx context.Context, userID int64, productID int64, qty int64) error
	Delete(ctx context.Context, userID int64, productID int64) error
}
