package repository

import (
	"context"

	"godent-be/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// pending のときだけ status を書き換える。遷移したら true。
	// ターミナル状態の上書きはここで防ぐ。
	UpdateStatusIfPending(ctx context.Context, orderID int64, status model.OrderStatus) (bool, error)

	// payment intent ID 列の後書き（ベストエフォート）
	UpdatePaymentIntentID(ctx context.Context, orderID int64, paymentIntentID string) error

	// metadata に order_id が無い場合の相関用
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (model.Order, error)
}
