package usecase

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"godent-be/internal/domain/model"
	"godent-be/internal/logger"
	"godent-be/internal/payment"
	repo "godent-be/internal/repository"

	"go.uber.org/zap"
)

// OrderUsecase は注文作成と参照。作成は
//   1) 注文＋明細の insert（1トランザクション）
//   2) 同じ境界内で payment intent 作成（失敗したら全ロールバック）
//   3) commit 後に intent ID 列をベストエフォートで書く
// の順で進む。
type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	gateway    payment.Gateway
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	gateway payment.Gateway,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		gateway:    gateway,
	}
}

type CreateOrderItemInput struct {
	ProductID int64 `json:"id"`
	Quantity  int64 `json:"quantity"`
}

type CreateOrderInput struct {
	CustomerName  string
	CustomerEmail string
	Items         []CreateOrderItemInput
}

type CreateOrderOutput struct {
	OrderID      int64   `json:"orderId"`
	ClientSecret string  `json:"clientSecret"`
	Total        float64 `json:"total"`
}

type OrderListResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Orders  []model.Order `json:"orders"`
}

type OrderDetailResponse struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`
}

// MinorUnits は最小通貨単位（USDならセント）へ丸める。
// Stripe に渡す金額と合計の検算はこの1箇所に寄せる。
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateOrder はゲストも許可（userID nil）。
// 価格・商品名はクライアント入力を使わず、トランザクション内で
// 商品マスタから引き直してスナップショットする。
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID *int64, in CreateOrderInput) (CreateOrderOutput, error) {
	if len(in.Items) == 0 {
		return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 1 {
			return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid cart item")
		}
	}

	var out CreateOrderOutput
	var intentID string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// スナップショットと合計の計算
		now := time.Now()
		items := make([]model.OrderItem, 0, len(in.Items))
		var total float64 = 0

		for _, it := range in.Items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			image := ""
			if len(p.Images) > 0 {
				image = p.Images[0].URL
			}

			items = append(items, model.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  it.Quantity,
				Image:     image,
				CreatedAt: now,
			})

			total += p.Price * float64(it.Quantity)
		}

		// 注文作成（pending）
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:        userID,
			CustomerName:  in.CustomerName,
			CustomerEmail: in.CustomerEmail,
			TotalAmount:   total,
			Status:        model.OrderStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "error creating order")
		}

		// 明細一括作成。どれか失敗したら注文ごとロールバック。
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "error creating order")
		}

		// intent の metadata が相関の正。order id を必ず載せる。
		meta := map[string]string{
			"orderId": strconv.FormatInt(orderID, 10),
			"userId":  "guest",
		}
		if userID != nil {
			meta["userId"] = strconv.FormatInt(*userID, 10)
		}

		intent, err := u.gateway.CreateIntent(ctx, MinorUnits(total), "usd", meta)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "error creating order")
		}

		intentID = intent.ID
		out = CreateOrderOutput{
			OrderID:      orderID,
			ClientSecret: intent.ClientSecret,
			Total:        total,
		}
		return nil
	})
	if err != nil {
		return CreateOrderOutput{}, err
	}

	// intent ID 列は後書きのキャッシュ。失敗してもログだけで通す。
	// webhook 側は metadata から引けるので相関は壊れない。
	if err := u.orders.UpdatePaymentIntentID(ctx, out.OrderID, intentID); err != nil {
		logger.FromCtx(ctx).Warn("failed to persist payment intent id",
			zap.Int64("order_id", out.OrderID),
			zap.String("payment_intent_id", intentID),
			zap.Error(err),
		)
	}

	return out, nil
}

// ListMyOrders は自分の注文だけを返す。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) (OrderListResponse, error) {
	if userID <= 0 {
		return OrderListResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return OrderListResponse{}, NewHTTPError(http.StatusInternalServerError, "error fetching orders")
	}

	return OrderListResponse{
		Success: true,
		Count:   len(orders),
		Orders:  orders,
	}, nil
}

// GetOrder は所有者チェック付きの注文詳細。
// 他人の注文は「存在しない扱い」にする。ゲスト注文（user_id なし）は
// 注文IDだけが手掛かりなので ID で取得できる。
func (u *OrderUsecase) GetOrder(ctx context.Context, requesterID *int64, orderID int64) (OrderDetailResponse, error) {
	if orderID <= 0 {
		return OrderDetailResponse{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderDetailResponse{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "error fetching order")
	}

	if o.UserID != nil {
		if requesterID == nil || *requesterID != *o.UserID {
			return OrderDetailResponse{}, NewHTTPError(http.StatusNotFound, "order not found")
		}
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "error fetching order")
	}

	return OrderDetailResponse{Order: o, Items: items}, nil
}
