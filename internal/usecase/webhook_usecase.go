package usecase

import (
	"context"
	"net/http"
	"strconv"

	"godent-be/internal/domain/model"
	"godent-be/internal/logger"
	"godent-be/internal/payment"
	repo "godent-be/internal/repository"

	"go.uber.org/zap"
)

// WebhookUsecase は決済ゲートウェイからのイベントを受けて
// 注文ステータスを遷移させる。再送・重複・順序前後はすべて
// ここで吸収し、ハンドラは 2xx / 400 を返すだけにする。
type WebhookUsecase struct {
	verifier payment.Verifier
	orders   repo.OrderRepository
	events   repo.WebhookEventRepository
}

func NewWebhookUsecase(verifier payment.Verifier, orders repo.OrderRepository, events repo.WebhookEventRepository) *WebhookUsecase {
	return &WebhookUsecase{
		verifier: verifier,
		orders:   orders,
		events:   events,
	}
}

// HandleEvent は署名検証に通ったイベントだけを処理する。
// イベントIDで重複排除し、pending の注文だけを遷移させるので
// 同じ通知が何度来ても結果は変わらない。
func (u *WebhookUsecase) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	ev, err := u.verifier.VerifyEvent(payload, sigHeader)
	if err != nil {
		// 検証失敗は一切状態を触らない
		return NewHTTPError(http.StatusBadRequest, "invalid signature")
	}

	log := logger.FromCtx(ctx).With(
		zap.String("event_id", ev.ID),
		zap.String("event_type", ev.Type),
	)

	var status model.OrderStatus
	switch ev.Type {
	case payment.EventPaymentSucceeded:
		status = model.OrderStatusCompleted
	case payment.EventPaymentFailed:
		status = model.OrderStatusFailed
	default:
		// 関心外のイベントは ACK して再送を止める
		log.Debug("ignoring webhook event")
		return nil
	}

	orderID, err := u.resolveOrderID(ctx, ev)
	if err != nil {
		return err
	}
	if orderID == 0 {
		// 注文に紐づかないイベント。再送されても結果は同じなので ACK。
		log.Warn("webhook event has no resolvable order")
		return nil
	}

	fresh, err := u.events.MarkProcessed(ctx, ev.ID, ev.Type, orderID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "error processing webhook")
	}
	if !fresh {
		// 再送。台帳には載っているが、前回は遷移前に失敗して
		// いるかもしれないので、条件付き更新は毎回かける。
		// pending のときしか書かないので何度実行しても同じ。
		log.Info("duplicate webhook event", zap.Int64("order_id", orderID))
	}

	updated, err := u.orders.UpdateStatusIfPending(ctx, orderID, status)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "error processing webhook")
	}
	if !updated {
		// 既に確定済み。上書きはしない。
		log.Info("order already in terminal status", zap.Int64("order_id", orderID))
		return nil
	}

	log.Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", string(status)),
	)
	return nil
}

// resolveOrderID は metadata の orderId を第一候補に、
// 無ければ intent ID 列から逆引きする。
func (u *WebhookUsecase) resolveOrderID(ctx context.Context, ev payment.Event) (int64, error) {
	if raw, ok := ev.Metadata["orderId"]; ok && raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && id > 0 {
			return id, nil
		}
	}

	if ev.PaymentIntentID == "" {
		return 0, nil
	}

	o, err := u.orders.FindByPaymentIntentID(ctx, ev.PaymentIntentID)
	if err == repo.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "error processing webhook")
	}
	return o.ID, nil
}
