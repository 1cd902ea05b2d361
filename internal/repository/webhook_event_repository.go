package repository

import "context"

type WebhookEventRepository interface {
	// event_id を台帳に記録する。初見なら true、既出なら false。
	MarkProcessed(ctx context.Context, eventID string, eventType string, orderID int64) (bool, error)
}
