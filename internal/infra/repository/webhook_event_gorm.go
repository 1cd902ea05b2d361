package repository

import (
	"context"

	"godent-be/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventGormRepository struct {
	db *gorm.DB
}

func NewWebhookEventGormRepository(db *gorm.DB) *WebhookEventGormRepository {
	return &WebhookEventGormRepository{db: db}
}

// event_id を記録する。unique 制約との競合は「既出」で、false を返す。
func (r *WebhookEventGormRepository) MarkProcessed(ctx context.Context, eventID string, eventType string, orderID int64) (bool, error) {
	ev := model.WebhookEvent{
		EventID: eventID,
		Type:    eventType,
		OrderID: orderID,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(&ev)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
