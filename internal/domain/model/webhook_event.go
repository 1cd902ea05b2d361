package model

import "time"

// 処理済み webhook イベントの台帳。event_id の一意制約で
// at-least-once 配送の重複を弾く。
type WebhookEvent struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"event_id"`
	Type        string    `gorm:"type:varchar(100);not null" json:"type"`
	OrderID     int64     `gorm:"index" json:"order_id"`
	ProcessedAt time.Time `gorm:"not null;autoCreateTime" json:"processed_at"`
}
