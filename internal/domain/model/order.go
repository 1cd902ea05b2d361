package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// 注文。作成後は webhook によるステータス更新のみで、削除はしない。
// UserID が nil ならゲスト注文。
type Order struct {
	ID            int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        *int64      `gorm:"index" json:"user_id"`
	CustomerName  string      `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail string      `gorm:"type:varchar(255)" json:"customer_email"`
	TotalAmount   float64     `gorm:"column:total_amount;not null" json:"total_amount"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// Stripe の payment intent ID。正は intent 側の metadata で、
	// この列は後から埋まる可能性のあるキャッシュ扱い。
	StripePaymentIntentID *string `gorm:"column:stripe_payment_intent_id;type:varchar(255);index" json:"stripe_payment_intent_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
