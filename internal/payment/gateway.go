package payment

import "context"

// Intent は作成済み payment intent。Amount は最小通貨単位。
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
}

// Gateway は決済プロバイダへの同期呼び出しを抽象化する。
// usecase はこの interface にだけ依存する。
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (Intent, error)
}

// webhook で受け取るイベント種別
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Event は署名検証を通過した webhook イベント。
type Event struct {
	ID              string
	Type            string
	PaymentIntentID string
	Metadata        map[string]string
}

// Verifier は生ボディと署名ヘッダを検証して Event を返す。
// 検証に失敗したら error で、payload の中身は一切信用しない。
type Verifier interface {
	VerifyEvent(payload []byte, sigHeader string) (Event, error)
}
