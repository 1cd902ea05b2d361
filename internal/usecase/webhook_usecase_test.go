package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"godent-be/internal/domain/model"
	"godent-be/internal/payment"
	repo "godent-be/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type VerifierMock struct{ mock.Mock }

func (m *VerifierMock) VerifyEvent(payload []byte, sigHeader string) (payment.Event, error) {
	args := m.Called(payload, sigHeader)
	ev, _ := args.Get(0).(payment.Event)
	return ev, args.Error(1)
}

type WebhookEventRepoMock struct{ mock.Mock }

func (m *WebhookEventRepoMock) MarkProcessed(ctx context.Context, eventID string, eventType string, orderID int64) (bool, error) {
	args := m.Called(ctx, eventID, eventType, orderID)
	return args.Bool(0), args.Error(1)
}

func newWebhookFixture() (*WebhookUsecase, *VerifierMock, *OrderRepoMock, *WebhookEventRepoMock) {
	verifier := new(VerifierMock)
	orders := new(OrderRepoMock)
	events := new(WebhookEventRepoMock)
	return NewWebhookUsecase(verifier, orders, events), verifier, orders, events
}

// 署名が壊れていたら 400、DBには一切触らない。
func TestWebhookUsecase_InvalidSignature(t *testing.T) {
	uc, verifier, orders, events := newWebhookFixture()

	payload := []byte(`{"fake":"event"}`)
	verifier.On("VerifyEvent", payload, "bad-sig").Return(payment.Event{}, errors.New("signature mismatch"))

	err := uc.HandleEvent(context.Background(), payload, "bad-sig")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	orders.AssertNotCalled(t, "UpdateStatusIfPending", mock.Anything, mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookUsecase_SucceededEventCompletesOrder(t *testing.T) {
	uc, verifier, orders, events := newWebhookFixture()

	verifier.On("VerifyEvent", mock.Anything, "sig").Return(payment.Event{
		ID:              "evt_1",
		Type:            payment.EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
		Metadata:        map[string]string{"orderId": "42", "userId": "7"},
	}, nil)

	events.On("MarkProcessed", mock.Anything, "evt_1", payment.EventPaymentSucceeded, int64(42)).Return(true, nil)
	orders.On("UpdateStatusIfPending", mock.Anything, int64(42), model.OrderStatusCompleted).Return(true, nil)

	err := uc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err)

	orders.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestWebhookUsecase_FailedEventMarksOrderFailed(t *testing.T) {
	uc, verifier, orders, events := newWebhookFixture()

	verifier.On("VerifyEvent", mock.Anything, "sig").Return(payment.Event{
		ID:       "evt_2",
		Type:     payment.EventPaymentFailed,
		Metadata: map[string]string{"orderId": "42"},
	}, nil)

	events.On("MarkProcessed", mock.Anything, "evt_2", payment.EventPaymentFailed, int64(42)).Return(true, nil)
	orders.On("UpdateStatusIfPending", mock.Anything, int64(42), model.OrderStatusFailed).Return(true, nil)

	err := uc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err)

	orders.AssertExpectations(t)
}

// 同じイベントの再送は台帳で弾かれるが、pending 限定の
// 条件付き更新は毎回かけ直す。処理済みなら行は動かない。
func TestWebhookUsecase_DuplicateEventIsIdempotent(t *testing.T) {
	uc, verifier, orders, events := newWebhookFixture()

	verifier.On("VerifyEvent", mock.Anything, "sig").Return(payment.Event{
		ID:       "evt_1",
		Type:     payment.EventPaymentSucceeded,
		Metadata: map[string]string{"orderId": "42"},
	}, nil)

	events.On("MarkProcessed", mock.Anything, "evt_1", payment.EventPaymentSucceeded, int64(42)).Return(false, nil)
	orders.On("UpdateStatusIfPending", mock.Anything, int64(42), model.OrderStatusCompleted).Return(false, nil)

	err := uc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err)

	orders.AssertExpectations(t)
}

// 1 回目の配送でステータス更新が一時的に失敗した場合、
// 再送は台帳上は重複でも遷移をやり直して注文を救出する。
func TestWebhookUsecase_RetryAfterStatusUpdateFailureCompletesOrder(t *testing.T) {
	uc, verifier, orders, events := newWebhookFixture()

	verifier.On("VerifyEvent", mock.Anything, "sig").Return(payment.Event{
		ID:       "evt_1",
		Type:     payment.EventPaymentSucceeded,
		Metadata: map[string]string{"orderId": "42"},
	}, nil)

	// 1 回目: 台帳には載るが更新が DB 障害で失敗し 500 を返す
	events.On("MarkProcessed", mock.Anything, "evt_1", payment.EventPaymentSucceeded, int64(42)).Return(true, nil).Once()
	orders.On("UpdateStatusIfPending", mock.Anything, int64(42), model.OrderStatusCompleted).Return(false, errors.New("connection reset")).Once()

	err := uc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)

	// 2 回目（再送）: 台帳上は重複だが遷移が今度こそ成立する
	events.On("MarkProcessed", mock.Anything, "evt_1", payment.EventPaymentSucceeded, int64(42)).Return(false, nil).Once()
	orders.On("UpdateStatusIfPending", mock.Anything, int64(42), model.OrderStatusCompleted).Return(true, nil).Once()

	err = uc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err)

	orders.AssertNumberOfCalls(t, "UpdateStatusIfPending", 2)
	events.AssertExpectations(t)
}

// 既にターミナル状態なら上書きしない（遅延した failed 通知など）。
func TestWebhookUsecase_TerminalStatusNotOverwritten(t *testing.T) {
	uc, verifier, orders, events := newWebhookFixture()

	verifier.On("VerifyEvent", mock.Anything, "sig").Return(payment.Event{
		ID:       "evt_9",
		Type:     payment.EventPaymentFailed,
		Metadata: map[string]string{"orderId": "42"},
	}, nil)

	events.On("MarkProcessed", mock.Anything, "evt_9", payment.EventPaymentFailed, int64(42)).Return(true, nil)
	// completed 済みなので遷移しない
	orders.On("UpdateStatusIfPending", mock.Anything, int64(42), model.OrderStatusFailed).Return(false, nil)

	err := uc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err)

	orders.AssertExpectations(t)
}

// 関心外のイベント種別は 200 で ACK するだけ。
func TestWebhookUsecase_UnrelatedEventTypeAcked(t *testing.T) {
	uc, verifier, orders, events := newWebhookFixture()

	verifier.On("VerifyEvent", mock.Anything, "sig").Return(payment.Event{
		ID:   "evt_3",
		Type: "charge.refunded",
	}, nil)

	err := uc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err)

	orders.AssertNotCalled(t, "UpdateStatusIfPending", mock.Anything, mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// metadata に orderId が無い場合は intent ID から逆引きする。
func TestWebhookUsecase_FallbackToIntentIDLookup(t *testing.T) {
	uc, verifier, orders, events := newWebhookFixture()

	verifier.On("VerifyEvent", mock.Anything, "sig").Return(payment.Event{
		ID:              "evt_4",
		Type:            payment.EventPaymentSucceeded,
		PaymentIntentID: "pi_77",
	}, nil)

	orders.On("FindByPaymentIntentID", mock.Anything, "pi_77").Return(model.Order{ID: 77}, nil)
	events.On("MarkProcessed", mock.Anything, "evt_4", payment.EventPaymentSucceeded, int64(77)).Return(true, nil)
	orders.On("UpdateStatusIfPending", mock.Anything, int64(77), model.OrderStatusCompleted).Return(true, nil)

	err := uc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err)

	orders.AssertExpectations(t)
}

// どの注文にも紐づかないイベントは ACK して終わり。
func TestWebhookUsecase_UnresolvableOrderAcked(t *testing.T) {
	uc, verifier, orders, events := newWebhookFixture()

	verifier.On("VerifyEvent", mock.Anything, "sig").Return(payment.Event{
		ID:              "evt_5",
		Type:            payment.EventPaymentSucceeded,
		PaymentIntentID: "pi_unknown",
	}, nil)

	orders.On("FindByPaymentIntentID", mock.Anything, "pi_unknown").Return(model.Order{}, repo.ErrNotFound)

	err := uc.HandleEvent(context.Background(), []byte(`{}`), "sig")
	assert.NoError(t, err)

	events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "UpdateStatusIfPending", mock.Anything, mock.Anything, mock.Anything)
}
