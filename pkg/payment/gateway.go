package payment

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("payment gateway is not configured")
	ErrInvalidEvent  = errors.New("invalid webhook event")
)

type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type Order struct {
	ID          string
	Amount      int64
	Currency    string
	ClientToken string
}

type EventType string

const (
	EventPaymentSucceeded EventType = "payment.succeeded"
	EventPaymentFailed    EventType = "payment.failed"
	EventIgnored          EventType = "ignored"
)

// WebhookEvent gateway'den gelen olayın sağlayıcıdan bağımsız hali
type WebhookEvent struct {
	ID        string
	Type      EventType
	RawType   string
	OrderID   string
	PaymentID string
}

// Gateway ödeme sağlayıcısı. Servisler bunu sadece doğrulama kaynağı olarak kullanır.
type Gateway interface {
	Name() string
	// KeyID istemci tarafı checkout için açık anahtar
	KeyID() string
	SignatureHeader() string
	// RequiresSignature checkout doğrulaması istemciden imza bekliyor mu
	RequiresSignature() bool
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (bool, error)
	VerifyWebhookSignature(body []byte, signature string) bool
	ParseWebhookEvent(body []byte) (*WebhookEvent, error)
}
