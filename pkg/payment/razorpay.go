package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
)

const razorpayAPI = "https://api.razorpay.com"

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	// BaseURL API kökü; "/v1" son eki kabul edilir, SDK sürümü kendisi ekler
	BaseURL string
}

type RazorpayGateway struct {
	cfg    RazorpayConfig
	client *razorpay.Client
}

func NewRazorpayGateway(cfg RazorpayConfig) *RazorpayGateway {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	base := strings.TrimSuffix(strings.TrimRight(cfg.BaseURL, "/"), "/v1")
	if base == "" {
		base = razorpayAPI
	}
	client.Order.Request.BaseURL = base
	return &RazorpayGateway{cfg: cfg, client: client}
}

func (g *RazorpayGateway) Name() string            { return "razorpay" }
func (g *RazorpayGateway) KeyID() string           { return g.cfg.KeyID }
func (g *RazorpayGateway) SignatureHeader() string { return "X-Razorpay-Signature" }
func (g *RazorpayGateway) RequiresSignature() bool { return true }

// CreateOrder SDK context desteklemez; iptal edilmiş istekte çağrı yapılmaz
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if g.cfg.KeyID == "" || g.cfg.KeySecret == "" {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Razorpay makbuz alanını 40 karakterle sınırlar
	receipt := req.Receipt
	if len(receipt) > 40 {
		receipt = receipt[:40]
	}

	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  receipt,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	order := &Order{Currency: req.Currency, Amount: req.AmountMinor}
	order.ID, _ = body["id"].(string)
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay create order: response has no order id")
	}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok && currency != "" {
		order.Currency = currency
	}
	return order, nil
}

// VerifyPayment checkout imzasını yerel olarak doğrular, ağ çağrısı yapmaz
func (g *RazorpayGateway) VerifyPayment(_ context.Context, orderID, paymentID, signature string) (bool, error) {
	if g.cfg.KeySecret == "" {
		return false, ErrNotConfigured
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return false, nil
	}
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return rzputils.VerifyPaymentSignature(params, signature, g.cfg.KeySecret), nil
}

func (g *RazorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	if g.cfg.WebhookSecret == "" || signature == "" {
		return false
	}
	return rzputils.VerifyWebhookSignature(string(body), signature, g.cfg.WebhookSecret)
}

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
	CreatedAt int64 `json:"created_at"`
}

func (g *RazorpayGateway) ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var hook razorpayWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	entity := hook.Payload.Payment.Entity
	event := &WebhookEvent{
		RawType:   hook.Event,
		OrderID:   entity.OrderID,
		PaymentID: entity.ID,
		Type:      EventIgnored,
	}
	// Razorpay payload'da olay kimliği yok, payment id + olay tipi tekrar anahtarı olur
	event.ID = fmt.Sprintf("%s:%s:%d", hook.Event, entity.ID, hook.CreatedAt)

	switch hook.Event {
	case "payment.captured", "payment.authorized":
		event.Type = EventPaymentSucceeded
	case "payment.failed":
		event.Type = EventPaymentFailed
	}
	return event, nil
}
