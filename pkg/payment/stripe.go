package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/webhook"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// StripeGateway sipariş olarak PaymentIntent kullanır
type StripeGateway struct {
	cfg     StripeConfig
	intents *paymentintent.Client
}

func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	return &StripeGateway{
		cfg: cfg,
		intents: &paymentintent.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: cfg.SecretKey,
		},
	}
}

func (g *StripeGateway) Name() string            { return "stripe" }
func (g *StripeGateway) KeyID() string           { return "" }
func (g *StripeGateway) SignatureHeader() string { return "Stripe-Signature" }
func (g *StripeGateway) RequiresSignature() bool { return false }

func (g *StripeGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if g.cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.AmountMinor),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Receipt),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("receipt", req.Receipt)
	for k, v := range req.Notes {
		params.AddMetadata(k, v)
	}

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return &Order{
		ID:          pi.ID,
		Amount:      pi.Amount,
		Currency:    strings.ToUpper(string(pi.Currency)),
		ClientToken: pi.ClientSecret,
	}, nil
}

// VerifyPayment PaymentIntent durumunu Stripe'tan sorgular. Stripe'ta imza yoktur.
func (g *StripeGateway) VerifyPayment(ctx context.Context, orderID, paymentID, _ string) (bool, error) {
	if g.cfg.SecretKey == "" {
		return false, ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.intents.Get(orderID, params)
	if err != nil {
		return false, fmt.Errorf("stripe get payment intent: %w", err)
	}
	if paymentID != "" && pi.LatestCharge != nil && pi.LatestCharge.ID != paymentID {
		return false, nil
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}

func (g *StripeGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	if g.cfg.WebhookSecret == "" {
		return false
	}
	return webhook.ValidatePayload(body, signature, g.cfg.WebhookSecret) == nil
}

func (g *StripeGateway) ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	result := &WebhookEvent{ID: event.ID, RawType: string(event.Type), Type: EventIgnored}
	switch event.Type {
	case "payment_intent.succeeded":
		result.Type = EventPaymentSucceeded
	case "payment_intent.payment_failed":
		result.Type = EventPaymentFailed
	default:
		return result, nil
	}

	if event.Data == nil {
		return nil, ErrInvalidEvent
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	result.OrderID = pi.ID
	if pi.LatestCharge != nil {
		result.PaymentID = pi.LatestCharge.ID
	}
	return result, nil
}
