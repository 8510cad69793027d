package handler

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/service"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubPaymentService struct {
	PaymentService
	header        string
	webhookErr    error
	lastBody      []byte
	lastSignature string
}

func (s *stubPaymentService) WebhookSignatureHeader() string { return s.header }

func (s *stubPaymentService) HandleWebhook(_ context.Context, body []byte, signature string) error {
	s.lastBody = body
	s.lastSignature = signature
	return s.webhookErr
}

func (s *stubPaymentService) Health() models.PaymentsHealth {
	return models.PaymentsHealth{Configured: true, Provider: "razorpay", Missing: []string{}}
}

func TestWebhookReadsProviderSignatureHeader(t *testing.T) {
	svc := &stubPaymentService{header: "X-Razorpay-Signature"}
	h := NewPaymentHandler(svc, utils.NewValidator(), zap.NewNop())
	app := fiber.New()
	app.Post("/webhooks/razorpay", h.Webhook)

	req := httptest.NewRequest(fiber.MethodPost, "/webhooks/razorpay", bytes.NewBufferString(`{"event":"payment.captured"}`))
	req.Header.Set("X-Razorpay-Signature", "abc123")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc123", svc.lastSignature)
	assert.Equal(t, `{"event":"payment.captured"}`, string(svc.lastBody))

	svc.webhookErr = service.ErrPaymentVerificationFailed
	req = httptest.NewRequest(fiber.MethodPost, "/webhooks/razorpay", bytes.NewBufferString(`{}`))
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPaymentsHealthHandler(t *testing.T) {
	h := NewPaymentHandler(&stubPaymentService{}, utils.NewValidator(), zap.NewNop())
	app := fiber.New()
	app.Get("/health", h.Health)

	status, env := do(t, app, httptest.NewRequest(fiber.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"configured":true,"provider":"razorpay","missing":[]}`, string(env.Data))
}
