package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/service"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPassService struct {
	PassService
	order      *models.CheckoutOrder
	orderErr   error
	verify     *models.VerifyResult
	verifyErr  error
	status     *models.PassStatus
	product    *models.PassProduct
	lastUserID uint
	lastType   models.PassType
	lastOrder  models.CreatePassOrderRequest
	lastVerify models.VerifyPaymentRequest
}

func (s *stubPassService) CreateOrder(_ context.Context, userID uint, passType models.PassType, req models.CreatePassOrderRequest) (*models.CheckoutOrder, error) {
	s.lastUserID = userID
	s.lastType = passType
	s.lastOrder = req
	return s.order, s.orderErr
}

func (s *stubPassService) VerifyPayment(_ context.Context, userID uint, req models.VerifyPaymentRequest) (*models.VerifyResult, error) {
	s.lastUserID = userID
	s.lastVerify = req
	return s.verify, s.verifyErr
}

func (s *stubPassService) Status(_ context.Context, userID uint, passType models.PassType) (*models.PassStatus, error) {
	s.lastUserID = userID
	s.lastType = passType
	return s.status, nil
}

func (s *stubPassService) Product(_ context.Context, passType models.PassType) (*models.PassProduct, error) {
	s.lastType = passType
	return s.product, nil
}

func newPassApp(svc *stubPassService) *fiber.App {
	h := NewPassHandler(svc, utils.NewValidator(), zap.NewNop())
	app := newTestApp(7, models.RoleStudent)
	app.Get("/product", h.Product)
	app.Get("/status", h.Status)
	app.Post("/create-order", h.CreateOrder)
	app.Post("/verify", h.Verify)
	return app
}

func TestPassCreateOrderHandler(t *testing.T) {
	svc := &stubPassService{order: &models.CheckoutOrder{Provider: "razorpay", OrderID: "order_1", Amount: 199900, Currency: "INR"}}
	app := newPassApp(svc)

	status, env := do(t, app, jsonRequest(t, fiber.MethodPost, "/create-order", map[string]any{"terms_accepted": true}))
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, svc.lastOrder.TermsAccepted)
	assert.Equal(t, models.PassTypeVedicMaths, svc.lastType)
	assert.Equal(t, uint(7), svc.lastUserID)

	var order models.CheckoutOrder
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "order_1", order.OrderID)

	svc.orderErr = service.ErrGatewayUnavailable
	status, _ = do(t, app, jsonRequest(t, fiber.MethodPost, "/create-order", map[string]any{"terms_accepted": true}))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	svc.orderErr = service.ErrActivePassExists
	status, _ = do(t, app, jsonRequest(t, fiber.MethodPost, "/create-order", map[string]any{"terms_accepted": true}))
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestPassVerifyHandler(t *testing.T) {
	svc := &stubPassService{verify: &models.VerifyResult{OK: true, Message: "Pass activated."}}
	app := newPassApp(svc)
	body := map[string]any{"order_id": "order_1", "payment_id": "pay_1", "signature": "sig"}

	status, env := do(t, app, jsonRequest(t, fiber.MethodPost, "/verify", body))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Pass activated.", env.Message)
	assert.Equal(t, "pay_1", svc.lastVerify.PaymentID)

	svc.verifyErr = service.ErrPaymentVerificationFailed
	status, env = do(t, app, jsonRequest(t, fiber.MethodPost, "/verify", body))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, service.ErrPaymentVerificationFailed.Error(), env.Error)

	status, _ = do(t, app, jsonRequest(t, fiber.MethodPost, "/verify", map[string]any{"order_id": "order_1"}))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestPassStatusWithoutPass(t *testing.T) {
	app := newPassApp(&stubPassService{})

	status, env := do(t, app, httptest.NewRequest(fiber.MethodGet, "/status", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"pass":null}`, string(env.Data))

	status, env = do(t, app, httptest.NewRequest(fiber.MethodGet, "/product", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"product":null}`, string(env.Data))
}
