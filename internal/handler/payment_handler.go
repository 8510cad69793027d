package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/middleware"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type PaymentService interface {
	Health() models.PaymentsHealth
	WebhookSignatureHeader() string
	CreateSubjectOrder(ctx context.Context, userID uint, req models.CreateSubjectOrderRequest) (*models.CheckoutOrder, error)
	CreatePackageOrder(ctx context.Context, userID uint, req models.CreatePackageOrderRequest) (*models.CheckoutOrder, error)
	VerifySubjectPayment(ctx context.Context, userID uint, req models.VerifySubjectPaymentRequest) (*models.VerifyResult, error)
	VerifyPackagePayment(ctx context.Context, userID uint, req models.VerifyPackagePaymentRequest) (*models.VerifyResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type PaymentHandler struct {
	paymentService PaymentService
	validator      *utils.Validator
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService PaymentService, validator *utils.Validator, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validator:      validator,
		logger:         logger,
	}
}

func (h *PaymentHandler) Health(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(h.paymentService.Health(), ""))
}

func (h *PaymentHandler) CreateSubjectOrder(c *fiber.Ctx) error {
	var req models.CreateSubjectOrderRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.paymentService.CreateSubjectOrder(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(order, "Order created"))
}

func (h *PaymentHandler) CreatePackageOrder(c *fiber.Ctx) error {
	var req models.CreatePackageOrderRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.paymentService.CreatePackageOrder(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(order, "Order created"))
}

func (h *PaymentHandler) VerifySubjectPayment(c *fiber.Ctx) error {
	var req models.VerifySubjectPaymentRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.paymentService.VerifySubjectPayment(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(result, result.Message))
}

func (h *PaymentHandler) VerifyPackagePayment(c *fiber.Ctx) error {
	var req models.VerifyPackagePaymentRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.paymentService.VerifyPackagePayment(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(result, result.Message))
}

// Webhook ham gövde imza doğrulaması için olduğu gibi iletilir
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	header := h.paymentService.WebhookSignatureHeader()
	signature := ""
	if header != "" {
		signature = c.Get(header)
	}

	body := append([]byte(nil), c.Body()...)
	if err := h.paymentService.HandleWebhook(c.UserContext(), body, signature); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"received": true})
}
