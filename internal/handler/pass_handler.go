package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/middleware"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type PassService interface {
	CreateOrder(ctx context.Context, userID uint, passType models.PassType, req models.CreatePassOrderRequest) (*models.CheckoutOrder, error)
	VerifyPayment(ctx context.Context, userID uint, req models.VerifyPaymentRequest) (*models.VerifyResult, error)
	Status(ctx context.Context, userID uint, passType models.PassType) (*models.PassStatus, error)
	Product(ctx context.Context, passType models.PassType) (*models.PassProduct, error)
	ListProducts(ctx context.Context) ([]models.PassProduct, error)
	UpdateProduct(ctx context.Context, id uint, req models.UpdatePassProductRequest) (*models.PassProduct, error)
}

type PassHandler struct {
	passService PassService
	validator   *utils.Validator
	logger      *zap.Logger
	passType    models.PassType
}

func NewPassHandler(passService PassService, validator *utils.Validator, logger *zap.Logger) *PassHandler {
	return &PassHandler{
		passService: passService,
		validator:   validator,
		logger:      logger,
		passType:    models.PassTypeVedicMaths,
	}
}

func (h *PassHandler) Product(c *fiber.Ctx) error {
	product, err := h.passService.Product(c.UserContext(), h.passType)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(fiber.Map{"product": product}, ""))
}

func (h *PassHandler) Status(c *fiber.Ctx) error {
	status, err := h.passService.Status(c.UserContext(), middleware.CurrentUserID(c), h.passType)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(fiber.Map{"pass": status}, ""))
}

func (h *PassHandler) CreateOrder(c *fiber.Ctx) error {
	var req models.CreatePassOrderRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.passService.CreateOrder(c.UserContext(), middleware.CurrentUserID(c), h.passType, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(order, "Order created"))
}

func (h *PassHandler) Verify(c *fiber.Ctx) error {
	var req models.VerifyPaymentRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.passService.VerifyPayment(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(result, result.Message))
}

// Admin

func (h *PassHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.passService.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(products, ""))
}

func (h *PassHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.UpdatePassProductRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	product, err := h.passService.UpdateProduct(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(product, "Pass product updated"))
}
