package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type LiveSessionService interface {
	ListAll(ctx context.Context) ([]models.AdminLiveSession, error)
	Create(ctx context.Context, req models.CreateLiveSessionRequest) (*models.LiveSession, error)
	Update(ctx context.Context, id uint, req models.UpdateLiveSessionRequest) (*models.LiveSession, error)
	SetActive(ctx context.Context, id uint, active bool) (*models.LiveSession, error)
	Delete(ctx context.Context, id uint) error
}

type LiveSessionHandler struct {
	sessionService LiveSessionService
	validator      *utils.Validator
	logger         *zap.Logger
}

func NewLiveSessionHandler(sessionService LiveSessionService, validator *utils.Validator, logger *zap.Logger) *LiveSessionHandler {
	return &LiveSessionHandler{
		sessionService: sessionService,
		validator:      validator,
		logger:         logger,
	}
}

func (h *LiveSessionHandler) List(c *fiber.Ctx) error {
	sessions, err := h.sessionService.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(sessions, ""))
}

func (h *LiveSessionHandler) Create(c *fiber.Ctx) error {
	var req models.CreateLiveSessionRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	session, err := h.sessionService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(session, "Session created"))
}

func (h *LiveSessionHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.UpdateLiveSessionRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	session, err := h.sessionService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(session, "Session updated"))
}

func (h *LiveSessionHandler) SetActive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.SetActiveRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	session, err := h.sessionService.SetActive(c.UserContext(), id, req.IsActive)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(session, ""))
}

func (h *LiveSessionHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.sessionService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Session deleted"))
}
