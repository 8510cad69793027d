package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/middleware"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest, remoteIP string) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, userID uint) (*models.User, error)
}

type AuthHandler struct {
	authService AuthService
	validator   *utils.Validator
	logger      *zap.Logger
}

func NewAuthHandler(authService AuthService, validator *utils.Validator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	resp, err := h.authService.Register(c.UserContext(), req, c.IP())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(resp, "User registered successfully"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(models.SuccessResponse(resp, "Login successful"))
}

// Logout token sunucuda tutulmaz, istemci siler
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(nil, "Logged out"))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(user, ""))
}
