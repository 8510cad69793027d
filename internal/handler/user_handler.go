package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/middleware"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type UserService interface {
	Search(ctx context.Context, query string) ([]models.User, error)
	SetBlocked(ctx context.Context, actorID, userID uint, blocked bool) error
	Delete(ctx context.Context, actorID, userID uint) error
	ResetPassword(ctx context.Context, userID uint, newPassword string) error
}

// UserHandler admin kullanıcı yönetimi
type UserHandler struct {
	userService UserService
	validator   *utils.Validator
	logger      *zap.Logger
}

func NewUserHandler(userService UserService, validator *utils.Validator, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
		logger:      logger,
	}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(users, ""))
}

func (h *UserHandler) SetBlocked(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.BlockUserRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.userService.SetBlocked(c.UserContext(), middleware.CurrentUserID(c), id, req.IsBlocked); err != nil {
		return respondError(c, h.logger, err)
	}
	message := "User unblocked"
	if req.IsBlocked {
		message = "User blocked"
	}
	return c.JSON(models.SuccessResponse(nil, message))
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.ResetPasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.userService.ResetPassword(c.UserContext(), id, req.NewPassword); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Password reset successfully"))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.userService.Delete(c.UserContext(), middleware.CurrentUserID(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(nil, "User deleted"))
}
