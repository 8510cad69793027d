package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/middleware"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type ContentService interface {
	ListGrades(ctx context.Context) ([]models.Grade, error)
	ListSubjects(ctx context.Context, gradeID uint) ([]models.Subject, error)
	ListActivePackages(ctx context.Context) ([]models.Package, error)
	SubjectTree(ctx context.Context, userID, subjectID uint) (*models.SubjectTree, error)
	SetCompletion(ctx context.Context, userID uint, req models.SetCompletionRequest) error
	Dashboard(ctx context.Context, userID uint) (*models.Dashboard, error)
	Offerings(ctx context.Context) ([]models.Offering, error)
}

type ContentHandler struct {
	contentService ContentService
	validator      *utils.Validator
	logger         *zap.Logger
}

func NewContentHandler(contentService ContentService, validator *utils.Validator, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		validator:      validator,
		logger:         logger,
	}
}

func (h *ContentHandler) Grades(c *fiber.Ctx) error {
	grades, err := h.contentService.ListGrades(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(grades, ""))
}

// Subjects ?grade_id ile filtrelenebilir
func (h *ContentHandler) Subjects(c *fiber.Ctx) error {
	gradeID := c.QueryInt("grade_id", 0)
	if gradeID < 0 {
		return respondError(c, h.logger, errInvalidID)
	}
	subjects, err := h.contentService.ListSubjects(c.UserContext(), uint(gradeID))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(subjects, ""))
}

func (h *ContentHandler) SubjectTree(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	tree, err := h.contentService.SubjectTree(c.UserContext(), middleware.CurrentUserID(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(tree, ""))
}

func (h *ContentHandler) SetCompletion(c *fiber.Ctx) error {
	var req models.SetCompletionRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.contentService.SetCompletion(c.UserContext(), middleware.CurrentUserID(c), req); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(fiber.Map{"ok": true}, ""))
}

func (h *ContentHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.contentService.Dashboard(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(dashboard, ""))
}

func (h *ContentHandler) Offerings(c *fiber.Ctx) error {
	offerings, err := h.contentService.Offerings(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(offerings, ""))
}

func (h *ContentHandler) Packages(c *fiber.Ctx) error {
	packages, err := h.contentService.ListActivePackages(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(packages, "Packages retrieved successfully"))
}
