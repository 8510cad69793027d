package handler

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

// PDF yüklemeleri için üst sınır
const maxWorksheetPDFBytes = 20 << 20

type AdminService interface {
	Stats(ctx context.Context) (*models.AdminStats, error)

	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	CreateCoupon(ctx context.Context, req models.CouponRequest) (*models.Coupon, error)
	UpdateCoupon(ctx context.Context, id uint, req models.CouponRequest) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, id uint) error

	CreateGrade(ctx context.Context, req models.GradeRequest) (*models.Grade, error)
	UpdateGrade(ctx context.Context, id uint, req models.GradeRequest) (*models.Grade, error)
	DeleteGrade(ctx context.Context, id uint) error

	CreateSubject(ctx context.Context, req models.SubjectRequest) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id uint, req models.SubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id uint) error

	ListChapters(ctx context.Context, subjectID uint) ([]models.Chapter, error)
	CreateChapter(ctx context.Context, req models.ChapterRequest) (*models.Chapter, error)
	UpdateChapter(ctx context.Context, id uint, req models.ChapterRequest) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, id uint) error

	ListWorksheets(ctx context.Context, chapterID uint) ([]models.Worksheet, error)
	CreateWorksheet(ctx context.Context, req models.WorksheetRequest) (*models.Worksheet, error)
	UpdateWorksheet(ctx context.Context, id uint, req models.WorksheetRequest) (*models.Worksheet, error)
	DeleteWorksheet(ctx context.Context, id uint) error
	UploadWorksheetPDF(ctx context.Context, id uint, filename string, body io.Reader) (*models.Worksheet, error)
}

type AdminHandler struct {
	adminService AdminService
	validator    *utils.Validator
	logger       *zap.Logger
}

func NewAdminHandler(adminService AdminService, validator *utils.Validator, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		validator:    validator,
		logger:       logger,
	}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(stats, ""))
}

// Coupons

func (h *AdminHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.adminService.ListCoupons(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(coupons, ""))
}

func (h *AdminHandler) CreateCoupon(c *fiber.Ctx) error {
	var req models.CouponRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	coupon, err := h.adminService.CreateCoupon(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(coupon, "Coupon created"))
}

func (h *AdminHandler) UpdateCoupon(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.CouponRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	coupon, err := h.adminService.UpdateCoupon(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(coupon, "Coupon updated"))
}

func (h *AdminHandler) DeleteCoupon(c *fiber.Ctx) error {
	return h.deleteByID(c, h.adminService.DeleteCoupon, "Coupon deleted")
}

// Grades

func (h *AdminHandler) CreateGrade(c *fiber.Ctx) error {
	var req models.GradeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	grade, err := h.adminService.CreateGrade(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(grade, "Grade created"))
}

func (h *AdminHandler) UpdateGrade(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.GradeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	grade, err := h.adminService.UpdateGrade(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(grade, "Grade updated"))
}

func (h *AdminHandler) DeleteGrade(c *fiber.Ctx) error {
	return h.deleteByID(c, h.adminService.DeleteGrade, "Grade deleted")
}

// Subjects

func (h *AdminHandler) CreateSubject(c *fiber.Ctx) error {
	var req models.SubjectRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	subject, err := h.adminService.CreateSubject(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(subject, "Subject created"))
}

func (h *AdminHandler) UpdateSubject(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.SubjectRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	subject, err := h.adminService.UpdateSubject(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(subject, "Subject updated"))
}

func (h *AdminHandler) DeleteSubject(c *fiber.Ctx) error {
	return h.deleteByID(c, h.adminService.DeleteSubject, "Subject deleted")
}

// Chapters

func (h *AdminHandler) ListChapters(c *fiber.Ctx) error {
	subjectID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	chapters, err := h.adminService.ListChapters(c.UserContext(), subjectID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(chapters, ""))
}

func (h *AdminHandler) CreateChapter(c *fiber.Ctx) error {
	var req models.ChapterRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	chapter, err := h.adminService.CreateChapter(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(chapter, "Chapter created"))
}

func (h *AdminHandler) UpdateChapter(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.ChapterRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	chapter, err := h.adminService.UpdateChapter(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(chapter, "Chapter updated"))
}

func (h *AdminHandler) DeleteChapter(c *fiber.Ctx) error {
	return h.deleteByID(c, h.adminService.DeleteChapter, "Chapter deleted")
}

// Worksheets

func (h *AdminHandler) ListWorksheets(c *fiber.Ctx) error {
	chapterID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	worksheets, err := h.adminService.ListWorksheets(c.UserContext(), chapterID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(worksheets, ""))
}

func (h *AdminHandler) CreateWorksheet(c *fiber.Ctx) error {
	var req models.WorksheetRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	ws, err := h.adminService.CreateWorksheet(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(ws, "Worksheet created"))
}

func (h *AdminHandler) UpdateWorksheet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.WorksheetRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	ws, err := h.adminService.UpdateWorksheet(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(ws, "Worksheet updated"))
}

func (h *AdminHandler) DeleteWorksheet(c *fiber.Ctx) error {
	return h.deleteByID(c, h.adminService.DeleteWorksheet, "Worksheet deleted")
}

// UploadWorksheetPDF multipart "file" alanını bekler
func (h *AdminHandler) UploadWorksheetPDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("No file uploaded"))
	}
	if file.Size > maxWorksheetPDFBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(models.ErrorResponse("File is too large"))
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer src.Close()

	ws, err := h.adminService.UploadWorksheetPDF(c.UserContext(), id, file.Filename, src)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(ws, "PDF uploaded"))
}

func (h *AdminHandler) deleteByID(c *fiber.Ctx, del func(context.Context, uint) error, message string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := del(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(nil, message))
}

