package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/middleware"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type BookingService interface {
	BookSession(ctx context.Context, userID, sessionID uint) (*models.BookingResult, error)
	ListBookableSessions(ctx context.Context, category string, upcomingOnly bool) ([]models.BookableSession, error)
	MyBookings(ctx context.Context, userID uint) ([]models.LiveBooking, error)
	BookingQRCode(ctx context.Context, userID, bookingID uint) ([]byte, error)
}

type BookingHandler struct {
	bookingService BookingService
	validator      *utils.Validator
	logger         *zap.Logger
}

func NewBookingHandler(bookingService BookingService, validator *utils.Validator, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      validator,
		logger:         logger,
	}
}

// VedicSessions pass ile rezerve edilebilen yaklaşan oturumlar
func (h *BookingHandler) VedicSessions(c *fiber.Ctx) error {
	sessions, err := h.bookingService.ListBookableSessions(c.UserContext(), models.SessionCategoryVedic, true)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(sessions, ""))
}

// ListSessions ?category=general&upcoming=false
func (h *BookingHandler) ListSessions(c *fiber.Ctx) error {
	category := c.Query("category")
	upcoming := c.QueryBool("upcoming", true)
	sessions, err := h.bookingService.ListBookableSessions(c.UserContext(), category, upcoming)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(sessions, ""))
}

func (h *BookingHandler) Book(c *fiber.Ctx) error {
	var req models.BookSessionRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.bookingService.BookSession(c.UserContext(), middleware.CurrentUserID(c), req.LiveSessionID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(result, "Session booked"))
}

func (h *BookingHandler) MyBookings(c *fiber.Ctx) error {
	bookings, err := h.bookingService.MyBookings(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(bookings, ""))
}

func (h *BookingHandler) QRCode(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	png, err := h.bookingService.BookingQRCode(c.UserContext(), middleware.CurrentUserID(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
