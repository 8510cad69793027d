package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/service"
	"github.com/meritrix/meritrix-backend/pkg/storage"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

var errInvalidID = errors.New("invalid id")

// statusFor servis hatalarını HTTP durum koduna çevirir
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrUserBlocked),
		errors.Is(err, service.ErrNoActivePass),
		errors.Is(err, service.ErrCreditsExhausted),
		errors.Is(err, service.ErrWorksheetLocked):
		return fiber.StatusForbidden

	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrSessionUnavailable),
		errors.Is(err, service.ErrPassUnavailable):
		return fiber.StatusNotFound

	case errors.Is(err, service.ErrSessionFull),
		errors.Is(err, service.ErrAlreadyBooked),
		errors.Is(err, service.ErrActivePassExists),
		errors.Is(err, service.ErrAlreadyPurchased),
		errors.Is(err, service.ErrInvalidStateTransition),
		errors.Is(err, service.ErrSessionHasBookings),
		errors.Is(err, service.ErrCapacityBelowBookings),
		errors.Is(err, service.ErrIdentifierTaken),
		errors.Is(err, service.ErrAlreadyExists):
		return fiber.StatusConflict

	case errors.Is(err, service.ErrPaymentVerificationFailed),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrTermsNotAccepted),
		errors.Is(err, service.ErrMeetingLinkRequired),
		errors.Is(err, service.ErrCaptchaFailed),
		errors.Is(err, errInvalidID):
		return fiber.StatusBadRequest

	case errors.Is(err, service.ErrGatewayUnavailable),
		errors.Is(err, storage.ErrNotConfigured):
		return fiber.StatusServiceUnavailable

	default:
		return fiber.StatusInternalServerError
	}
}

// respondError beklenmeyen hatalar loglanır, istemciye genel mesaj döner
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(models.ErrorResponse("Internal server error"))
	}
	return c.Status(status).JSON(models.ErrorResponse(err.Error()))
}

// bind body'yi ayrıştırır ve doğrular; hata ErrInvalidInput sarar
func bind(c *fiber.Ctx, v *utils.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: invalid request body", service.ErrInvalidInput)
	}
	if err := v.Struct(out); err != nil {
		return fmt.Errorf("%w: %s", service.ErrInvalidInput, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field() + " failed on the '" + fe.Tag() + "' rule"
	}
	return err.Error()
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}
