package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/service"
	"github.com/meritrix/meritrix-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrUnauthorized, fiber.StatusUnauthorized},
		{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{service.ErrUserBlocked, fiber.StatusForbidden},
		{service.ErrNoActivePass, fiber.StatusForbidden},
		{service.ErrCreditsExhausted, fiber.StatusForbidden},
		{service.ErrWorksheetLocked, fiber.StatusForbidden},
		{service.ErrNotFound, fiber.StatusNotFound},
		{service.ErrSessionUnavailable, fiber.StatusNotFound},
		{service.ErrSessionFull, fiber.StatusConflict},
		{service.ErrAlreadyBooked, fiber.StatusConflict},
		{service.ErrActivePassExists, fiber.StatusConflict},
		{service.ErrInvalidStateTransition, fiber.StatusConflict},
		{fmt.Errorf("%w: 3 active bookings", service.ErrCapacityBelowBookings), fiber.StatusConflict},
		{service.ErrPaymentVerificationFailed, fiber.StatusBadRequest},
		{service.ErrTermsNotAccepted, fiber.StatusBadRequest},
		{fmt.Errorf("%w: slug", service.ErrInvalidInput), fiber.StatusBadRequest},
		{errInvalidID, fiber.StatusBadRequest},
		{service.ErrGatewayUnavailable, fiber.StatusServiceUnavailable},
		{storage.ErrNotConfigured, fiber.StatusServiceUnavailable},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
