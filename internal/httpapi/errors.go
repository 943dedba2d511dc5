package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/Leganyst/parking-platform/internal/access"
	"github.com/Leganyst/parking-platform/internal/logging"
	"github.com/Leganyst/parking-platform/internal/parking"
)

// statusFor сопоставляет доменную ошибку HTTP-статусу.
func statusFor(err error) int {
	switch {
	case errors.Is(err, parking.ErrValidation),
		errors.Is(err, access.ErrInvalidUserID):
		return http.StatusBadRequest
	case errors.Is(err, access.ErrUserNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, parking.ErrAlreadyParked),
		errors.Is(err, parking.ErrNoAvailableSlot),
		errors.Is(err, parking.ErrNotActive):
		return http.StatusConflict
	case errors.Is(err, parking.ErrVehicleNotFound),
		errors.Is(err, parking.ErrBookingNotFound),
		errors.Is(err, parking.ErrNoActiveBooking),
		errors.Is(err, parking.ErrLocationNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error(ctx).Err(err).Msg("request failed")
		WriteError(ctx, w, status, "Internal server error")
		return
	}
	WriteError(ctx, w, status, err.Error())
}
