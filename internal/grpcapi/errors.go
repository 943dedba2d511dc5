package grpcapi

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Leganyst/parking-platform/internal/access"
	"github.com/Leganyst/parking-platform/internal/parking"
)

// toStatus сопоставляет доменную ошибку gRPC-коду.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, parking.ErrValidation),
		errors.Is(err, access.ErrInvalidUserID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, access.ErrUserNotFound):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, access.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, parking.ErrAlreadyParked):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, parking.ErrNoAvailableSlot):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, parking.ErrNotActive):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, parking.ErrVehicleNotFound),
		errors.Is(err, parking.ErrBookingNotFound),
		errors.Is(err, parking.ErrNoActiveBooking),
		errors.Is(err, parking.ErrLocationNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal error: %v", err)
	}
}
