package parking

import (
	"errors"
	"fmt"
)

// Ошибки ядра парковки. Транспортные слои сопоставляют их через errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrAlreadyParked    = errors.New("vehicle is already parked")
	ErrNoAvailableSlot  = errors.New("no available slot")
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNoActiveBooking  = errors.New("no active booking for vehicle")
	ErrNotActive        = errors.New("booking is not active")
	ErrLocationNotFound = errors.New("location not found")
	ErrConsistency      = errors.New("consistency violation")
)

// ConsistencyError сообщает, что операция не смогла восстановить состояние
// хранилища после сбоя.
type ConsistencyError struct {
	Op    string
	Cause error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrConsistency, e.Cause)
}

func (e *ConsistencyError) Unwrap() []error {
	return []error{ErrConsistency, e.Cause}
}

// Validationf оборачивает ErrValidation с пояснением.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
