package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Leganyst/parking-platform/internal/logging"
	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/parking"
	"github.com/Leganyst/parking-platform/internal/repository"
)

type ParkRequest struct {
	LicensePlate string
	VehicleType  string
	OwnerName    string
	PhoneNumber  string
	LocationID   int64
	UserID       *uuid.UUID
}

type ParkResult struct {
	BookingNumber string
	SlotID        uuid.UUID
	SlotNumber    string
	SizeClass     model.SizeClass
	FellBack      bool
	EntryTime     time.Time
	HourlyRate    float64
}

type ClosedBooking struct {
	BookingNumber string
	LicensePlate  string
	SlotNumber    string
	EntryTime     time.Time
	ExitTime      time.Time
	DurationHours int64
	TotalAmount   float64
}

type VehicleStatus struct {
	Vehicle    *model.Vehicle
	IsParked   bool
	Booking    *model.Booking
	SlotNumber string
}

type parkingMetrics struct {
	parks     metric.Int64Counter
	exits     metric.Int64Counter
	fallbacks metric.Int64Counter
	occupancy metric.Int64UpDownCounter
	revenue   metric.Float64Counter
	duration  metric.Float64Histogram
}

func newParkingMetrics(meter metric.Meter) (*parkingMetrics, error) {
	parks, err := meter.Int64Counter("parking_park_operations_total",
		metric.WithDescription("Park attempts by outcome"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}
	exits, err := meter.Int64Counter("parking_exit_operations_total",
		metric.WithDescription("Booking closes by outcome"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}
	fallbacks, err := meter.Int64Counter("parking_fallback_allocations_total",
		metric.WithDescription("Allocations served by the fallback size class"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}
	occupancy, err := meter.Int64UpDownCounter("parking_occupied_slots",
		metric.WithDescription("Slots occupied through this process"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}
	revenue, err := meter.Float64Counter("parking_revenue_total",
		metric.WithDescription("Amount billed on closed bookings"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("parking_operation_duration_seconds",
		metric.WithDescription("Duration of park and close operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &parkingMetrics{
		parks:     parks,
		exits:     exits,
		fallbacks: fallbacks,
		occupancy: occupancy,
		revenue:   revenue,
		duration:  duration,
	}, nil
}

// ParkingService ведёт жизненный цикл брони: въезд, выезд, статус.
type ParkingService struct {
	store   *repository.Store
	now     func() time.Time
	rates   parking.RateCard
	tracer  trace.Tracer
	metrics *parkingMetrics
}

func NewParkingService(store *repository.Store, opts ...Option) (*ParkingService, error) {
	o := options{
		now:    time.Now,
		rates:  parking.DefaultRates(),
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.rates.Validate(); err != nil {
		return nil, err
	}

	m, err := newParkingMetrics(o.meter)
	if err != nil {
		return nil, fmt.Errorf("parking metrics: %w", err)
	}

	return &ParkingService{
		store:   store,
		now:     o.now,
		rates:   o.rates,
		tracer:  o.tracer,
		metrics: m,
	}, nil
}

func (s *ParkingService) clock() time.Time {
	return s.now().UTC()
}

func validatePark(req ParkRequest) (string, error) {
	plate, err := parking.ValidatePlate(req.LicensePlate)
	if err != nil {
		return "", err
	}
	if req.VehicleType == "" {
		return "", parking.Validationf("vehicle type is required")
	}
	if req.LocationID <= 0 {
		return "", parking.Validationf("location id must be positive")
	}
	return plate, nil
}

// Park занимает место и открывает бронь в одной транзакции.
func (s *ParkingService) Park(ctx context.Context, req ParkRequest) (*ParkResult, error) {
	ctx, span := s.tracer.Start(ctx, "parking.park",
		trace.WithAttributes(
			attribute.String("vehicle.type", req.VehicleType),
			attribute.Int64("location.id", req.LocationID),
		))
	defer span.End()
	started := time.Now()

	res, err := s.park(ctx, req)

	outcome := outcomeOf(err)
	s.metrics.parks.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	s.metrics.duration.Record(ctx, time.Since(started).Seconds(),
		metric.WithAttributes(attribute.String("operation", "park"), attribute.String("outcome", outcome)))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logging.Warn(ctx).Err(err).
			Str("plate", req.LicensePlate).
			Int64("locationId", req.LocationID).
			Msg("park rejected")
		return nil, err
	}

	s.metrics.occupancy.Add(ctx, 1, metric.WithAttributes(attribute.String("size_class", string(res.SizeClass))))
	if res.FellBack {
		s.metrics.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("size_class", string(res.SizeClass))))
	}
	span.SetAttributes(
		attribute.String("booking.number", res.BookingNumber),
		attribute.String("slot.label", res.SlotNumber),
		attribute.Bool("slot.fallback", res.FellBack),
	)
	span.SetStatus(codes.Ok, "parked")
	logging.Info(ctx).
		Str("bookingNumber", res.BookingNumber).
		Str("slot", res.SlotNumber).
		Str("sizeClass", string(res.SizeClass)).
		Bool("fallback", res.FellBack).
		Msg("booking opened")

	return res, nil
}

func (s *ParkingService) park(ctx context.Context, req ParkRequest) (*ParkResult, error) {
	plate, err := validatePark(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Locations.GetByID(ctx, req.LocationID); err != nil {
		return nil, err
	}

	vehicle, err := s.store.Vehicles.Resolve(ctx, repository.VehicleInput{
		LicensePlate: plate,
		VehicleType:  req.VehicleType,
		OwnerName:    req.OwnerName,
		PhoneNumber:  req.PhoneNumber,
		UserID:       req.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve vehicle: %w", err)
	}

	class := parking.ClassFor(req.VehicleType)
	var res *ParkResult

	err = s.store.InTx(ctx, "park", func(tx *repository.Store) error {
		if _, err := tx.Vehicles.LockByID(ctx, vehicle.ID); err != nil {
			return err
		}

		_, err := tx.Bookings.FindActiveByVehicle(ctx, vehicle.ID)
		switch {
		case err == nil:
			return parking.ErrAlreadyParked
		case !errors.Is(err, parking.ErrNoActiveBooking):
			return err
		}

		slot, fellBack, err := tx.Slots.ClaimWithFallback(ctx, req.LocationID, class)
		if err != nil {
			return err
		}

		rate, err := s.rates.Rate(slot.SizeClass)
		if err != nil {
			return err
		}

		entry := s.clock()
		number, err := parking.NewBookingNumber(entry)
		if err != nil {
			return err
		}

		booking := &model.Booking{
			BookingNumber: number,
			Status:        model.BookingStatusActive,
			PaymentStatus: model.PaymentStatusPending,
			EntryTime:     entry,
			HourlyRate:    rate,
			VehicleID:     vehicle.ID,
			SlotID:        slot.ID,
			LocationID:    req.LocationID,
		}
		if err := tx.Bookings.Create(ctx, booking); err != nil {
			return err
		}
		if err := tx.Slots.Bind(ctx, slot.ID, booking.ID); err != nil {
			return err
		}

		err = tx.Events.Append(ctx, model.EventTypeBookingOpened, booking, map[string]any{
			"licensePlate":   vehicle.LicensePlate,
			"slotNumber":     slot.Label,
			"sizeClass":      slot.SizeClass,
			"requestedClass": class,
			"fallback":       fellBack,
			"hourlyRate":     rate,
		})
		if err != nil {
			return err
		}

		res = &ParkResult{
			BookingNumber: number,
			SlotID:        slot.ID,
			SlotNumber:    slot.Label,
			SizeClass:     slot.SizeClass,
			FellBack:      fellBack,
			EntryTime:     entry,
			HourlyRate:    rate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CloseBooking закрывает бронь по номеру и освобождает место.
func (s *ParkingService) CloseBooking(ctx context.Context, bookingNumber string) (*ClosedBooking, error) {
	ctx, span := s.tracer.Start(ctx, "parking.close_booking",
		trace.WithAttributes(attribute.String("booking.number", bookingNumber)))
	defer span.End()

	return s.instrumentClose(ctx, span, func() (*ClosedBooking, error) {
		if bookingNumber == "" {
			return nil, parking.Validationf("booking number is required")
		}
		return s.closeBooking(ctx, bookingNumber)
	})
}

// Exit закрывает активную бронь машины. Номер сравнивается без учёта регистра.
func (s *ParkingService) Exit(ctx context.Context, licensePlate string) (*ClosedBooking, error) {
	ctx, span := s.tracer.Start(ctx, "parking.exit")
	defer span.End()

	return s.instrumentClose(ctx, span, func() (*ClosedBooking, error) {
		plate, err := parking.ValidatePlate(licensePlate)
		if err != nil {
			return nil, err
		}
		vehicle, err := s.store.Vehicles.FindByPlate(ctx, plate)
		if err != nil {
			return nil, err
		}
		active, err := s.store.Bookings.FindActiveByVehicle(ctx, vehicle.ID)
		if err != nil {
			return nil, err
		}
		return s.closeBooking(ctx, active.BookingNumber)
	})
}

func (s *ParkingService) instrumentClose(ctx context.Context, span trace.Span, fn func() (*ClosedBooking, error)) (*ClosedBooking, error) {
	started := time.Now()
	closed, err := fn()

	outcome := outcomeOf(err)
	s.metrics.exits.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	s.metrics.duration.Record(ctx, time.Since(started).Seconds(),
		metric.WithAttributes(attribute.String("operation", "close"), attribute.String("outcome", outcome)))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logging.Warn(ctx).Err(err).Msg("close rejected")
		return nil, err
	}

	s.metrics.occupancy.Add(ctx, -1)
	s.metrics.revenue.Add(ctx, closed.TotalAmount)
	span.SetAttributes(
		attribute.String("booking.number", closed.BookingNumber),
		attribute.Int64("booking.duration_hours", closed.DurationHours),
		attribute.Float64("booking.amount", closed.TotalAmount),
	)
	span.SetStatus(codes.Ok, "closed")
	logging.Info(ctx).
		Str("bookingNumber", closed.BookingNumber).
		Str("slot", closed.SlotNumber).
		Int64("hours", closed.DurationHours).
		Float64("amount", closed.TotalAmount).
		Msg("booking closed")
	return closed, nil
}

func (s *ParkingService) closeBooking(ctx context.Context, bookingNumber string) (*ClosedBooking, error) {
	var closed *ClosedBooking

	err := s.store.InTx(ctx, "close booking", func(tx *repository.Store) error {
		booking, err := tx.Bookings.GetByNumber(ctx, bookingNumber, true)
		if err != nil {
			return err
		}
		if !booking.IsActive() {
			return parking.ErrNotActive
		}

		exit := s.clock()
		hours, amount := parking.Bill(booking.EntryTime, exit, booking.HourlyRate)

		if err := tx.Bookings.Complete(ctx, booking.ID, exit, hours, amount); err != nil {
			return err
		}
		if err := tx.Slots.ReleaseBound(ctx, booking.SlotID, booking.ID); err != nil {
			return err
		}

		slot, err := tx.Slots.GetByID(ctx, booking.SlotID)
		if err != nil {
			return fmt.Errorf("load slot: %w", err)
		}
		vehicle, err := tx.Vehicles.GetByID(ctx, booking.VehicleID)
		if err != nil {
			return err
		}

		err = tx.Events.Append(ctx, model.EventTypeBookingClosed, booking, map[string]any{
			"slotNumber":    slot.Label,
			"exitTime":      exit,
			"durationHours": hours,
			"totalAmount":   amount,
		})
		if err != nil {
			return err
		}

		closed = &ClosedBooking{
			BookingNumber: booking.BookingNumber,
			LicensePlate:  vehicle.LicensePlate,
			SlotNumber:    slot.Label,
			EntryTime:     booking.EntryTime,
			ExitTime:      exit,
			DurationHours: hours,
			TotalAmount:   amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

// Status показывает, стоит ли машина сейчас на парковке. Ничего не меняет.
func (s *ParkingService) Status(ctx context.Context, licensePlate string) (*VehicleStatus, error) {
	ctx, span := s.tracer.Start(ctx, "parking.status")
	defer span.End()

	plate, err := parking.ValidatePlate(licensePlate)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.store.Vehicles.FindByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}

	st := &VehicleStatus{Vehicle: vehicle}
	booking, err := s.store.Bookings.FindActiveByVehicle(ctx, vehicle.ID)
	switch {
	case errors.Is(err, parking.ErrNoActiveBooking):
		return st, nil
	case err != nil:
		span.RecordError(err)
		return nil, err
	}

	slot, err := s.store.Slots.GetByID(ctx, booking.SlotID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load slot: %w", err)
	}

	st.IsParked = true
	st.Booking = booking
	st.SlotNumber = slot.Label
	return st, nil
}

// BookingEvents возвращает журнал переходов брони.
func (s *ParkingService) BookingEvents(ctx context.Context, bookingNumber string) ([]model.BookingEvent, error) {
	booking, err := s.store.Bookings.GetByNumber(ctx, bookingNumber, false)
	if err != nil {
		return nil, err
	}
	return s.store.Events.ListByBooking(ctx, booking.ID)
}

// SlotMap отдаёт места локации в порядке этаж/номер.
func (s *ParkingService) SlotMap(ctx context.Context, locationID int64) ([]model.Slot, error) {
	if _, err := s.store.Locations.GetByID(ctx, locationID); err != nil {
		return nil, err
	}
	return s.store.Slots.ListByLocation(ctx, locationID)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, parking.ErrValidation):
		return "invalid"
	case errors.Is(err, parking.ErrAlreadyParked):
		return "already_parked"
	case errors.Is(err, parking.ErrNoAvailableSlot):
		return "no_slot"
	case errors.Is(err, parking.ErrNotActive):
		return "not_active"
	case errors.Is(err, parking.ErrVehicleNotFound),
		errors.Is(err, parking.ErrBookingNotFound),
		errors.Is(err, parking.ErrNoActiveBooking),
		errors.Is(err, parking.ErrLocationNotFound):
		return "not_found"
	case errors.Is(err, parking.ErrConsistency):
		return "consistency"
	default:
		return "error"
	}
}
