package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/parking"
	"github.com/Leganyst/parking-platform/internal/repository"
)

type UsageReport struct {
	From                 time.Time
	To                   time.Time
	TotalBookings        int
	AverageDurationHours float64
	PeakHour             int // -1, если броней нет
	TotalRevenue         float64
}

type LocationReport struct {
	LocationID          int64
	LocationName        string
	TotalSlots          int64
	AvailableSlots      int64
	OccupiedSlots       int64
	ActiveBookings      []model.Booking
	TotalActiveBookings int
	TotalRevenue        float64
}

// ReportService считает отчёты по истории броней.
type ReportService struct {
	store  *repository.Store
	zone   *time.Location
	tracer trace.Tracer
}

func NewReportService(store *repository.Store, opts ...Option) *ReportService {
	o := options{
		reportZone: time.UTC,
		tracer:     otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.reportZone == nil {
		o.reportZone = time.UTC
	}
	return &ReportService{store: store, zone: o.reportZone, tracer: o.tracer}
}

// Location возвращает часовой пояс отчётов.
func (s *ReportService) Location() *time.Location {
	return s.zone
}

// Usage агрегирует брони с въездом с полуночи from до конца дня to.
func (s *ReportService) Usage(ctx context.Context, from, to time.Time) (*UsageReport, error) {
	ctx, span := s.tracer.Start(ctx, "report.usage")
	defer span.End()

	tr, err := parking.DayRange(from, to, s.zone)
	if err != nil {
		return nil, err
	}

	bookings, err := s.store.Bookings.ListByEntryRange(ctx, tr.Start, tr.End)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("usage report: %w", err)
	}

	rep := aggregateUsage(bookings, s.zone)
	rep.From = tr.Start
	rep.To = tr.End.AddDate(0, 0, -1)
	span.SetAttributes(
		attribute.Int("report.bookings", rep.TotalBookings),
		attribute.Int("report.peak_hour", rep.PeakHour),
	)
	return rep, nil
}

func aggregateUsage(bookings []model.Booking, zone *time.Location) *UsageReport {
	rep := &UsageReport{TotalBookings: len(bookings), PeakHour: -1}

	var (
		byHour    [24]int
		totalDur  time.Duration
		withExits int
	)
	for _, b := range bookings {
		byHour[b.EntryTime.In(zone).Hour()]++

		if b.ExitTime != nil {
			totalDur += b.ExitTime.Sub(b.EntryTime)
			withExits++
		}
		if b.Status == model.BookingStatusCompleted && b.TotalAmount != nil {
			rep.TotalRevenue += *b.TotalAmount
		}
	}

	if withExits > 0 {
		rep.AverageDurationHours = totalDur.Hours() / float64(withExits)
	}

	// при равенстве побеждает более ранний час
	best := 0
	for h, n := range byHour {
		if n > best {
			best = n
			rep.PeakHour = h
		}
	}
	return rep
}

// ByLocation строит живой срез по локации: места, активные брони, выручка.
func (s *ReportService) ByLocation(ctx context.Context, locationID int64) (*LocationReport, error) {
	ctx, span := s.tracer.Start(ctx, "report.location",
		trace.WithAttributes(attribute.Int64("location.id", locationID)))
	defer span.End()

	if locationID <= 0 {
		return nil, parking.Validationf("location id must be positive")
	}

	loc, err := s.store.Locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	counts, err := s.store.Slots.CountByOccupancy(ctx, locationID)
	if err != nil {
		return nil, err
	}
	active, err := s.store.Bookings.ListActiveByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	revenue, err := s.store.Bookings.RevenueByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	return &LocationReport{
		LocationID:          loc.ID,
		LocationName:        loc.Name,
		TotalSlots:          counts.Total,
		AvailableSlots:      counts.Available,
		OccupiedSlots:       counts.Occupied,
		ActiveBookings:      active,
		TotalActiveBookings: len(active),
		TotalRevenue:        revenue,
	}, nil
}
