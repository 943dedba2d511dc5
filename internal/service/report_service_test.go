package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/parking"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parkFor паркует машину в момент at и закрывает бронь через stay.
func (f *fixture) parkFor(t *testing.T, plate, vehicleType string, at time.Time, stay time.Duration) {
	t.Helper()
	f.clock.Set(at)
	f.park(t, plate, vehicleType)
	if stay <= 0 {
		return
	}
	f.clock.Advance(stay)
	_, err := f.parking.Exit(context.Background(), plate)
	require.NoError(t, err)
}

func TestReportService_UsageScenario(t *testing.T) {
	f := newFixture(t)

	f.parkFor(t, "BIKE01", "BIKE", time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), time.Hour)
	f.parkFor(t, "CAR01", "CAR", time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), time.Hour)
	f.parkFor(t, "SUV01", "SUV", time.Date(2025, 3, 2, 14, 0, 0, 0, time.UTC), time.Hour)

	rep, err := f.reports.Usage(context.Background(), day(2025, 3, 1), day(2025, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, 3, rep.TotalBookings)
	assert.Equal(t, 60.0, rep.TotalRevenue)
	assert.Equal(t, 9, rep.PeakHour)
	assert.InDelta(t, 1.0, rep.AverageDurationHours, 1e-9)
	assert.Equal(t, day(2025, 3, 1), rep.From)
	assert.Equal(t, day(2025, 3, 2), rep.To)
}

func TestReportService_UsageEmpty(t *testing.T) {
	f := newFixture(t)

	rep, err := f.reports.Usage(context.Background(), day(2025, 3, 1), day(2025, 3, 1))
	require.NoError(t, err)
	assert.Zero(t, rep.TotalBookings)
	assert.Zero(t, rep.AverageDurationHours)
	assert.Equal(t, -1, rep.PeakHour)
	assert.Zero(t, rep.TotalRevenue)
}

func TestReportService_UsageRangeBounds(t *testing.T) {
	f := newFixture(t)

	f.parkFor(t, "EARLY", "CAR", time.Date(2025, 2, 28, 23, 59, 0, 0, time.UTC), time.Hour)
	f.parkFor(t, "START", "CAR", day(2025, 3, 1), time.Hour)
	f.parkFor(t, "LATE", "CAR", time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC), time.Hour)
	f.parkFor(t, "NEXT", "CAR", day(2025, 3, 2), time.Hour)

	rep, err := f.reports.Usage(context.Background(), day(2025, 3, 1), day(2025, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.TotalBookings)
}

func TestReportService_UsageOpenBookingsCountButDoNotBill(t *testing.T) {
	f := newFixture(t)

	f.parkFor(t, "DONE", "CAR", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), 30*time.Minute)
	f.parkFor(t, "OPEN", "CAR", time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC), 0)

	rep, err := f.reports.Usage(context.Background(), day(2025, 3, 1), day(2025, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.TotalBookings)
	assert.Equal(t, 20.0, rep.TotalRevenue)
	// средняя — по фактическому времени, без округления до часа
	assert.InDelta(t, 0.5, rep.AverageDurationHours, 1e-9)
}

func TestReportService_PeakHourTieBreak(t *testing.T) {
	f := newFixture(t)

	f.parkFor(t, "A", "CAR", time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC), time.Hour)
	f.parkFor(t, "B", "CAR", time.Date(2025, 3, 1, 16, 0, 0, 0, time.UTC), time.Hour)
	f.parkFor(t, "C", "CAR", time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC), time.Hour)

	rep, err := f.reports.Usage(context.Background(), day(2025, 3, 1), day(2025, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 7, rep.PeakHour)
}

func TestReportService_ReportZone(t *testing.T) {
	f := newFixture(t)
	zone := time.FixedZone("UTC+5", 5*3600)
	reports := NewReportService(f.store, WithReportLocation(zone))

	// 20:00 UTC 28 февраля — это 01:00 1 марта по поясу отчёта
	f.parkFor(t, "ZONE", "CAR", time.Date(2025, 2, 28, 20, 0, 0, 0, time.UTC), time.Hour)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, zone)
	rep, err := reports.Usage(context.Background(), from, from)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.TotalBookings)
	assert.Equal(t, 1, rep.PeakHour)
}

func TestReportService_UsageValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.reports.Usage(context.Background(), day(2025, 3, 2), day(2025, 3, 1))
	assert.ErrorIs(t, err, parking.ErrValidation)
}

func TestReportService_ByLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.parkFor(t, "DONE", "SUV", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), 2*time.Hour)
	f.parkFor(t, "OPEN1", "CAR", time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC), 0)
	f.parkFor(t, "OPEN2", "BIKE", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), 0)

	rep, err := f.reports.ByLocation(ctx, f.location.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), rep.TotalSlots)
	assert.Equal(t, int64(2), rep.OccupiedSlots)
	assert.Equal(t, int64(18), rep.AvailableSlots)
	assert.Equal(t, 2, rep.TotalActiveBookings)
	require.Len(t, rep.ActiveBookings, 2)
	assert.Equal(t, "OPEN1", rep.ActiveBookings[0].Vehicle.LicensePlate)
	assert.Equal(t, model.BookingStatusActive, rep.ActiveBookings[1].Status)
	assert.Equal(t, 60.0, rep.TotalRevenue)

	_, err = f.reports.ByLocation(ctx, 77)
	assert.ErrorIs(t, err, parking.ErrLocationNotFound)
	_, err = f.reports.ByLocation(ctx, 0)
	assert.ErrorIs(t, err, parking.ErrValidation)
}
