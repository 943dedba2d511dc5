package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Leganyst/parking-platform/internal/db/dbtest"
	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	db       *gorm.DB
	store    *repository.Store
	location *model.Location
	clock    *fakeClock
	parking  *ParkingService
	reports  *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	gdb := dbtest.Open(t)
	store := repository.NewStore(gdb)

	loc, err := store.Locations.EnsureByName(ctx, repository.DefaultLocationName, repository.DefaultLocationCity)
	require.NoError(t, err)
	_, err = store.Slots.SeedDefaultLayout(ctx, loc.ID)
	require.NoError(t, err)

	clock := newFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	ps, err := NewParkingService(store, WithClock(clock.Now))
	require.NoError(t, err)

	return &fixture{
		db:       gdb,
		store:    store,
		location: loc,
		clock:    clock,
		parking:  ps,
		reports:  NewReportService(store),
	}
}

func (f *fixture) park(t *testing.T, plate, vehicleType string) *ParkResult {
	t.Helper()
	res, err := f.parking.Park(context.Background(), ParkRequest{
		LicensePlate: plate,
		VehicleType:  vehicleType,
		OwnerName:    "Owner",
		PhoneNumber:  "9000000000",
		LocationID:   f.location.ID,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) occupyAll(t *testing.T, class model.SizeClass) {
	t.Helper()
	err := f.db.Model(&model.Slot{}).
		Where("location_id = ? AND size_class = ?", f.location.ID, class).
		Updates(map[string]any{"occupied": true, "available": false}).Error
	require.NoError(t, err)
}

func (f *fixture) countActive(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Booking{}).Where("status = ?", model.BookingStatusActive).Count(&n).Error)
	return n
}

func (f *fixture) countOccupied(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Slot{}).Where("occupied = ?", true).Count(&n).Error)
	return n
}
