package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Leganyst/parking-platform/internal/db/dbtest"
	"github.com/Leganyst/parking-platform/internal/model"
)

// seedLocation создаёт локацию со стандартной раскладкой мест.
func seedLocation(t *testing.T, gdb *gorm.DB) (*Store, *model.Location) {
	t.Helper()
	ctx := context.Background()

	store := NewStore(gdb)
	loc, err := store.Locations.EnsureByName(ctx, DefaultLocationName, DefaultLocationCity)
	require.NoError(t, err)

	n, err := store.Slots.SeedDefaultLayout(ctx, loc.ID)
	require.NoError(t, err)
	require.Equal(t, 20, n)
	return store, loc
}

func newTestStore(t *testing.T) (*Store, *model.Location, *gorm.DB) {
	t.Helper()
	gdb := dbtest.Open(t)
	store, loc := seedLocation(t, gdb)
	return store, loc, gdb
}

// occupyAll занимает все места класса.
func occupyAll(t *testing.T, gdb *gorm.DB, locationID int64, class model.SizeClass) {
	t.Helper()
	err := gdb.Model(&model.Slot{}).
		Where("location_id = ? AND size_class = ?", locationID, class).
		Updates(map[string]any{"occupied": true, "available": false}).Error
	require.NoError(t, err)
}
