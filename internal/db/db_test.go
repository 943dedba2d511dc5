package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/parking-platform/internal/config"
	"github.com/Leganyst/parking-platform/internal/model"
)

func TestNewGormDB_SQLite(t *testing.T) {
	cfg := &config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "parking.db"),
	}

	gdb, err := NewGormDB(cfg)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, model.AutoMigrate(gdb))
	assert.True(t, gdb.Migrator().HasTable(&model.Booking{}))
	assert.True(t, gdb.Migrator().HasIndex(&model.Booking{}, "idx_bookings_active_vehicle"))
}

func TestNewGormDB_UnknownDriver(t *testing.T) {
	_, err := NewGormDB(&config.DBConfig{Driver: "mysql"})
	assert.Error(t, err)
}
