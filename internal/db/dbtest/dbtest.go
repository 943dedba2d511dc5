// Package dbtest поднимает мигрированную in-memory sqlite для тестов.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Leganyst/parking-platform/internal/db"
	"github.com/Leganyst/parking-platform/internal/model"
)

var seq atomic.Int64

// Open возвращает отдельную базу на каждый тест.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:parking_test_%d?mode=memory&cache=shared&_foreign_keys=on", seq.Add(1))
	gdb, err := db.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}
