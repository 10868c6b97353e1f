// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/username/alarm-api/internal/config"
	"github.com/username/alarm-api/internal/database"
)

// OpenDB opens a private in-memory sqlite database with every table migrated.
// Each call gets its own database, so tests do not see each other's rows.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	return open(t, fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString()))
}

// OpenFileDB opens a migrated sqlite file in a temp dir. Use it when goroutines
// write concurrently; the busy timeout makes writers wait for the lock.
func OpenFileDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	return open(t, "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
}

func open(t testing.TB, url string) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, URL: url}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open sqlite DB: %v", err)
	}
	if err := database.Migrate(db, cfg, zap.NewNop()); err != nil {
		t.Fatalf("automigrate failed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
