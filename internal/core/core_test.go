package core

import (
	"path/filepath"
	"testing"

	"github.com/Anniina-55/backend-Hobby-Session-Planner/internal/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// single connection keeps concurrent test writes from tripping
	// SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func intPtr(n int) *int {
	return &n
}

func createSession(t *testing.T, r *Registry, visibility string, max *int) *Created {
	t.Helper()
	created, err := r.Create(CreateInput{
		Title:           "Demo",
		Date:            "2025-01-01",
		Time:            "10:00",
		Location:        "Room A",
		MaxParticipants: max,
		Visibility:      visibility,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return created
}
