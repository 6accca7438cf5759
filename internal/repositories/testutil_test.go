package repositories

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/memoria-app/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory SQLite database with the same schema
// and error translation the PostgreSQL setup uses. The pool is capped at
// one connection so the shared in-memory database survives for the whole
// test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_busy_timeout=10000",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Memorial{},
		&models.Membership{},
		&models.Reaction{},
		&models.SavedMemorial{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
