package services

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tiansito98/calorie-vision-tracker/config"
	"github.com/tiansito98/calorie-vision-tracker/models"
)

// newTestDB opens an isolated shared-cache in-memory SQLite database named
// after the test and runs the full migration set. A single connection keeps
// concurrent test goroutines from tripping SQLITE_BUSY.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestStack wires the write path the way main does, minus the hub.
func newTestStack(t *testing.T) (*gorm.DB, *SummaryService, *Coordinator, *EntryService) {
	t.Helper()
	db := newTestDB(t)
	summaries := NewSummaryService(db)
	coordinator := NewCoordinator(db, summaries, nil, quietLogger())
	entries := NewEntryService(db, coordinator, quietLogger())
	return db, summaries, coordinator, entries
}

func seedUser(t *testing.T, db *gorm.DB, target int) *models.User {
	t.Helper()
	user := &models.User{
		Email:         fmt.Sprintf("%s@example.com", strings.ToLower(strings.ReplaceAll(t.Name(), "/", "."))),
		Password:      "x",
		DisplayName:   "Test User",
		CalorieTarget: target,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func fptr(v float64) *float64 { return &v }

func manualEntry(mealType models.MealType, date string, calories float64) CreateEntryInput {
	return CreateEntryInput{
		MealType:          mealType,
		EntryDate:         date,
		EntryTime:         "12:00",
		Description:       "test food",
		SourceType:        SourceManualEntry,
		EstimatedCalories: calories,
	}
}
