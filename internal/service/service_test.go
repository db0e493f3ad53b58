package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/habitgarden/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(filepath.Join(t.TempDir(), "service.db"), logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return gdb
}

func mustCreateGoal(t *testing.T, gdb *gorm.DB, userID uint, name string) *db.Goal {
	t.Helper()
	goal, err := NewGoalService(gdb).Create(GoalInput{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}
	return goal
}

func mustCreateItem(t *testing.T, gdb *gorm.DB, goalID uint, name, cadenceName string) *db.Item {
	t.Helper()
	item, err := NewItemService(gdb).Create(goalID, ItemInput{Name: name, Cadence: cadenceName})
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	return item
}

func day(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}
