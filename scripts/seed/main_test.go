package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/habitgarden/internal/db"
	"github.com/habitgarden/internal/service"
	"gorm.io/gorm/logger"
)

func TestSeedGoalsBuildsStreaks(t *testing.T) {
	gdb, err := db.Open(filepath.Join(t.TempDir(), "seed.db"), logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	user, err := createTestUser(gdb, "admin", "admin123")
	if err != nil {
		t.Fatalf("createTestUser returned error: %v", err)
	}

	now := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	summary, err := seedGoals(context.Background(), gdb, user.ID, now)
	if err != nil {
		t.Fatalf("seedGoals returned error: %v", err)
	}
	if summary.goals != 2 || summary.items != 8 || summary.toggles != 20 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var items []db.Item
	if err := gdb.Order("id ASC").Find(&items).Error; err != nil {
		t.Fatalf("failed to list items: %v", err)
	}

	want := map[string]int{
		"晨跑 3 公里":  3, // 6,5,4 断开后 2,1,0 重新累计
		"23 点前睡觉":  3,
		"体重记录":    4,
		"年度体检":    0,
		"阅读 30 分钟": 0, // 最后一次在 8 天前，已中断
		"月度复盘":    3,
		"读完一本书":   1,
		"年度总结":    0,
	}
	for _, item := range items {
		status := service.EvaluateItem(item, now)
		if got := status.EffectiveStreak; got != want[item.Name] {
			t.Fatalf("%s: expected effective streak %d, got %d", item.Name, want[item.Name], got)
		}
	}

	again, err := seedGoals(context.Background(), gdb, user.ID, now)
	if err != nil {
		t.Fatalf("second seedGoals returned error: %v", err)
	}
	if again != (seedSummary{}) {
		t.Fatalf("expected second run to be skipped, got %+v", again)
	}

	if existing, err := createTestUser(gdb, "admin", "other"); err != nil || existing.ID != user.ID {
		t.Fatalf("expected existing user to be reused, got %v %v", existing, err)
	}
}
