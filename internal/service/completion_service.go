package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/habitgarden/internal/cadence"
	"github.com/habitgarden/internal/db"
	"github.com/habitgarden/internal/lock"
	"gorm.io/gorm"
)

// ErrItemConflict 在写入时发现习惯已被其他请求修改时返回
var ErrItemConflict = errors.New("item modified concurrently")

// CompletionService 是唯一修改完成状态与连续计数的写路径。
// 同一习惯的写入先经 Locker 串行化，再以 version 做比较交换。
type CompletionService struct {
	db     *gorm.DB
	locker lock.Locker
}

// ToggleResult 描述一次切换后的状态
type ToggleResult struct {
	Item      db.Item
	Completed bool
	// Counted 为 true 表示本次完成让连续计数前进或重置
	Counted bool
	Period  cadence.Period
}

// NewCompletionService 构造 CompletionService，locker 为空时使用进程内锁
func NewCompletionService(gdb *gorm.DB, locker lock.Locker) *CompletionService {
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}
	return &CompletionService{db: gdb, locker: locker}
}

// Toggle 切换习惯在 now 所属周期内的完成状态。
//
// 当前周期未完成时：标记完成、记录完成时间，并按 cadence.NextStreak 更新计数，
// 同时写入当天的打卡记录，完成前的计数与完成时间另存一份；
// 已完成时：清除完成标记、删除对应打卡，并把计数与最后完成时间恢复为完成前的值，
// 因此撤销的周期不会延续连续记录，同一周期内反复切换也不会重复累加。
func (s *CompletionService) Toggle(ctx context.Context, itemID uint, now time.Time) (*ToggleResult, error) {
	unlock, err := s.locker.Lock(ctx, fmt.Sprintf("item:%d", itemID))
	if err != nil {
		return nil, fmt.Errorf("lock item: %w", err)
	}
	defer unlock()

	var result ToggleResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item db.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("get item: %w", err)
		}

		snapshot := Snapshot(item)
		done := item.IsCompleted
		if item.Recurring() {
			done = cadence.IsDoneForCurrentPeriod(snapshot, now)
			result.Period = cadence.PeriodOf(now, snapshot.Cadence)
		}

		updates := map[string]any{"version": item.Version + 1}
		if done {
			updates["is_completed"] = false
			updates["streak"] = item.PrevStreak
			updates["last_completed_at"] = item.PrevCompletedAt
			updates["prev_streak"] = 0
			updates["prev_completed_at"] = nil
			if item.LastCompletedAt != nil {
				if err := deleteItemLogOn(tx, item.ID, item.LastCompletedAt.In(now.Location()), LogSourceToggle); err != nil {
					return err
				}
			}
		} else {
			completedAt := now
			updates["is_completed"] = true
			updates["last_completed_at"] = &completedAt
			updates["prev_streak"] = item.Streak
			updates["prev_completed_at"] = item.LastCompletedAt
			if item.Recurring() {
				streak, counted := cadence.NextStreak(snapshot, now)
				updates["streak"] = streak
				result.Counted = counted
			}
			if _, err := upsertItemLog(tx, ItemLogInput{ItemID: item.ID, LogDate: now, LogTime: &completedAt, Source: LogSourceToggle}); err != nil {
				return err
			}
		}

		res := tx.Model(&db.Item{}).
			Where("id = ? AND version = ?", item.ID, item.Version).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrItemConflict
		}

		if err := tx.First(&result.Item, item.ID).Error; err != nil {
			return fmt.Errorf("reload item: %w", err)
		}
		result.Completed = !done
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
