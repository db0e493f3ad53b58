package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/habitgarden/internal/cadence"
	"github.com/habitgarden/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// LogSourceToggle 表示由完成开关写入的打卡
	LogSourceToggle = "toggle"
	// LogSourceManual 表示后台手动补记
	LogSourceManual = "admin_manual"
)

// ItemLogService 负责打卡与统计逻辑
type ItemLogService struct {
	db *gorm.DB
}

// HeatmapEntry 表示热力图中的单日打卡数据
type HeatmapEntry struct {
	LogDate  time.Time
	ItemID   uint
	ItemName string
	GoalID   uint
	GoalName string
}

// ItemLogInput 定义打卡时的输入对象
type ItemLogInput struct {
	ItemID  uint
	LogDate time.Time
	LogTime *time.Time
	Source  string
	Note    string
}

// ItemLogFilter 指定查询区间
type ItemLogFilter struct {
	ItemID uint
	Start  time.Time
	End    time.Time
}

// ItemStats 汇总区间内的完成情况，连续数以周期为单位
type ItemStats struct {
	RangeStart       time.Time
	RangeEnd         time.Time
	CompletedCount   int
	CompletedPeriods int
	TargetCount      int
	CompletionRate   float64
	// CurrentStreak 以 now 为准：最后一个完成周期须是当前或上一个周期，否则为 0
	CurrentStreak    int
	LongestStreak    int
}

// NewItemLogService 构造 ItemLogService
func NewItemLogService(gdb *gorm.DB) *ItemLogService {
	return &ItemLogService{db: gdb}
}

// Upsert 处理幂等打卡逻辑：若存在则更新备注/时间/来源，否则创建
func (s *ItemLogService) Upsert(input ItemLogInput) (*db.ItemLog, error) {
	return upsertItemLog(s.db, input)
}

func upsertItemLog(gdb *gorm.DB, input ItemLogInput) (*db.ItemLog, error) {
	if input.ItemID == 0 {
		return nil, fmt.Errorf("item id is required")
	}

	logDate := normalizeToDate(input.LogDate)

	record := db.ItemLog{
		ItemID:  input.ItemID,
		LogDate: logDate,
		Note:    strings.TrimSpace(input.Note),
		Source:  strings.TrimSpace(input.Source),
		LogTime: input.LogTime,
	}

	if err := gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}, {Name: "log_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"note", "source", "log_time", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert item log: %w", err)
	}

	var reloaded db.ItemLog
	if err := gdb.Where("item_id = ? AND log_date = ?", input.ItemID, logDate).First(&reloaded).Error; err != nil {
		return nil, fmt.Errorf("reload item log: %w", err)
	}

	return &reloaded, nil
}

// Delete 删除指定打卡记录；itemID 非零时要求记录属于该习惯
func (s *ItemLogService) Delete(itemID, id uint) error {
	query := s.db.Unscoped().Where("id = ?", id)
	if itemID != 0 {
		query = query.Where("item_id = ?", itemID)
	}
	if err := query.Delete(&db.ItemLog{}).Error; err != nil {
		return fmt.Errorf("delete item log: %w", err)
	}
	return nil
}

func deleteItemLogOn(gdb *gorm.DB, itemID uint, day time.Time, source string) error {
	query := gdb.Unscoped().Where("item_id = ? AND log_date = ?", itemID, normalizeToDate(day))
	if source != "" {
		query = query.Where("source = ?", source)
	}
	if err := query.Delete(&db.ItemLog{}).Error; err != nil {
		return fmt.Errorf("delete item log: %w", err)
	}
	return nil
}

// ListBetween 返回指定区间内的打卡记录
func (s *ItemLogService) ListBetween(filter ItemLogFilter) ([]db.ItemLog, error) {
	var logs []db.ItemLog

	if filter.ItemID == 0 {
		return nil, fmt.Errorf("item id is required")
	}

	start := normalizeToDate(filter.Start)
	end := normalizeToDate(filter.End)

	if err := s.db.Where("item_id = ?", filter.ItemID).
		Where("log_date BETWEEN ? AND ?", start, end).
		Order("log_date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list item logs: %w", err)
	}

	return logs, nil
}

// HeatmapRange 返回用户在指定区间内所有习惯的打卡数据
func (s *ItemLogService) HeatmapRange(userID uint, start, end time.Time) ([]HeatmapEntry, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end before start")
	}

	normalizedStart := normalizeToDate(start)
	normalizedEnd := normalizeToDate(end)

	var rows []HeatmapEntry
	if err := s.db.Model(&db.ItemLog{}).
		Select("item_logs.log_date AS log_date, item_logs.item_id AS item_id, items.name AS item_name, goals.id AS goal_id, goals.name AS goal_name").
		Joins("JOIN items ON items.id = item_logs.item_id AND items.deleted_at IS NULL").
		Joins("JOIN goals ON goals.id = items.goal_id AND goals.deleted_at IS NULL").
		Where("goals.user_id = ?", userID).
		Where("item_logs.log_date BETWEEN ? AND ?", normalizedStart, normalizedEnd).
		Order("item_logs.log_date ASC, items.name ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list heatmap logs: %w", err)
	}

	return rows, nil
}

// LogDates 返回用户在全部习惯上有过打卡的日历日期集合
func (s *ItemLogService) LogDates(userID uint) (cadence.DateSet, error) {
	var logs []db.ItemLog
	if err := s.db.Model(&db.ItemLog{}).
		Select("item_logs.log_date").
		Joins("JOIN items ON items.id = item_logs.item_id AND items.deleted_at IS NULL").
		Joins("JOIN goals ON goals.id = items.goal_id AND goals.deleted_at IS NULL").
		Where("goals.user_id = ?", userID).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list log dates: %w", err)
	}

	dates := make(cadence.DateSet, len(logs))
	for _, log := range logs {
		dates.Add(cadence.DateOf(log.LogDate))
	}
	return dates, nil
}

// LastActivity 返回目标最近一次活动时间：习惯完成时间与打卡时间中的最大值
func (s *ItemLogService) LastActivity(goalID uint) (*time.Time, error) {
	var latest *time.Time

	var item db.Item
	err := s.db.Where("goal_id = ? AND last_completed_at IS NOT NULL", goalID).
		Order("last_completed_at DESC").
		First(&item).Error
	switch {
	case err == nil:
		latest = item.LastCompletedAt
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("latest completion: %w", err)
	}

	var logs []db.ItemLog
	if err := s.db.Model(&db.ItemLog{}).
		Select("item_logs.log_date, item_logs.log_time").
		Joins("JOIN items ON items.id = item_logs.item_id AND items.deleted_at IS NULL").
		Where("items.goal_id = ?", goalID).
		Order("item_logs.log_date DESC, COALESCE(item_logs.log_time, item_logs.log_date) DESC").
		Limit(1).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("latest log: %w", err)
	}

	for _, log := range logs {
		at := log.LogDate
		if log.LogTime != nil {
			at = *log.LogTime
		}
		if latest == nil || at.After(*latest) {
			latest = &at
		}
	}

	return latest, nil
}

// StatsBetween 计算区间内的完成数、目标周期数及以周期计的连续数
func (s *ItemLogService) StatsBetween(filter ItemLogFilter, item db.Item, now time.Time) (*ItemStats, error) {
	logs, err := s.ListBetween(filter)
	if err != nil {
		return nil, err
	}

	stats := &ItemStats{
		RangeStart: filter.Start,
		RangeEnd:   filter.End,
	}

	c := Snapshot(item).Cadence
	stats.CompletedCount = len(logs)
	stats.TargetCount = len(cadence.PeriodsBetween(cadence.DateOf(filter.Start), cadence.DateOf(filter.End), c))

	periods := completedPeriods(logs, c)
	stats.CompletedPeriods = len(periods)
	if stats.TargetCount > 0 {
		stats.CompletionRate = float64(stats.CompletedPeriods) / float64(stats.TargetCount)
	}

	stats.CurrentStreak, stats.LongestStreak = calculateStreaks(periods, cadence.PeriodOf(now, c))

	return stats, nil
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// completedPeriods 按时间升序返回有打卡的周期，同一周期只计一次
func completedPeriods(logs []db.ItemLog, c cadence.Cadence) []cadence.Period {
	var periods []cadence.Period
	for _, log := range logs {
		p := cadence.PeriodOf(log.LogDate, c)
		if n := len(periods); n > 0 && periods[n-1] == p {
			continue
		}
		periods = append(periods, p)
	}
	return periods
}

func calculateStreaks(periods []cadence.Period, now cadence.Period) (current, longest int) {
	if len(periods) == 0 {
		return 0, 0
	}

	longest = 1
	run := 1

	for i := 1; i < len(periods); i++ {
		if periods[i].Prev() == periods[i-1] {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	if last := periods[len(periods)-1]; last == now || last == now.Prev() {
		current = run
	}
	return current, longest
}
