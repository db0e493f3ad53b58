package service

import (
	"fmt"
	"time"

	"github.com/habitgarden/internal/cadence"
	"github.com/habitgarden/internal/db"
)

// ItemStatus 是某一时刻对习惯的只读判定结果
type ItemStatus struct {
	Item            db.Item
	Recurring       bool
	Cadence         cadence.Cadence
	Done            bool
	EffectiveStreak int
	// Period 仅对周期性习惯有意义
	Period cadence.Period
}

// GoalVitality 描述目标的活跃度
type GoalVitality struct {
	GoalID       uint
	LastActivity *time.Time
	Vitality     cadence.Vitality
}

// GoalOverview 汇总目标下全部习惯的状态
type GoalOverview struct {
	Goal      db.Goal
	Vitality  GoalVitality
	Items     []ItemStatus
	DoneCount int
}

// StatusService 组合持久化快照与 cadence 判定，自身不做任何写入
type StatusService struct {
	goals *GoalService
	items *ItemService
	logs  *ItemLogService
}

// NewStatusService 构造 StatusService
func NewStatusService(goals *GoalService, items *ItemService, logs *ItemLogService) *StatusService {
	return &StatusService{goals: goals, items: items, logs: logs}
}

// EvaluateItem 计算习惯在 now 的完成状态与有效连续数
func EvaluateItem(item db.Item, now time.Time) ItemStatus {
	status := ItemStatus{Item: item, Recurring: item.Recurring()}
	if !status.Recurring {
		status.Done = item.IsCompleted && item.LastCompletedAt != nil
		return status
	}

	snapshot := Snapshot(item)
	status.Cadence = snapshot.Cadence
	status.Done = cadence.IsDoneForCurrentPeriod(snapshot, now)
	status.EffectiveStreak = cadence.EffectiveStreak(snapshot, now)
	status.Period = cadence.PeriodOf(now, snapshot.Cadence)
	return status
}

// ItemStatus 读取习惯并返回其在 now 的状态
func (s *StatusService) ItemStatus(itemID uint, now time.Time) (*ItemStatus, error) {
	item, err := s.items.Get(itemID)
	if err != nil {
		return nil, err
	}
	status := EvaluateItem(*item, now)
	return &status, nil
}

// GoalVitality 返回目标在 now 的活跃度
func (s *StatusService) GoalVitality(goalID uint, now time.Time) (*GoalVitality, error) {
	if _, err := s.goals.Get(goalID); err != nil {
		return nil, err
	}

	last, err := s.logs.LastActivity(goalID)
	if err != nil {
		return nil, fmt.Errorf("goal vitality: %w", err)
	}

	return &GoalVitality{
		GoalID:       goalID,
		LastActivity: last,
		Vitality:     cadence.Classify(last, now),
	}, nil
}

// GoalOverview 返回目标、活跃度及全部习惯的状态
func (s *StatusService) GoalOverview(goalID uint, now time.Time) (*GoalOverview, error) {
	goal, err := s.goals.Get(goalID)
	if err != nil {
		return nil, err
	}

	vitality, err := s.GoalVitality(goalID, now)
	if err != nil {
		return nil, err
	}

	items, err := s.items.List(goalID)
	if err != nil {
		return nil, err
	}

	overview := &GoalOverview{
		Goal:     *goal,
		Vitality: *vitality,
		Items:    make([]ItemStatus, 0, len(items)),
	}
	for _, item := range items {
		status := EvaluateItem(item, now)
		if status.Done {
			overview.DoneCount++
		}
		overview.Items = append(overview.Items, status)
	}

	return overview, nil
}

// UserStreak 返回用户截至 now 所在日期的跨习惯连续打卡天数
func (s *StatusService) UserStreak(userID uint, now time.Time) (int, error) {
	dates, err := s.logs.LogDates(userID)
	if err != nil {
		return 0, fmt.Errorf("user streak: %w", err)
	}
	return cadence.ConsecutiveDayStreak(dates, cadence.DateOf(now)), nil
}
