package cadence

import "time"

// Item 是判定所需的习惯快照，字段由持久化层读出后传入
type Item struct {
	Cadence Cadence
	// Completed 为持久化的完成标记，跨周期后不会自动清除
	Completed bool
	// LastCompletedAt 为 nil 表示从未完成过
	LastCompletedAt *time.Time
	// StoredStreak 为写路径最后一次写入的连续周期数
	StoredStreak int
}

// IsDoneForCurrentPeriod 报告 item 在 now 所属周期内是否已完成。
// 上一个周期遗留的完成标记在新周期里读作未完成，无需任何写入。
func IsDoneForCurrentPeriod(item Item, now time.Time) bool {
	if !item.Completed || item.LastCompletedAt == nil {
		return false
	}
	return SamePeriod(*item.LastCompletedAt, now, item.Cadence)
}
