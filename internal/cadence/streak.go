package cadence

import "time"

// EffectiveStreak 返回截至 now 的有效连续周期数。
//
// 写路径只会递增计数，衰减只发生在读取时：最后一次完成位于当前周期或
// 上一个周期（宽限期）时原值保留，更早则视为中断返回 0。
func EffectiveStreak(item Item, now time.Time) int {
	if item.LastCompletedAt == nil || item.StoredStreak <= 0 {
		return 0
	}
	last := *item.LastCompletedAt
	if SamePeriod(last, now, item.Cadence) || IsImmediatelyPrecedingPeriod(last, now, item.Cadence) {
		return item.StoredStreak
	}
	return 0
}

// NextStreak 计算在 now 完成 item 后应写入的连续周期数。
// counted 为 false 表示本周期已计入过，计数保持不变。
//
// 规则：同一周期内重复完成不变；紧接上一个已完成周期则加一；否则重置为 1。
// 同一周期但计数为 0（切换周期后被清零）时按新周期重新计为 1。
func NextStreak(item Item, now time.Time) (streak int, counted bool) {
	if item.LastCompletedAt == nil {
		return 1, true
	}
	last := *item.LastCompletedAt
	if SamePeriod(last, now, item.Cadence) {
		if item.StoredStreak <= 0 {
			return 1, true
		}
		return item.StoredStreak, false
	}
	if item.StoredStreak > 0 && IsImmediatelyPrecedingPeriod(last, now, item.Cadence) {
		return item.StoredStreak + 1, true
	}
	return 1, true
}
