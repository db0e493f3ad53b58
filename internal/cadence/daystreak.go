package cadence

// ConsecutiveDayStreak 返回截至 today（或昨天）的连续打卡天数。
//
// today 有记录时从 today 起算，否则昨天有记录时从昨天起算，都没有则为 0；
// 随后逐日向前，遇到第一个缺失日期即停止。只做集合查询，与输入顺序无关。
func ConsecutiveDayStreak(dates DateSet, today Date) int {
	if len(dates) == 0 {
		return 0
	}

	cursor := today
	if !dates.Has(cursor) {
		cursor = today.AddDays(-1)
		if !dates.Has(cursor) {
			return 0
		}
	}

	count := 1
	for {
		cursor = cursor.AddDays(-1)
		if !dates.Has(cursor) {
			return count
		}
		count++
	}
}
