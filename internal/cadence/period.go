package cadence

import (
	"fmt"
	"time"
)

// Period 是某个周期下的具体日历区间：某天、某周（周一开始）、某月、某季度或某年。
// 同一周期下两个 Period 可以直接用 == 比较。
type Period struct {
	Cadence Cadence
	Start   Date
}

// PeriodOf 返回 t 在其自身时区下所属的周期区间
func PeriodOf(t time.Time, c Cadence) Period {
	return PeriodOfDate(DateOf(t), c)
}

// PeriodOfDate 返回日期 d 所属的周期区间
func PeriodOfDate(d Date, c Cadence) Period {
	c = c.resolve()
	switch c {
	case Weekly:
		offset := (int(d.Weekday()) + 6) % 7
		return Period{Cadence: c, Start: d.AddDays(-offset)}
	case Monthly:
		return Period{Cadence: c, Start: NewDate(d.Year, d.Month, 1)}
	case Quarterly:
		first := time.Month((int(d.Month)-1)/3*3 + 1)
		return Period{Cadence: c, Start: NewDate(d.Year, first, 1)}
	case Annual:
		return Period{Cadence: c, Start: NewDate(d.Year, time.January, 1)}
	default:
		return Period{Cadence: c, Start: d}
	}
}

// Shift 返回向后（n 为负时向前）移动 n 个周期后的区间
func (p Period) Shift(n int) Period {
	s := p.Start
	switch p.Cadence.resolve() {
	case Weekly:
		return Period{Cadence: p.Cadence, Start: s.AddDays(7 * n)}
	case Monthly:
		return Period{Cadence: p.Cadence, Start: NewDate(s.Year, s.Month+time.Month(n), 1)}
	case Quarterly:
		return Period{Cadence: p.Cadence, Start: NewDate(s.Year, s.Month+time.Month(3*n), 1)}
	case Annual:
		return Period{Cadence: p.Cadence, Start: NewDate(s.Year+n, time.January, 1)}
	default:
		return Period{Cadence: p.Cadence, Start: s.AddDays(n)}
	}
}

// Prev 返回紧邻的上一个周期
func (p Period) Prev() Period {
	return p.Shift(-1)
}

// Next 返回紧邻的下一个周期
func (p Period) Next() Period {
	return p.Shift(1)
}

// End 返回周期内的最后一天
func (p Period) End() Date {
	return p.Next().Start.AddDays(-1)
}

// Contains 报告 d 是否落在周期内
func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End())
}

// Key 返回便于展示的周期标识，例如 2024-03-10、2024-W10、2024-03、2024-Q1、2024
func (p Period) Key() string {
	s := p.Start
	switch p.Cadence.resolve() {
	case Weekly:
		year, week := s.utc().ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case Monthly:
		return fmt.Sprintf("%04d-%02d", s.Year, int(s.Month))
	case Quarterly:
		return fmt.Sprintf("%04d-Q%d", s.Year, (int(s.Month)-1)/3+1)
	case Annual:
		return fmt.Sprintf("%04d", s.Year)
	default:
		return s.String()
	}
}

func (p Period) String() string {
	return p.Key()
}

// SamePeriod 报告 a 与 b 是否处于同一周期。
// a 会先转换到 b 的时区，日历日期以 b 所在时区的挂钟时间为准。
func SamePeriod(a, b time.Time, c Cadence) bool {
	return PeriodOf(a.In(b.Location()), c) == PeriodOf(b, c)
}

// IsImmediatelyPrecedingPeriod 报告 a 所在周期是否恰好是 b 所在周期的上一个周期
func IsImmediatelyPrecedingPeriod(a, b time.Time, c Cadence) bool {
	return PeriodOf(a.In(b.Location()), c) == PeriodOf(b, c).Prev()
}

// PeriodsBetween 返回与闭区间 [start, end] 有交集的全部周期，按时间升序。
// end 早于 start 时返回 nil。
func PeriodsBetween(start, end Date, c Cadence) []Period {
	if end.Before(start) {
		return nil
	}
	var periods []Period
	for p := PeriodOfDate(start, c); !p.Start.After(end); p = p.Next() {
		periods = append(periods, p)
	}
	return periods
}
