package cadence

import (
	"cmp"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date 是不带时刻与时区的日历日期
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate 构造日期，越界的月/日会按 time.Date 的规则进位
func NewDate(year int, month time.Month, day int) Date {
	return dateFromUTC(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf 返回 t 在其自身时区下的日历日期
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate 解析 2006-01-02 格式的日期
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("parse date: %w", err)
	}
	return DateOf(t), nil
}

func dateFromUTC(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays 返回 d 之后（n 为负时之前）第 n 天
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

// Weekday 返回星期
func (d Date) Weekday() time.Weekday {
	return d.utc().Weekday()
}

// Compare 按时间先后比较，返回 -1/0/1
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmp.Compare(d.Year, other.Year)
	case d.Month != other.Month:
		return cmp.Compare(d.Month, other.Month)
	default:
		return cmp.Compare(d.Day, other.Day)
	}
}

// Before 报告 d 是否早于 other
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// After 报告 d 是否晚于 other
func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

// DaysUntil 返回从 d 到 other 相隔的天数，other 更早时为负
func (d Date) DaysUntil(other Date) int {
	return int(other.utc().Sub(d.utc()).Hours() / 24)
}

// In 返回 d 在 loc 中的零点
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// IsZero 报告 d 是否为零值
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return d.utc().Format(dateLayout)
}

// MarshalText 输出 2006-01-02
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText 解析 2006-01-02
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateSet 是日期集合，只关心成员关系，不关心顺序
type DateSet map[Date]struct{}

// NewDateSet 由若干日期构造集合，重复日期只保留一份
func NewDateSet(dates ...Date) DateSet {
	set := make(DateSet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Add 加入日期
func (s DateSet) Add(d Date) {
	s[d] = struct{}{}
}

// Has 报告集合中是否包含 d
func (s DateSet) Has(d Date) bool {
	_, ok := s[d]
	return ok
}
