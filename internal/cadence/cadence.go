// Package cadence 实现周期性习惯的判定逻辑：周期对齐、完成状态、
// 连续记录衰减、目标活跃度以及跨习惯的连续打卡天数。
//
// 所有函数都是纯函数，"now" 由调用方显式传入，从不读取系统时钟。
package cadence

import (
	"errors"
	"fmt"
	"strings"
)

// Cadence 表示习惯的重复周期
type Cadence uint8

const (
	Daily Cadence = iota
	Weekly
	Monthly
	Quarterly
	Annual
)

// ErrUnknownCadence 在无法识别周期字符串时返回
var ErrUnknownCadence = errors.New("unknown cadence")

var cadenceNames = [...]string{
	Daily:     "daily",
	Weekly:    "weekly",
	Monthly:   "monthly",
	Quarterly: "quarterly",
	Annual:    "annual",
}

// All 按周期由短到长返回全部取值
func All() []Cadence {
	return []Cadence{Daily, Weekly, Monthly, Quarterly, Annual}
}

// Valid 报告 c 是否为已定义的周期
func (c Cadence) Valid() bool {
	return int(c) < len(cadenceNames)
}

func (c Cadence) String() string {
	if !c.Valid() {
		return fmt.Sprintf("cadence(%d)", uint8(c))
	}
	return cadenceNames[c]
}

// Parse 解析持久化或请求中的周期字符串，大小写与首尾空白不敏感。
// "yearly" 作为 annual 的别名接受。
func Parse(raw string) (Cadence, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "yearly" {
		return Annual, nil
	}
	for i, name := range cadenceNames {
		if name == value {
			return Cadence(i), nil
		}
	}
	return Daily, fmt.Errorf("%w: %q", ErrUnknownCadence, raw)
}

// MarshalText 让 Cadence 以字符串形式出现在 JSON 中
func (c Cadence) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCadence, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText 与 Parse 规则一致
func (c *Cadence) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// resolve 把越界取值按 daily 处理，保证周期计算总是有定义
func (c Cadence) resolve() Cadence {
	if !c.Valid() {
		return Daily
	}
	return c
}
