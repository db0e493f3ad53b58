package cadence

import (
	"fmt"
	"time"
)

// Vitality 描述目标距上次活动的休眠程度
type Vitality uint8

const (
	NeedsWater Vitality = iota
	Resting
	Growing
	Blooming
)

const (
	bloomingWindow = 24 * time.Hour
	growingWindow  = 3 * 24 * time.Hour
	restingWindow  = 7 * 24 * time.Hour
)

var vitalityNames = [...]string{
	NeedsWater: "needs_water",
	Resting:    "resting",
	Growing:    "growing",
	Blooming:   "blooming",
}

func (v Vitality) String() string {
	if int(v) >= len(vitalityNames) {
		return fmt.Sprintf("vitality(%d)", uint8(v))
	}
	return vitalityNames[v]
}

// MarshalText 让 Vitality 以字符串形式出现在 JSON 中
func (v Vitality) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Classify 按距上次活动的时长划分活跃度。
// 区间左闭右开：恰好 24 小时、3 天、7 天都落入更"休眠"的一档。
// lastActivity 为 nil 时返回 NeedsWater；晚于 now 视为刚刚活动。
func Classify(lastActivity *time.Time, now time.Time) Vitality {
	if lastActivity == nil {
		return NeedsWater
	}
	elapsed := now.Sub(*lastActivity)
	switch {
	case elapsed < bloomingWindow:
		return Blooming
	case elapsed < growingWindow:
		return Growing
	case elapsed < restingWindow:
		return Resting
	default:
		return NeedsWater
	}
}
