package db

import (
	"time"

	"gorm.io/gorm"
)

const (
	// ItemKindRecurring 表示按周期重复的习惯
	ItemKindRecurring = "recurring"
	// ItemKindOnce 表示一次性事项，不参与周期与连续计算
	ItemKindOnce = "once"
)

// Item 定义了目标下的习惯/事项
// Cadence 仅在 recurring 时有意义：daily/weekly/monthly/quarterly/annual
// IsCompleted/LastCompletedAt/Streak 只由打卡写路径修改
// LastCompletedAt 为空当且仅当从未完成
// PrevStreak/PrevCompletedAt 保存最近一次完成前的计数与完成时间，撤销时写回
// Version 用于写路径的乐观并发控制
type Item struct {
	gorm.Model
	GoalID          uint `gorm:"index"`
	Name            string
	Note            string `gorm:"type:text"`
	Kind            string
	Cadence         string
	IsCompleted     bool
	LastCompletedAt *time.Time
	Streak          int
	PrevStreak      int
	PrevCompletedAt *time.Time
	Version         int `gorm:"not null;default:0"`
}

// Recurring 报告是否为周期性习惯
func (i Item) Recurring() bool {
	return i.Kind != ItemKindOnce
}

// ItemLog 记录习惯打卡日志
// Item + LogDate 采用唯一索引，保证同一天只有一条；LogTime 存储具体时间
// Source 标记打卡来源（toggle/admin_manual/cli 等），Note 为备注
type ItemLog struct {
	gorm.Model
	ItemID  uint      `gorm:"index;index:idx_item_log_unique,unique"`
	Item    Item      `gorm:"constraint:OnDelete:CASCADE"`
	LogDate time.Time `gorm:"index:idx_item_log_unique,unique"`
	LogTime *time.Time
	Source  string
	Note    string
}

// TableName 重写确保唯一索引作用到 item_id + log_date
func (ItemLog) TableName() string {
	return "item_logs"
}
