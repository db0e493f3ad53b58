package db

import "gorm.io/gorm"

const (
	GoalStatusActive   = "active"
	GoalStatusArchived = "archived"
)

// Goal 定义了目标模型，一个目标下挂若干习惯/事项
// Description 存储 Markdown 原文，展示时再渲染
// ConsistencyScore 仅做存储与透传，计算方式尚未确定
type Goal struct {
	gorm.Model
	UserID           uint `gorm:"index"`
	Name             string
	Description      string `gorm:"type:text"`
	Status           string
	ConsistencyScore *float64
	Items            []Item `gorm:"constraint:OnDelete:CASCADE"`
}
