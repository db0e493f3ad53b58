package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/habitgarden/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrGoalNotFound 在指定目标不存在时返回
	ErrGoalNotFound = errors.New("goal not found")
	// ErrGoalInvalid 在目标输入不合法时返回
	ErrGoalInvalid = errors.New("invalid goal")
)

// GoalService 负责 Goal 数据的增删改查
type GoalService struct {
	db *gorm.DB
}

// GoalFilter 描述列表过滤条件
type GoalFilter struct {
	UserID uint
	Status string
	Search string
}

// GoalInput 定义创建/更新目标时可配置字段
type GoalInput struct {
	UserID           uint
	Name             string
	Description      string
	Status           string
	ConsistencyScore *float64
}

// NewGoalService 构造 GoalService
func NewGoalService(gdb *gorm.DB) *GoalService {
	return &GoalService{db: gdb}
}

// List 返回目标集合，支持基本筛选
func (s *GoalService) List(filter GoalFilter) ([]db.Goal, error) {
	var goals []db.Goal

	query := s.db.Model(&db.Goal{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.TrimSpace(filter.Search))
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	return goals, nil
}

// Get 根据 ID 获取目标
func (s *GoalService) Get(id uint) (*db.Goal, error) {
	var goal db.Goal
	if err := s.db.First(&goal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &goal, nil
}

// Create 新建目标
func (s *GoalService) Create(input GoalInput) (*db.Goal, error) {
	if err := validateGoalInput(input); err != nil {
		return nil, err
	}

	goal := db.Goal{
		UserID:           input.UserID,
		Name:             strings.TrimSpace(input.Name),
		Description:      strings.TrimSpace(input.Description),
		Status:           normalizeGoalStatus(input.Status),
		ConsistencyScore: input.ConsistencyScore,
	}

	if err := s.db.Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &goal, nil
}

// Update 更新目标，所属用户不随更新改变
func (s *GoalService) Update(id uint, input GoalInput) (*db.Goal, error) {
	if err := validateGoalInput(input); err != nil {
		return nil, err
	}

	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Description = strings.TrimSpace(input.Description)
	existing.Status = normalizeGoalStatus(input.Status)
	existing.ConsistencyScore = input.ConsistencyScore

	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return existing, nil
}

// Delete 删除目标及其下的习惯与打卡记录
func (s *GoalService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Unscoped().Model(&db.Item{}).Select("id").Where("goal_id = ?", id)
		if err := tx.Unscoped().Where("item_id IN (?)", itemIDs).Delete(&db.ItemLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", id).Delete(&db.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Goal{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func validateGoalInput(input GoalInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrGoalInvalid)
	}
	return nil
}

func normalizeGoalStatus(status string) string {
	status = strings.TrimSpace(strings.ToLower(status))
	if status != db.GoalStatusArchived {
		return db.GoalStatusActive
	}
	return db.GoalStatusArchived
}
