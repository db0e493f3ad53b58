package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/habitgarden/internal/cadence"
	"github.com/habitgarden/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrItemNotFound 在指定习惯不存在时返回
	ErrItemNotFound = errors.New("item not found")
	// ErrItemInvalid 在习惯输入不合法时返回
	ErrItemInvalid = errors.New("invalid item")
	// ErrItemCadenceRequired 在周期性习惯缺少周期时返回
	ErrItemCadenceRequired = errors.New("recurring item requires a cadence")
)

// ItemService 负责目标下习惯/事项的增删改查
// Kind 支持 recurring/once；recurring 必须带合法周期
// 完成状态与连续计数只能通过 CompletionService 修改
type ItemService struct {
	db *gorm.DB
}

// ItemInput 定义创建/更新习惯时可配置字段
type ItemInput struct {
	Name    string
	Note    string
	Kind    string
	Cadence string
}

// NewItemService 构造 ItemService
func NewItemService(gdb *gorm.DB) *ItemService {
	return &ItemService{db: gdb}
}

// List 返回目标下的全部习惯，按创建顺序
func (s *ItemService) List(goalID uint) ([]db.Item, error) {
	var items []db.Item
	if err := s.db.Where("goal_id = ?", goalID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Get 根据 ID 获取习惯
func (s *ItemService) Get(id uint) (*db.Item, error) {
	var item db.Item
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &item, nil
}

// Create 在目标下新建习惯，初始连续计数为 0 且从未完成
func (s *ItemService) Create(goalID uint, input ItemInput) (*db.Item, error) {
	kind, cadenceName, err := validateItemInput(input)
	if err != nil {
		return nil, err
	}

	var goalCount int64
	if err := s.db.Model(&db.Goal{}).Where("id = ?", goalID).Count(&goalCount).Error; err != nil {
		return nil, fmt.Errorf("find goal: %w", err)
	}
	if goalCount == 0 {
		return nil, ErrGoalNotFound
	}

	item := db.Item{
		GoalID:  goalID,
		Name:    strings.TrimSpace(input.Name),
		Note:    strings.TrimSpace(input.Note),
		Kind:    kind,
		Cadence: cadenceName,
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &item, nil
}

// Update 更新习惯的名称、备注与周期。
// 周期或类型变化后旧的连续计数不再可比，计数清零。
func (s *ItemService) Update(id uint, input ItemInput) (*db.Item, error) {
	kind, cadenceName, err := validateItemInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":    strings.TrimSpace(input.Name),
		"note":    strings.TrimSpace(input.Note),
		"kind":    kind,
		"cadence": cadenceName,
	}
	if existing.Kind != kind || existing.Cadence != cadenceName {
		updates["streak"] = 0
		updates["prev_streak"] = 0
		updates["version"] = gorm.Expr("version + 1")
	}

	if err := s.db.Model(existing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.Get(id)
}

// Delete 删除习惯及其打卡记录
func (s *ItemService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("item_id = ?", id).Delete(&db.ItemLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Item{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func validateItemInput(input ItemInput) (kind string, cadenceName string, err error) {
	if strings.TrimSpace(input.Name) == "" {
		return "", "", fmt.Errorf("%w: name is required", ErrItemInvalid)
	}

	kind = strings.TrimSpace(strings.ToLower(input.Kind))
	switch kind {
	case "", db.ItemKindRecurring:
		kind = db.ItemKindRecurring
	case db.ItemKindOnce:
		return kind, "", nil
	default:
		return "", "", fmt.Errorf("%w: unsupported kind %s", ErrItemInvalid, input.Kind)
	}

	if strings.TrimSpace(input.Cadence) == "" {
		return "", "", ErrItemCadenceRequired
	}
	c, err := cadence.Parse(input.Cadence)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrItemInvalid, err)
	}
	return kind, c.String(), nil
}

// Snapshot 将持久化的习惯转换为判定用快照。
// 存储中无法识别的周期按 daily 处理。
func Snapshot(item db.Item) cadence.Item {
	c, _ := cadence.Parse(item.Cadence)
	return cadence.Item{
		Cadence:         c,
		Completed:       item.IsCompleted,
		LastCompletedAt: item.LastCompletedAt,
		StoredStreak:    item.Streak,
	}
}
