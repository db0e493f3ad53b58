package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/habitgarden/internal/config"
	"github.com/habitgarden/internal/db"
	"github.com/habitgarden/internal/lock"
	"github.com/habitgarden/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 测试数据生成器
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("时区加载失败:", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	user, err := createTestUser(db.DB, "admin", "admin123")
	if err != nil {
		log.Fatal("创建用户失败:", err)
	}

	summary, err := seedGoals(context.Background(), db.DB, user.ID, time.Now().In(loc))
	if err != nil {
		log.Fatal("生成目标失败:", err)
	}

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
	fmt.Printf("目标: %d 个, 习惯: %d 个, 打卡: %d 次\n", summary.goals, summary.items, summary.toggles)
}

type seedSummary struct {
	goals   int
	items   int
	toggles int
}

type seedItem struct {
	name    string
	kind    string
	cadence string
	// 相对今天向前的打卡偏移（单位为周期），按时间先后排列
	history []int
}

type seedGoal struct {
	name        string
	description string
	items       []seedItem
}

var seedData = []seedGoal{
	{
		name:        "身体健康",
		description: "## 目标\n- 每天运动\n- 规律作息",
		items: []seedItem{
			{name: "晨跑 3 公里", cadence: "daily", history: []int{6, 5, 4, 2, 1, 0}},
			{name: "23 点前睡觉", cadence: "daily", history: []int{3, 2, 1}},
			{name: "体重记录", cadence: "weekly", history: []int{4, 3, 2, 1}},
			{name: "年度体检", kind: "once"},
		},
	},
	{
		name:        "持续学习",
		description: "读书、写作与复盘",
		items: []seedItem{
			{name: "阅读 30 分钟", cadence: "daily", history: []int{10, 9, 8}},
			{name: "月度复盘", cadence: "monthly", history: []int{2, 1, 0}},
			{name: "读完一本书", cadence: "quarterly", history: []int{1}},
			{name: "年度总结", cadence: "annual"},
		},
	},
}

// createTestUser 已存在同名用户时直接返回
func createTestUser(gdb *gorm.DB, username, password string) (*db.User, error) {
	var existing db.User
	err := gdb.Where("username = ?", username).First(&existing).Error
	if err == nil {
		fmt.Println("用户已存在，跳过创建")
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := db.User{Username: username, Password: string(hashed)}
	if err := gdb.Create(&user).Error; err != nil {
		return nil, err
	}
	fmt.Println("✅ 测试用户创建完成")
	return &user, nil
}

// seedGoals 为用户创建目标与习惯，并通过完成开关回放历史打卡，
// 这样连续计数与打卡记录都走真实的写路径。
func seedGoals(ctx context.Context, gdb *gorm.DB, userID uint, now time.Time) (seedSummary, error) {
	var summary seedSummary

	var count int64
	if err := gdb.Model(&db.Goal{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return summary, err
	}
	if count > 0 {
		fmt.Println("目标已存在，跳过创建")
		return summary, nil
	}

	goals := service.NewGoalService(gdb)
	items := service.NewItemService(gdb)
	completion := service.NewCompletionService(gdb, lock.NewMemoryLocker())

	for _, g := range seedData {
		goal, err := goals.Create(service.GoalInput{UserID: userID, Name: g.name, Description: g.description})
		if err != nil {
			return summary, err
		}
		summary.goals++

		for _, it := range g.items {
			item, err := items.Create(goal.ID, service.ItemInput{Name: it.name, Kind: it.kind, Cadence: it.cadence})
			if err != nil {
				return summary, fmt.Errorf("create item %s: %w", it.name, err)
			}
			summary.items++

			for _, offset := range it.history {
				at := shiftPeriods(now, it.cadence, -offset)
				if _, err := completion.Toggle(ctx, item.ID, at); err != nil {
					return summary, fmt.Errorf("toggle item %s: %w", it.name, err)
				}
				summary.toggles++
			}
		}
	}

	fmt.Println("✅ 测试目标创建完成")
	return summary, nil
}

func shiftPeriods(now time.Time, cadenceName string, n int) time.Time {
	switch cadenceName {
	case "weekly":
		return now.AddDate(0, 0, 7*n)
	case "monthly":
		return now.AddDate(0, n, 0)
	case "quarterly":
		return now.AddDate(0, 3*n, 0)
	case "annual":
		return now.AddDate(n, 0, 0)
	default:
		return now.AddDate(0, 0, n)
	}
}
