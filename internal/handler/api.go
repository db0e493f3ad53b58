package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitgarden/internal/lock"
	"github.com/habitgarden/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	goals      *service.GoalService
	items      *service.ItemService
	itemLogs   *service.ItemLogService
	completion *service.CompletionService
	status     *service.StatusService
	location   *time.Location
	clock      func() time.Time
}

// NewAPI constructs a handler set with shared services.
// loc 决定"今天"与周期边界按哪个时区的挂钟时间计算。
func NewAPI(gdb *gorm.DB, locker lock.Locker, loc *time.Location) *API {
	if loc == nil {
		loc = time.Local
	}

	goals := service.NewGoalService(gdb)
	items := service.NewItemService(gdb)
	itemLogs := service.NewItemLogService(gdb)

	return &API{
		db:         gdb,
		goals:      goals,
		items:      items,
		itemLogs:   itemLogs,
		completion: service.NewCompletionService(gdb, locker),
		status:     service.NewStatusService(goals, items, itemLogs),
		location:   loc,
		clock:      time.Now,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

func (a *API) now() time.Time {
	clock := a.clock
	if clock == nil {
		clock = time.Now
	}
	return clock().In(a.location)
}

// Ping 健康检查
func (a *API) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
