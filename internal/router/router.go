package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/habitgarden/internal/handler"
)

const sessionName = "habitgarden_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()
	r.Use(handler.RequestID())

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 7 * 24 * 60 * 60})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(handler.LocaleMiddleware())

	r.GET("/ping", api.Ping)

	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的接口
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/goals", api.ListGoals)
			auth.POST("/goals", api.CreateGoal)
			auth.GET("/goals/:id", api.GetGoal)
			auth.PUT("/goals/:id", api.UpdateGoal)
			auth.DELETE("/goals/:id", api.DeleteGoal)
			auth.GET("/goals/:id/overview", api.GetGoalOverview)
			auth.GET("/goals/:id/vitality", api.GetGoalVitality)
			auth.GET("/goals/:id/items", api.ListItems)
			auth.POST("/goals/:id/items", api.CreateItem)

			auth.GET("/items/:id", api.GetItem)
			auth.PUT("/items/:id", api.UpdateItem)
			auth.DELETE("/items/:id", api.DeleteItem)
			auth.POST("/items/:id/toggle", api.ToggleItem)
			auth.GET("/items/:id/status", api.GetItemStatus)
			auth.GET("/items/:id/calendar", api.GetItemCalendar)
			auth.POST("/items/:id/logs", api.QuickLogItem)
			auth.DELETE("/items/:id/logs/:logId", api.DeleteItemLog)

			auth.GET("/streak", api.GetStreak)
			auth.GET("/heatmap", api.GetHeatmap)
		}
	}

	return r
}
