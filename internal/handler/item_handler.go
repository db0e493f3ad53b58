package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitgarden/internal/cadence"
	"github.com/habitgarden/internal/db"
	"github.com/habitgarden/internal/service"
)

const defaultCalendarView = "monthly"

type itemPayload struct {
	Name    string `json:"name"`
	Note    string `json:"note"`
	Kind    string `json:"kind"`
	Cadence string `json:"cadence"`
}

// itemForUser 读取习惯并确认其目标属于当前登录用户
func (a *API) itemForUser(c *gin.Context, itemID uint) (*db.Item, error) {
	item, err := a.items.Get(itemID)
	if err != nil {
		return nil, err
	}
	if _, err := a.goalForUser(c, item.GoalID); err != nil {
		if errors.Is(err, service.ErrGoalNotFound) {
			return nil, service.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (a *API) itemFromParam(c *gin.Context) (*db.Item, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return nil, false
	}
	item, err := a.itemForUser(c, id)
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	return item, true
}

// ListItems 返回目标下全部习惯及其当前状态
func (a *API) ListItems(c *gin.Context) {
	goal, ok := a.goalFromParam(c)
	if !ok {
		return
	}

	items, err := a.items.List(goal.ID)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "获取习惯列表失败")
		return
	}

	now := a.now()
	payload := make([]gin.H, 0, len(items))
	for _, item := range items {
		payload = append(payload, a.itemStatusPayload(c, service.EvaluateItem(item, now)))
	}
	c.JSON(http.StatusOK, gin.H{"items": payload})
}

// CreateItem 在目标下创建习惯
func (a *API) CreateItem(c *gin.Context) {
	goal, ok := a.goalFromParam(c)
	if !ok {
		return
	}
	input, ok := parseItemInput(c)
	if !ok {
		return
	}

	item, err := a.items.Create(goal.ID, input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": a.itemStatusPayload(c, service.EvaluateItem(*item, a.now()))})
}

// GetItem 返回单个习惯
func (a *API) GetItem(c *gin.Context) {
	item, ok := a.itemFromParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": a.itemStatusPayload(c, service.EvaluateItem(*item, a.now()))})
}

// UpdateItem 更新习惯；周期变化会让连续计数清零
func (a *API) UpdateItem(c *gin.Context) {
	existing, ok := a.itemFromParam(c)
	if !ok {
		return
	}
	input, ok := parseItemInput(c)
	if !ok {
		return
	}

	item, err := a.items.Update(existing.ID, input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": a.itemStatusPayload(c, service.EvaluateItem(*item, a.now()))})
}

// DeleteItem 删除习惯
func (a *API) DeleteItem(c *gin.Context) {
	item, ok := a.itemFromParam(c)
	if !ok {
		return
	}
	if err := a.items.Delete(item.ID); err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "删除习惯失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ToggleItem 切换习惯在当前周期的完成状态
func (a *API) ToggleItem(c *gin.Context) {
	item, ok := a.itemFromParam(c)
	if !ok {
		return
	}

	now := a.now()
	result, err := a.completion.Toggle(c.Request.Context(), item.ID, now)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":      a.itemStatusPayload(c, service.EvaluateItem(result.Item, now)),
		"completed": result.Completed,
		"counted":   result.Counted,
	})
}

// GetItemStatus 返回习惯在当前时刻的完成状态与有效连续数
func (a *API) GetItemStatus(c *gin.Context) {
	item, ok := a.itemFromParam(c)
	if !ok {
		return
	}
	status := service.EvaluateItem(*item, a.now())
	c.JSON(http.StatusOK, gin.H{"status": a.itemStatusPayload(c, status)})
}

// GetItemCalendar 返回日期区间内的打卡数据和统计
func (a *API) GetItemCalendar(c *gin.Context) {
	item, ok := a.itemFromParam(c)
	if !ok {
		return
	}

	view := c.DefaultQuery("view", defaultCalendarView)
	start, end, view := resolveRange(c.Query("start"), view, a.now())
	filter := service.ItemLogFilter{ItemID: item.ID, Start: start, End: end}

	logs, err := a.itemLogs.ListBetween(filter)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "获取打卡记录失败")
		return
	}

	stats, err := a.itemLogs.StatsBetween(filter, *item, a.now())
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "计算统计信息失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":  a.itemStatusPayload(c, service.EvaluateItem(*item, a.now())),
		"logs":  a.serializeItemLogs(logs),
		"stats": serializeItemStats(stats),
		"range": gin.H{"start": start.Format(dateFormat), "end": end.Format(dateFormat), "view": view},
	})
}

// QuickLogItem 后台补记某天的打卡，不影响完成状态与连续计数
func (a *API) QuickLogItem(c *gin.Context) {
	item, ok := a.itemFromParam(c)
	if !ok {
		return
	}

	var payload struct {
		LogDate string `json:"log_date"` // 2006-01-02
		LogTime string `json:"log_time"` // 15:04，可选
		Note    string `json:"note"`
	}

	if isJSONRequest(c) {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return
		}
	} else {
		payload.LogDate = c.PostForm("log_date")
		payload.LogTime = c.PostForm("log_time")
		payload.Note = c.PostForm("note")
	}

	if payload.LogDate == "" {
		respondError(c, http.StatusBadRequest, "请选择打卡日期")
		return
	}

	logDate, err := time.ParseInLocation(dateFormat, payload.LogDate, a.location)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡日期")
		return
	}

	var logTimePtr *time.Time
	if payload.LogTime != "" {
		t, err := time.ParseInLocation("15:04", payload.LogTime, a.location)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的打卡时间")
			return
		}
		combined := time.Date(logDate.Year(), logDate.Month(), logDate.Day(), t.Hour(), t.Minute(), 0, 0, a.location)
		logTimePtr = &combined
	}

	logEntry, err := a.itemLogs.Upsert(service.ItemLogInput{
		ItemID:  item.ID,
		LogDate: logDate,
		LogTime: logTimePtr,
		Note:    payload.Note,
		Source:  service.LogSourceManual,
	})
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "保存打卡记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"log": a.serializeItemLog(*logEntry)})
}

// DeleteItemLog 删除单条打卡
func (a *API) DeleteItemLog(c *gin.Context) {
	item, ok := a.itemFromParam(c)
	if !ok {
		return
	}

	logID, err := parseUintParam(c, "logId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡记录ID")
		return
	}

	if err := a.itemLogs.Delete(item.ID, logID); err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "删除打卡记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true, "item_id": item.ID})
}

func parseItemInput(c *gin.Context) (service.ItemInput, bool) {
	var payload itemPayload

	if isJSONRequest(c) {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return service.ItemInput{}, false
		}
	} else {
		payload.Name = c.PostForm("name")
		payload.Note = c.PostForm("note")
		payload.Kind = c.PostForm("kind")
		payload.Cadence = c.PostForm("cadence")
	}

	return service.ItemInput{
		Name:    payload.Name,
		Note:    payload.Note,
		Kind:    payload.Kind,
		Cadence: payload.Cadence,
	}, true
}

// resolveRange 把 start 所在的周/月/季度/年展开为闭区间，start 缺省或非法时取 now 所在日期。
// 返回值中的 view 是归一化后的视图名。
func resolveRange(startStr, view string, now time.Time) (time.Time, time.Time, string) {
	loc := now.Location()
	day := cadence.DateOf(now)
	if startStr != "" {
		if parsed, err := cadence.ParseDate(startStr); err == nil {
			day = parsed
		}
	}

	c, err := cadence.Parse(view)
	if err != nil || c == cadence.Daily {
		c = cadence.Monthly
	}

	period := cadence.PeriodOfDate(day, c)
	return period.Start.In(loc), period.End().In(loc), c.String()
}
