package handler

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitgarden/internal/cadence"
	"github.com/habitgarden/internal/service"
)

const (
	defaultHeatmapDays = 365
	maxHeatmapDays     = 731
)

type heatmapItem struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	GoalID   uint   `json:"goal_id"`
	GoalName string `json:"goal_name"`
}

type heatmapDay struct {
	Date  string        `json:"date"`
	Items []heatmapItem `json:"items"`
}

type heatmapRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type heatmapSummary struct {
	TotalLogs  int `json:"total_logs"`
	ActiveDays int `json:"active_days"`
	ItemCount  int `json:"item_count"`
}

type heatmapPayload struct {
	Range       heatmapRange   `json:"range"`
	Days        []heatmapDay   `json:"days"`
	Items       []heatmapItem  `json:"items"`
	Summary     heatmapSummary `json:"summary"`
	GeneratedAt string         `json:"generated_at"`
}

// GetStreak 返回当前用户跨全部习惯的连续打卡天数
func (a *API) GetStreak(c *gin.Context) {
	now := a.now()
	streak, err := a.status.UserStreak(currentUserID(c), now)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "计算连续打卡失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"streak": streak,
		"today":  cadence.DateOf(now).String(),
	})
}

// GetHeatmap 返回当前用户最近若干天的打卡热力图，默认一年
func (a *API) GetHeatmap(c *gin.Context) {
	days := defaultHeatmapDays
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "无效的天数")
			return
		}
		days = min(parsed, maxHeatmapDays)
	}

	now := a.now()
	end := cadence.DateOf(now).In(now.Location())
	start := end.AddDate(0, 0, -(days - 1))

	entries, err := a.itemLogs.HeatmapRange(currentUserID(c), start, end)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "获取热力图数据失败")
		return
	}

	c.JSON(http.StatusOK, buildHeatmapPayload(entries, start, end, now))
}

func buildHeatmapPayload(entries []service.HeatmapEntry, start, end, generatedAt time.Time) heatmapPayload {
	dayMap := make(map[string][]heatmapItem)
	legendMap := make(map[uint]heatmapItem)

	for _, entry := range entries {
		item := heatmapItem{ID: entry.ItemID, Name: entry.ItemName, GoalID: entry.GoalID, GoalName: entry.GoalName}
		key := entry.LogDate.Format(dateFormat)
		dayMap[key] = append(dayMap[key], item)
		if _, exists := legendMap[item.ID]; !exists {
			legendMap[item.ID] = item
		}
	}

	days := make([]heatmapDay, 0, len(dayMap))
	for date, items := range dayMap {
		slices.SortFunc(items, compareHeatmapItems)
		days = append(days, heatmapDay{Date: date, Items: items})
	}
	slices.SortFunc(days, func(a, b heatmapDay) int {
		return cmp.Compare(a.Date, b.Date)
	})

	legend := make([]heatmapItem, 0, len(legendMap))
	for _, item := range legendMap {
		legend = append(legend, item)
	}
	slices.SortFunc(legend, compareHeatmapItems)

	payload := heatmapPayload{
		Range: heatmapRange{
			Start: start.Format(dateFormat),
			End:   end.Format(dateFormat),
		},
		Days:    days,
		Items:   legend,
		Summary: heatmapSummary{TotalLogs: len(entries), ActiveDays: len(dayMap), ItemCount: len(legend)},
	}

	if !generatedAt.IsZero() {
		payload.GeneratedAt = generatedAt.Format(time.RFC3339)
	}

	return payload
}

func compareHeatmapItems(a, b heatmapItem) int {
	if diff := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); diff != 0 {
		return diff
	}
	return cmp.Compare(a.ID, b.ID)
}
