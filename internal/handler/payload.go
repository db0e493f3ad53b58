package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitgarden/internal/cadence"
	"github.com/habitgarden/internal/db"
	"github.com/habitgarden/internal/locale"
	"github.com/habitgarden/internal/service"
	"github.com/habitgarden/internal/view"
)

const dateFormat = "2006-01-02"

func (a *API) formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.In(a.location).Format(time.RFC3339)
}

func renderMarkdownField(c *gin.Context, payload gin.H, key, content string) {
	rendered, err := view.RenderMarkdown(content)
	if err != nil {
		c.Error(err)
		return
	}
	payload[key] = string(rendered)
}

func (a *API) goalPayload(c *gin.Context, goal db.Goal) gin.H {
	payload := gin.H{
		"id":                goal.ID,
		"user_id":           goal.UserID,
		"name":              goal.Name,
		"description":       goal.Description,
		"status":            goal.Status,
		"consistency_score": goal.ConsistencyScore,
		"created_at":        a.formatTime(&goal.CreatedAt),
		"updated_at":        a.formatTime(&goal.UpdatedAt),
	}
	renderMarkdownField(c, payload, "description_html", goal.Description)
	return payload
}

func periodPayload(p cadence.Period) gin.H {
	return gin.H{
		"key":   p.Key(),
		"start": p.Start.String(),
		"end":   p.End().String(),
	}
}

// itemStatusPayload 同时给出持久化字段与按当前时刻判定后的状态
func (a *API) itemStatusPayload(c *gin.Context, status service.ItemStatus) gin.H {
	item := status.Item
	payload := gin.H{
		"id":                item.ID,
		"goal_id":           item.GoalID,
		"name":              item.Name,
		"note":              item.Note,
		"kind":              item.Kind,
		"is_completed":      item.IsCompleted,
		"last_completed_at": a.formatTime(item.LastCompletedAt),
		"stored_streak":     item.Streak,
		"version":           item.Version,
		"done":              status.Done,
		"effective_streak":  status.EffectiveStreak,
	}
	if status.Recurring {
		payload["cadence"] = status.Cadence.String()
		payload["cadence_label"] = locale.CadenceLabel(requestLanguage(c), status.Cadence)
		payload["period"] = periodPayload(status.Period)
	}
	renderMarkdownField(c, payload, "note_html", item.Note)
	return payload
}

func (a *API) vitalityPayload(c *gin.Context, vitality service.GoalVitality) gin.H {
	return gin.H{
		"goal_id":       vitality.GoalID,
		"vitality":      vitality.Vitality.String(),
		"label":         locale.VitalityLabel(requestLanguage(c), vitality.Vitality),
		"last_activity": a.formatTime(vitality.LastActivity),
	}
}

func (a *API) serializeItemLogs(logs []db.ItemLog) []gin.H {
	items := make([]gin.H, 0, len(logs))
	for _, log := range logs {
		items = append(items, a.serializeItemLog(log))
	}
	return items
}

func (a *API) serializeItemLog(log db.ItemLog) gin.H {
	payload := gin.H{
		"id":       log.ID,
		"item_id":  log.ItemID,
		"log_date": log.LogDate.Format(dateFormat),
		"source":   log.Source,
		"note":     log.Note,
	}
	if log.LogTime != nil {
		payload["log_time"] = a.formatTime(log.LogTime)
	}
	return payload
}

func serializeItemStats(stats *service.ItemStats) gin.H {
	return gin.H{
		"range_start":       stats.RangeStart.Format(dateFormat),
		"range_end":         stats.RangeEnd.Format(dateFormat),
		"completed_count":   stats.CompletedCount,
		"completed_periods": stats.CompletedPeriods,
		"target_count":      stats.TargetCount,
		"completion_rate":   stats.CompletionRate,
		"current_streak":    stats.CurrentStreak,
		"longest_streak":    stats.LongestStreak,
	}
}
