package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/habitgarden/internal/db"
	"github.com/habitgarden/internal/service"
)

type goalPayload struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Status           string   `json:"status"`
	ConsistencyScore *float64 `json:"consistency_score"`
}

// goalForUser 读取目标并确认属于当前登录用户，否则视为不存在
func (a *API) goalForUser(c *gin.Context, goalID uint) (*db.Goal, error) {
	goal, err := a.goals.Get(goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != currentUserID(c) {
		return nil, service.ErrGoalNotFound
	}
	return goal, nil
}

func (a *API) goalFromParam(c *gin.Context) (*db.Goal, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return nil, false
	}
	goal, err := a.goalForUser(c, id)
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	return goal, true
}

// ListGoals 返回当前用户的目标列表
func (a *API) ListGoals(c *gin.Context) {
	goals, err := a.goals.List(service.GoalFilter{
		UserID: currentUserID(c),
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "获取目标列表失败")
		return
	}

	items := make([]gin.H, 0, len(goals))
	for _, goal := range goals {
		items = append(items, a.goalPayload(c, goal))
	}
	c.JSON(http.StatusOK, gin.H{"goals": items})
}

// GetGoal 返回单个目标
func (a *API) GetGoal(c *gin.Context) {
	goal, ok := a.goalFromParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": a.goalPayload(c, *goal)})
}

// CreateGoal 为当前用户创建目标
func (a *API) CreateGoal(c *gin.Context) {
	input, ok := parseGoalInput(c)
	if !ok {
		return
	}
	input.UserID = currentUserID(c)

	goal, err := a.goals.Create(input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": a.goalPayload(c, *goal)})
}

// UpdateGoal 更新目标
func (a *API) UpdateGoal(c *gin.Context) {
	existing, ok := a.goalFromParam(c)
	if !ok {
		return
	}
	input, ok := parseGoalInput(c)
	if !ok {
		return
	}

	goal, err := a.goals.Update(existing.ID, input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": a.goalPayload(c, *goal)})
}

// DeleteGoal 删除目标及其下全部习惯
func (a *API) DeleteGoal(c *gin.Context) {
	goal, ok := a.goalFromParam(c)
	if !ok {
		return
	}
	if err := a.goals.Delete(goal.ID); err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "删除目标失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetGoalVitality 返回目标当前的活跃度
func (a *API) GetGoalVitality(c *gin.Context) {
	goal, ok := a.goalFromParam(c)
	if !ok {
		return
	}
	vitality, err := a.status.GoalVitality(goal.ID, a.now())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vitality": a.vitalityPayload(c, *vitality)})
}

// GetGoalOverview 返回目标、活跃度以及每个习惯在当前周期的状态
func (a *API) GetGoalOverview(c *gin.Context) {
	goal, ok := a.goalFromParam(c)
	if !ok {
		return
	}
	overview, err := a.status.GoalOverview(goal.ID, a.now())
	if err != nil {
		handleError(c, err)
		return
	}

	items := make([]gin.H, 0, len(overview.Items))
	for _, status := range overview.Items {
		items = append(items, a.itemStatusPayload(c, status))
	}
	c.JSON(http.StatusOK, gin.H{
		"goal":       a.goalPayload(c, overview.Goal),
		"vitality":   a.vitalityPayload(c, overview.Vitality),
		"items":      items,
		"done_count": overview.DoneCount,
		"item_count": len(overview.Items),
	})
}

func parseGoalInput(c *gin.Context) (service.GoalInput, bool) {
	var payload goalPayload

	if isJSONRequest(c) {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return service.GoalInput{}, false
		}
	} else {
		payload.Name = c.PostForm("name")
		payload.Description = c.PostForm("description")
		payload.Status = c.PostForm("status")
		if raw := strings.TrimSpace(c.PostForm("consistency_score")); raw != "" {
			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				respondError(c, http.StatusBadRequest, "一致性评分应为数字")
				return service.GoalInput{}, false
			}
			payload.ConsistencyScore = &score
		}
	}

	if strings.TrimSpace(payload.Name) == "" {
		respondError(c, http.StatusBadRequest, "目标名称不能为空")
		return service.GoalInput{}, false
	}

	return service.GoalInput{
		Name:             payload.Name,
		Description:      payload.Description,
		Status:           payload.Status,
		ConsistencyScore: payload.ConsistencyScore,
	}, true
}
