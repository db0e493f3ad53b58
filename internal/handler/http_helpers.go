package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/habitgarden/internal/cadence"
	"github.com/habitgarden/internal/service"
)

const sessionUserIDKey = "user_id"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func isJSONRequest(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Content-Type"), "application/json")
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// currentUserID 读取会话中的登录用户，未登录返回 0
func currentUserID(c *gin.Context) uint {
	switch v := sessions.Default(c).Get(sessionUserIDKey).(type) {
	case uint:
		return v
	case int:
		if v > 0 {
			return uint(v)
		}
	case int64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		respondError(c, http.StatusNotFound, "目标不存在")
	case errors.Is(err, service.ErrItemNotFound):
		respondError(c, http.StatusNotFound, "习惯不存在")
	case errors.Is(err, service.ErrItemCadenceRequired):
		respondError(c, http.StatusBadRequest, "周期性习惯必须指定周期")
	case errors.Is(err, cadence.ErrUnknownCadence):
		respondError(c, http.StatusBadRequest, "不支持的周期")
	case errors.Is(err, service.ErrGoalInvalid), errors.Is(err, service.ErrItemInvalid):
		respondError(c, http.StatusBadRequest, "请求参数不合法")
	case errors.Is(err, service.ErrItemConflict):
		respondError(c, http.StatusConflict, "习惯已被修改，请刷新后重试")
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
