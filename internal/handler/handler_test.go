package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/habitgarden/internal/db"
	"gorm.io/gorm/logger"
)

const testUserHeader = "X-Test-User"

type testServer struct {
	api    *API
	router *gin.Engine
	now    time.Time
}

// setupTestServer 注册全部 API 路由；X-Test-User 头模拟已登录的用户
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(filepath.Join(t.TempDir(), "handler.db"), logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	srv := &testServer{now: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)}
	srv.api = NewAPI(gdb, nil, time.UTC)
	srv.api.clock = func() time.Time { return srv.now }

	r := gin.New()
	r.Use(RequestID())
	r.Use(sessions.Sessions("habitgarden_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(LocaleMiddleware())
	r.Use(func(c *gin.Context) {
		if raw := c.GetHeader(testUserHeader); raw != "" {
			id, _ := strconv.Atoi(raw)
			sessions.Default(c).Set(sessionUserIDKey, uint(id))
		}
		c.Next()
	})
	r.POST("/admin/login", srv.api.Login)

	api := r.Group("/admin/api", AuthRequired())
	api.GET("/goals", srv.api.ListGoals)
	api.POST("/goals", srv.api.CreateGoal)
	api.GET("/goals/:id", srv.api.GetGoal)
	api.PUT("/goals/:id", srv.api.UpdateGoal)
	api.DELETE("/goals/:id", srv.api.DeleteGoal)
	api.GET("/goals/:id/overview", srv.api.GetGoalOverview)
	api.GET("/goals/:id/vitality", srv.api.GetGoalVitality)
	api.GET("/goals/:id/items", srv.api.ListItems)
	api.POST("/goals/:id/items", srv.api.CreateItem)
	api.GET("/items/:id", srv.api.GetItem)
	api.PUT("/items/:id", srv.api.UpdateItem)
	api.DELETE("/items/:id", srv.api.DeleteItem)
	api.POST("/items/:id/toggle", srv.api.ToggleItem)
	api.GET("/items/:id/status", srv.api.GetItemStatus)
	api.GET("/items/:id/calendar", srv.api.GetItemCalendar)
	api.POST("/items/:id/logs", srv.api.QuickLogItem)
	api.DELETE("/items/:id/logs/:logId", srv.api.DeleteItemLog)
	api.GET("/streak", srv.api.GetStreak)
	api.GET("/heatmap", srv.api.GetHeatmap)

	srv.router = r
	return srv
}

func (s *testServer) do(t *testing.T, userID uint, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.Itoa(int(userID)))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

func (s *testServer) mustCreateGoal(t *testing.T, userID uint, name string) uint {
	t.Helper()
	w, body := s.do(t, userID, http.MethodPost, "/admin/api/goals", map[string]any{"name": name})
	if w.Code != http.StatusOK {
		t.Fatalf("create goal: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	return idOf(t, body["goal"])
}

func (s *testServer) mustCreateItem(t *testing.T, userID, goalID uint, name, cadenceName string) uint {
	t.Helper()
	path := fmt.Sprintf("/admin/api/goals/%d/items", goalID)
	w, body := s.do(t, userID, http.MethodPost, path, map[string]any{"name": name, "cadence": cadenceName})
	if w.Code != http.StatusOK {
		t.Fatalf("create item: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	return idOf(t, body["item"])
}

func idOf(t *testing.T, value any) uint {
	t.Helper()
	obj, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}
	id, ok := obj["id"].(float64)
	if !ok {
		t.Fatalf("expected numeric id, got %v", obj["id"])
	}
	return uint(id)
}

func object(t *testing.T, body map[string]any, key string) map[string]any {
	t.Helper()
	obj, ok := body[key].(map[string]any)
	if !ok {
		t.Fatalf("expected %s object in %v", key, body)
	}
	return obj
}
