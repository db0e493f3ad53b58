package handler

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestGoalCRUD(t *testing.T) {
	srv := setupTestServer(t)

	w, body := srv.do(t, 1, http.MethodPost, "/admin/api/goals", map[string]any{
		"name":              "身体健康",
		"description":       "**每天**动一动",
		"consistency_score": 72.5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	goal := object(t, body, "goal")
	if goal["status"] != "active" || goal["consistency_score"] != 72.5 {
		t.Fatalf("unexpected goal: %v", goal)
	}
	if html, _ := goal["description_html"].(string); !strings.Contains(html, "<strong>每天</strong>") {
		t.Fatalf("expected rendered markdown, got %q", html)
	}
	goalID := idOf(t, goal)
	srv.mustCreateGoal(t, 2, "别人的目标")

	w, body = srv.do(t, 1, http.MethodGet, "/admin/api/goals", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	if goals, _ := body["goals"].([]any); len(goals) != 1 {
		t.Fatalf("expected only own goal, got %v", body["goals"])
	}

	w, body = srv.do(t, 1, http.MethodPut, fmt.Sprintf("/admin/api/goals/%d", goalID), map[string]any{"name": "身体健康", "status": "archived"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", w.Code)
	}
	updated := object(t, body, "goal")
	if updated["status"] != "archived" || updated["user_id"] != float64(1) || updated["consistency_score"] != nil {
		t.Fatalf("unexpected updated goal: %v", updated)
	}

	if w, _ := srv.do(t, 1, http.MethodPost, "/admin/api/goals", map[string]any{"name": "  "}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", w.Code)
	}
	if w, _ := srv.do(t, 1, http.MethodGet, "/admin/api/goals/abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}

	itemID := srv.mustCreateItem(t, 1, goalID, "俯卧撑", "daily")
	if w, _ := srv.do(t, 1, http.MethodDelete, fmt.Sprintf("/admin/api/goals/%d", goalID), nil); w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	if w, _ := srv.do(t, 1, http.MethodGet, fmt.Sprintf("/admin/api/items/%d", itemID), nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected item gone with its goal, got %d", w.Code)
	}
}

func TestGoalVitalityFollowsLastActivity(t *testing.T) {
	srv := setupTestServer(t)
	goalID := srv.mustCreateGoal(t, 1, "写作")
	itemID := srv.mustCreateItem(t, 1, goalID, "写 500 字", "daily")
	path := fmt.Sprintf("/admin/api/goals/%d/vitality?lang=en", goalID)

	_, body := srv.do(t, 1, http.MethodGet, path, nil)
	if got := object(t, body, "vitality"); got["vitality"] != "needs_water" || got["last_activity"] != nil {
		t.Fatalf("expected needs_water without activity, got %v", got)
	}

	if w, _ := srv.do(t, 1, http.MethodPost, fmt.Sprintf("/admin/api/items/%d/toggle", itemID), nil); w.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", w.Code)
	}

	tests := []struct {
		name      string
		advance   time.Duration
		want      string
		wantLabel string
	}{
		{name: "just now", advance: time.Hour, want: "blooming", wantLabel: "Blooming"},
		{name: "exactly one day", advance: 23 * time.Hour, want: "growing", wantLabel: "Growing"},
		{name: "five days", advance: 96 * time.Hour, want: "resting", wantLabel: "Resting"},
		{name: "exactly seven days", advance: 48 * time.Hour, want: "needs_water", wantLabel: "Needs water"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.now = srv.now.Add(tt.advance)
			_, body := srv.do(t, 1, http.MethodGet, path, nil)
			got := object(t, body, "vitality")
			if got["vitality"] != tt.want || got["label"] != tt.wantLabel {
				t.Fatalf("unexpected vitality: %v", got)
			}
		})
	}
}

func TestGoalOverviewCountsDoneItems(t *testing.T) {
	srv := setupTestServer(t)
	goalID := srv.mustCreateGoal(t, 1, "学习")
	daily := srv.mustCreateItem(t, 1, goalID, "背单词", "daily")
	srv.mustCreateItem(t, 1, goalID, "读论文", "weekly")

	if w, _ := srv.do(t, 1, http.MethodPost, fmt.Sprintf("/admin/api/items/%d/toggle", daily), nil); w.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", w.Code)
	}

	w, body := srv.do(t, 1, http.MethodGet, fmt.Sprintf("/admin/api/goals/%d/overview", goalID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("overview: expected 200, got %d", w.Code)
	}
	if body["done_count"] != float64(1) || body["item_count"] != float64(2) {
		t.Fatalf("unexpected counts: %v", body)
	}
	if vitality := object(t, body, "vitality"); vitality["label"] != "盛放" {
		t.Fatalf("expected chinese label by default, got %v", vitality["label"])
	}
}
