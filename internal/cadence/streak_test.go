package cadence

import (
	"testing"
	"time"
)

func ptr(t time.Time) *time.Time {
	return &t
}

func TestIsDoneForCurrentPeriod(t *testing.T) {
	tests := []struct {
		name string
		item Item
		now  time.Time
		want bool
	}{
		{
			name: "daily same day",
			item: Item{Cadence: Daily, Completed: true, LastCompletedAt: ptr(at(2024, 3, 10, 8, 0))},
			now:  at(2024, 3, 10, 23, 0),
			want: true,
		},
		{
			name: "daily completed yesterday",
			item: Item{Cadence: Daily, Completed: true, LastCompletedAt: ptr(at(2024, 3, 9, 8, 0)), StoredStreak: 5},
			now:  at(2024, 3, 10, 9, 0),
			want: false,
		},
		{
			name: "flag cleared",
			item: Item{Cadence: Daily, Completed: false, LastCompletedAt: ptr(at(2024, 3, 10, 8, 0))},
			now:  at(2024, 3, 10, 9, 0),
			want: false,
		},
		{
			name: "never completed",
			item: Item{Cadence: Weekly, Completed: true},
			now:  at(2024, 3, 10, 9, 0),
			want: false,
		},
		{
			name: "weekly earlier in week",
			item: Item{Cadence: Weekly, Completed: true, LastCompletedAt: ptr(at(2024, 3, 11, 8, 0))},
			now:  at(2024, 3, 17, 20, 0),
			want: true,
		},
		{
			name: "quarterly stale flag",
			item: Item{Cadence: Quarterly, Completed: true, LastCompletedAt: ptr(at(2024, 3, 31, 8, 0))},
			now:  at(2024, 4, 1, 8, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDoneForCurrentPeriod(tt.item, tt.now); got != tt.want {
				t.Fatalf("IsDoneForCurrentPeriod = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDoneForCurrentPeriodDailyMidnight(t *testing.T) {
	now := at(2024, 3, 10, 17, 42)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	item := Item{Cadence: Daily, Completed: true, LastCompletedAt: &midnight}
	if !IsDoneForCurrentPeriod(item, now) {
		t.Fatal("expected completion at local midnight to count for the day")
	}
}

func TestEffectiveStreak(t *testing.T) {
	tests := []struct {
		name string
		item Item
		now  time.Time
		want int
	}{
		{
			name: "daily yesterday keeps streak",
			item: Item{Cadence: Daily, Completed: true, LastCompletedAt: ptr(at(2024, 3, 9, 8, 0)), StoredStreak: 5},
			now:  at(2024, 3, 10, 9, 0),
			want: 5,
		},
		{
			name: "daily two days lapsed",
			item: Item{Cadence: Daily, Completed: true, LastCompletedAt: ptr(at(2024, 3, 8, 8, 0)), StoredStreak: 5},
			now:  at(2024, 3, 10, 9, 0),
			want: 0,
		},
		{
			name: "daily same day",
			item: Item{Cadence: Daily, Completed: true, LastCompletedAt: ptr(at(2024, 3, 10, 8, 0)), StoredStreak: 2},
			now:  at(2024, 3, 10, 9, 0),
			want: 2,
		},
		{
			name: "weekly sunday to tuesday",
			item: Item{Cadence: Weekly, Completed: true, LastCompletedAt: ptr(at(2024, 3, 10, 8, 0)), StoredStreak: 4},
			now:  at(2024, 3, 12, 9, 0),
			want: 4,
		},
		{
			name: "weekly skipped a week",
			item: Item{Cadence: Weekly, Completed: true, LastCompletedAt: ptr(at(2024, 3, 10, 8, 0)), StoredStreak: 4},
			now:  at(2024, 3, 18, 9, 0),
			want: 0,
		},
		{
			name: "monthly grace across year",
			item: Item{Cadence: Monthly, LastCompletedAt: ptr(at(2024, 12, 1, 8, 0)), StoredStreak: 12},
			now:  at(2025, 1, 31, 9, 0),
			want: 12,
		},
		{
			name: "quarterly q4 to q1",
			item: Item{Cadence: Quarterly, LastCompletedAt: ptr(at(2024, 10, 1, 8, 0)), StoredStreak: 3},
			now:  at(2025, 3, 31, 9, 0),
			want: 3,
		},
		{
			name: "annual lapsed",
			item: Item{Cadence: Annual, LastCompletedAt: ptr(at(2022, 6, 1, 8, 0)), StoredStreak: 3},
			now:  at(2024, 1, 1, 9, 0),
			want: 0,
		},
		{
			name: "stored zero",
			item: Item{Cadence: Daily, Completed: true, LastCompletedAt: ptr(at(2024, 3, 10, 8, 0))},
			now:  at(2024, 3, 10, 9, 0),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveStreak(tt.item, tt.now); got != tt.want {
				t.Fatalf("EffectiveStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEffectiveStreakWithoutCompletionIsZero(t *testing.T) {
	now := at(2024, 3, 10, 9, 0)
	for _, c := range All() {
		for i := 0; i < 400; i += 37 {
			item := Item{Cadence: c, Completed: true, StoredStreak: 9}
			if got := EffectiveStreak(item, now.AddDate(0, 0, i)); got != 0 {
				t.Fatalf("%v: expected 0 without completion, got %d", c, got)
			}
		}
	}
}

func TestEffectiveStreakNeverGrowsAsTimeAdvances(t *testing.T) {
	last := at(2024, 3, 10, 8, 0)
	for _, c := range All() {
		item := Item{Cadence: c, Completed: true, LastCompletedAt: &last, StoredStreak: 7}
		prev := EffectiveStreak(item, last)
		for hours := 1; hours <= 24*800; hours += 5 {
			now := last.Add(time.Duration(hours) * time.Hour)
			got := EffectiveStreak(item, now)
			if got > prev {
				t.Fatalf("%v: streak grew from %d to %d at %s", c, prev, got, now)
			}
			if again := EffectiveStreak(item, now); again != got {
				t.Fatalf("%v: repeated call differs: %d vs %d", c, got, again)
			}
			prev = got
		}
		if prev != 0 {
			t.Fatalf("%v: expected streak to decay to 0, got %d", c, prev)
		}
	}
}

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name        string
		item        Item
		now         time.Time
		wantStreak  int
		wantCounted bool
	}{
		{
			name:        "first completion",
			item:        Item{Cadence: Daily},
			now:         at(2024, 3, 10, 9, 0),
			wantStreak:  1,
			wantCounted: true,
		},
		{
			name:        "double toggle same day",
			item:        Item{Cadence: Daily, Completed: true, LastCompletedAt: ptr(at(2024, 3, 10, 8, 0)), StoredStreak: 3},
			now:         at(2024, 3, 10, 21, 0),
			wantStreak:  3,
			wantCounted: false,
		},
		{
			name:        "continues from yesterday",
			item:        Item{Cadence: Daily, Completed: true, LastCompletedAt: ptr(at(2024, 3, 9, 8, 0)), StoredStreak: 5},
			now:         at(2024, 3, 10, 9, 0),
			wantStreak:  6,
			wantCounted: true,
		},
		{
			name:        "lapsed resets to one",
			item:        Item{Cadence: Daily, Completed: true, LastCompletedAt: ptr(at(2024, 3, 8, 8, 0)), StoredStreak: 5},
			now:         at(2024, 3, 10, 9, 0),
			wantStreak:  1,
			wantCounted: true,
		},
		{
			name:        "weekly next week",
			item:        Item{Cadence: Weekly, LastCompletedAt: ptr(at(2024, 3, 10, 8, 0)), StoredStreak: 2},
			now:         at(2024, 3, 12, 9, 0),
			wantStreak:  3,
			wantCounted: true,
		},
		{
			name:        "same period with zero stored",
			item:        Item{Cadence: Monthly, LastCompletedAt: ptr(at(2024, 3, 1, 8, 0))},
			now:         at(2024, 3, 12, 9, 0),
			wantStreak:  1,
			wantCounted: true,
		},
		{
			name:        "preceding period with zero stored",
			item:        Item{Cadence: Monthly, LastCompletedAt: ptr(at(2024, 2, 1, 8, 0))},
			now:         at(2024, 3, 12, 9, 0),
			wantStreak:  1,
			wantCounted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, counted := NextStreak(tt.item, tt.now)
			if streak != tt.wantStreak || counted != tt.wantCounted {
				t.Fatalf("NextStreak = (%d, %v), want (%d, %v)", streak, counted, tt.wantStreak, tt.wantCounted)
			}
		})
	}
}
