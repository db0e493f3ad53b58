package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/habitgarden/internal/cadence"
	"github.com/habitgarden/internal/service"
	"github.com/spf13/cobra"
)

type periodOutput struct {
	Key   string       `json:"key"`
	Start cadence.Date `json:"start"`
	End   cadence.Date `json:"end"`
}

type itemOutput struct {
	ID              uint          `json:"id"`
	GoalID          uint          `json:"goal_id"`
	Name            string        `json:"name"`
	Kind            string        `json:"kind"`
	Cadence         string        `json:"cadence,omitempty"`
	Done            bool          `json:"done"`
	EffectiveStreak int           `json:"effective_streak"`
	StoredStreak    int           `json:"stored_streak"`
	LastCompletedAt *time.Time    `json:"last_completed_at"`
	Period          *periodOutput `json:"period,omitempty"`
}

type vitalityOutput struct {
	GoalID       uint             `json:"goal_id"`
	Vitality     cadence.Vitality `json:"vitality"`
	LastActivity *time.Time       `json:"last_activity"`
}

func newItemOutput(status service.ItemStatus, loc *time.Location) itemOutput {
	out := itemOutput{
		ID:              status.Item.ID,
		GoalID:          status.Item.GoalID,
		Name:            status.Item.Name,
		Kind:            status.Item.Kind,
		Done:            status.Done,
		EffectiveStreak: status.EffectiveStreak,
		StoredStreak:    status.Item.Streak,
	}
	if status.Item.LastCompletedAt != nil {
		last := status.Item.LastCompletedAt.In(loc)
		out.LastCompletedAt = &last
	}
	if status.Recurring {
		out.Cadence = status.Cadence.String()
		out.Period = &periodOutput{Key: status.Period.Key(), Start: status.Period.Start, End: status.Period.End()}
	}
	return out
}

func newVitalityOutput(v service.GoalVitality, loc *time.Location) vitalityOutput {
	out := vitalityOutput{GoalID: v.GoalID, Vitality: v.Vitality}
	if v.LastActivity != nil {
		last := v.LastActivity.In(loc)
		out.LastActivity = &last
	}
	return out
}

func parseID(raw, what string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return uint(id), nil
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <item-id>",
		Short: "Show whether an item is done for its current period and its effective streak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			defer s.Close()

			status, err := s.status.ItemStatus(itemID, s.now)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), newItemOutput(*status, s.now.Location()))
		},
	}
}

func newOverviewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "overview <goal-id>",
		Short: "Show a goal's vitality and the status of every item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, err := parseID(args[0], "goal")
			if err != nil {
				return err
			}
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			defer s.Close()

			overview, err := s.status.GoalOverview(goalID, s.now)
			if err != nil {
				return err
			}

			loc := s.now.Location()
			items := make([]itemOutput, 0, len(overview.Items))
			for _, status := range overview.Items {
				items = append(items, newItemOutput(status, loc))
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"goal_id":    overview.Goal.ID,
				"name":       overview.Goal.Name,
				"vitality":   newVitalityOutput(overview.Vitality, loc),
				"done_count": overview.DoneCount,
				"items":      items,
			})
		},
	}
}

func newVitalityCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "vitality <goal-id>",
		Short: "Classify a goal by how recently any of its items saw activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, err := parseID(args[0], "goal")
			if err != nil {
				return err
			}
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			defer s.Close()

			vitality, err := s.status.GoalVitality(goalID, s.now)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), newVitalityOutput(*vitality, s.now.Location()))
		},
	}
}

func newStreakCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "streak <user-id>",
		Short: "Count consecutive days on which the user logged any item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user")
			if err != nil {
				return err
			}
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			defer s.Close()

			streak, err := s.status.UserStreak(userID, s.now)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"user_id": userID,
				"today":   cadence.DateOf(s.now),
				"streak":  streak,
			})
		},
	}
}

func newToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Toggle an item's completion for the period containing now (or --at)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[0], "item")
			if err != nil {
				return err
			}
			s, err := opts.open(true)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.completion.Toggle(cmd.Context(), itemID, s.now)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"completed": result.Completed,
				"counted":   result.Counted,
				"item":      newItemOutput(service.EvaluateItem(result.Item, s.now), s.now.Location()),
			})
		},
	}
}
