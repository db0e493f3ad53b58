// Package cli implements the habitctl operator commands.
//
// habitctl reads the same SQLite database as the server and prints JSON, which
// makes it handy for inspecting items at an arbitrary instant via --at.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/habitgarden/internal/config"
	"github.com/habitgarden/internal/db"
	"github.com/habitgarden/internal/lock"
	"github.com/habitgarden/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type options struct {
	dbPath   string
	timezone string
	at       string
	redisURL string
	lockTTL  time.Duration
}

// services 是单次命令执行期间使用的依赖
type services struct {
	gdb        *gorm.DB
	locker     lock.Locker
	status     *service.StatusService
	completion *service.CompletionService
	now        time.Time
	closers    []func() error
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// NewRootCmd builds the top-level command. Flag defaults come from the
// same environment variables as the server.
func NewRootCmd() *cobra.Command {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.AppConfig{DatabasePath: "habitgarden.db", Timezone: "Local"}
	}

	opts := &options{}
	root := &cobra.Command{
		Use:           "habitctl",
		Short:         "Inspect and toggle habitgarden items",
		Long:          "Operator CLI for habitgarden. Reads the server database directly and prints JSON.",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.dbPath, "db", "d", cfg.DatabasePath, "Database path (default: $DATABASE_PATH)")
	flags.StringVar(&opts.timezone, "tz", cfg.Timezone, "IANA timezone used for calendar dates (default: $TIMEZONE)")
	flags.StringVar(&opts.at, "at", "", "Evaluate at this RFC3339 instant instead of now")
	flags.StringVar(&opts.redisURL, "redis", cfg.RedisURL, "Redis URL for the item lock (default: $REDIS_URL)")
	flags.DurationVar(&opts.lockTTL, "lock-ttl", cfg.LockTTL, "Redis lock TTL")

	root.AddCommand(
		newStatusCmd(opts),
		newOverviewCmd(opts),
		newVitalityCmd(opts),
		newStreakCmd(opts),
		newToggleCmd(opts),
	)
	return root
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *options) now() (time.Time, error) {
	loc, err := config.AppConfig{Timezone: o.timezone}.Location()
	if err != nil {
		return time.Time{}, err
	}
	if o.at == "" {
		return time.Now().In(loc), nil
	}
	at, err := time.Parse(time.RFC3339, o.at)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --at: %w", err)
	}
	return at.In(loc), nil
}

func (o *options) open(withLocker bool) (*services, error) {
	now, err := o.now()
	if err != nil {
		return nil, err
	}

	gdb, err := db.Open(o.dbPath, logger.Silent)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &services{gdb: gdb, now: now}
	if sqlDB, err := gdb.DB(); err == nil {
		s.closers = append(s.closers, sqlDB.Close)
	}

	if withLocker {
		if o.redisURL != "" {
			redisLocker, err := lock.NewRedisLocker(o.redisURL, o.lockTTL)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.closers = append(s.closers, redisLocker.Close)
			s.locker = redisLocker
		} else {
			s.locker = lock.NewMemoryLocker()
		}
	}

	goals := service.NewGoalService(gdb)
	items := service.NewItemService(gdb)
	logs := service.NewItemLogService(gdb)
	s.status = service.NewStatusService(goals, items, logs)
	s.completion = service.NewCompletionService(gdb, s.locker)
	return s, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
