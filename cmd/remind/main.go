// Command remind runs reminders for one user in a terminal and lists the
// reminders coming up on a day.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/app"
	"github.com/thinkeasyacademy/Dayplanner/internal/cache"
	"github.com/thinkeasyacademy/Dayplanner/internal/config"
	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/reminder"
	"github.com/thinkeasyacademy/Dayplanner/internal/repo"
	"github.com/thinkeasyacademy/Dayplanner/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "remind",
		Short:        "Terminal reminders for Dayplanner tasks",
		Version:      Version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("user", "u", "", "Username whose tasks are read")
	_ = rootCmd.MarkPersistentFlagRequired("user")

	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(upcomingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what both subcommands need: the user, their tasks and the stores
// behind them.
type env struct {
	cfg   config.Config
	log   *slog.Logger
	loc   *time.Location
	db    *pgxpool.Pool
	rdb   *redis.Client
	user  dom.User
	tasks *service.TaskService
}

func openEnv(cmd *cobra.Command) (*env, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	loc, err := cfg.Reminder.Location()
	if err != nil {
		return nil, err
	}
	log := app.NewLogger(cfg.App, os.Stderr)

	db, err := app.NewPostgres(cfg.PG.DSN)
	if err != nil {
		return nil, err
	}
	rdb, err := app.NewRedis(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	username, _ := cmd.Flags().GetString("user")
	user, err := repo.NewPGUserRepo(db).GetByUsername(cmd.Context(), username)
	if err != nil {
		_ = rdb.Close()
		db.Close()
		return nil, fmt.Errorf("user %q: %w", username, err)
	}

	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	tasks := service.NewTaskService(repo.NewPGTaskRepo(db), taskCache, nil, reminder.SystemClock{Location: loc})
	return &env{cfg: cfg, log: log, loc: loc, db: db, rdb: rdb, user: user, tasks: tasks}, nil
}

func (e *env) Close() {
	_ = e.rdb.Close()
	e.db.Close()
}
