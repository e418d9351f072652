package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/cache"
	"github.com/thinkeasyacademy/Dayplanner/internal/config"
	"github.com/thinkeasyacademy/Dayplanner/internal/session"
	"github.com/thinkeasyacademy/Dayplanner/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg      config.Config
	db       *pgxpool.Pool
	redis    *redis.Client
	router   *gin.Engine
	sessions *session.Manager
	log      *slog.Logger

	stopListening context.CancelFunc
	listening     chan struct{}
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	db, err := NewPostgres(cfg.PG.DSN)
	if err != nil {
		return nil, err
	}
	a.db = db

	rdb, err := NewRedis(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.redis = rdb

	if err := RunMigrations(cfg.PG.DSN); err != nil {
		a.redis.Close()
		a.db.Close()
		return nil, err
	}

	router, sessions, err := newRouter(cfg, a.db, a.redis, log)
	if err != nil {
		a.redis.Close()
		a.db.Close()
		return nil, err
	}
	a.router = router
	a.sessions = sessions
	a.listenForChanges()
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// listenForChanges re-evaluates reminders of every local session whose
// user's tasks changed, in this or another API process.
func (a *App) listenForChanges() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopListening = cancel
	a.listening = make(chan struct{})
	changes := cache.NewChanges(a.redis)
	go func() {
		defer close(a.listening)
		for {
			err := changes.Listen(ctx, func(userID int64) {
				pokeCtx, cancel := context.WithTimeout(ctx, a.cfg.Reminder.FeedTimeout.Duration())
				defer cancel()
				a.sessions.Poke(pokeCtx, userID)
			})
			if ctx.Err() != nil {
				return
			}
			a.log.Warn("task change subscription lost, retrying", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}()
}

// StopSessions stops every session runtime, which also ends their event
// streams. Call it before shutting the HTTP server down.
func (a *App) StopSessions(ctx context.Context) error {
	if a.stopListening != nil {
		a.stopListening()
		<-a.listening
		a.stopListening = nil
	}
	if a.sessions == nil {
		return nil
	}
	return a.sessions.Shutdown(ctx)
}

// Close stops what StopSessions did not yet, then the Redis and Postgres
// clients.
func (a *App) Close(ctx context.Context) error {
	err := a.StopSessions(ctx)
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return err
}

// NewPostgres opens and pings a pgx pool.
func NewPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

// NewRedis opens and pings a Redis client.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, log *slog.Logger) (*gin.Engine, *session.Manager, error) {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	sessions, err := Setup(r, cfg, db, rdb, log)
	if err != nil {
		return nil, nil, err
	}
	return r, sessions, nil
}
