package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/auth"
	"github.com/thinkeasyacademy/Dayplanner/internal/cache"
	"github.com/thinkeasyacademy/Dayplanner/internal/config"
	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/handlers"
	"github.com/thinkeasyacademy/Dayplanner/internal/reminder"
	"github.com/thinkeasyacademy/Dayplanner/internal/repo"
	"github.com/thinkeasyacademy/Dayplanner/internal/service"
	"github.com/thinkeasyacademy/Dayplanner/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine and returns the session
// manager backing /session.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, log *slog.Logger) (*session.Manager, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}
	loc, err := cfg.Reminder.Location()
	if err != nil {
		return nil, err
	}

	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(repo.NewPGTaskRepo(db), taskCache, cache.NewChanges(rdb), reminder.SystemClock{Location: loc})
	runtimes := session.NewManager(TaskFeeds(taskSvc), SessionOptions(cfg, loc, log))

	sessionStore := auth.NewStore(rdb, cfg.Session.TTL.Duration())
	userSvc := service.NewUserService(repo.NewPGUserRepo(db))
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc, runtimes)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(sessionStore))
	protected.DELETE("/account", authHandler.DeleteAccount)

	registerTaskRoutes(protected, handlers.NewTaskHandler(taskSvc))

	projectSvc := service.NewProjectService(repo.NewPGProjectRepo(db), taskSvc)
	registerProjectRoutes(protected, handlers.NewProjectHandler(projectSvc))

	profileSvc := service.NewProfileService(repo.NewPGProfileRepo(db), runtimes)
	profileHandler := handlers.NewProfileHandler(profileSvc)
	protected.GET("/profile", profileHandler.Get)
	protected.PUT("/profile", profileHandler.Put)

	registerSessionRoutes(protected, handlers.NewSessionHandler(runtimes, profileSvc))
	return runtimes, nil
}

// TaskFeeds reads each user's tasks through the cached task service.
func TaskFeeds(tasks *service.TaskService) session.FeedFactory {
	return func(userID int64) session.Feed {
		return session.FeedFunc(func(ctx context.Context) ([]dom.Task, error) {
			return tasks.List(ctx, userID)
		})
	}
}

// SessionOptions maps the reminder config onto runtime options.
func SessionOptions(cfg config.Config, loc *time.Location, log *slog.Logger) session.Options {
	return session.Options{
		PollInterval: cfg.Reminder.PollInterval.Duration(),
		CatchUp:      cfg.Reminder.CatchUp.Duration(),
		Location:     loc,
		AppName:      cfg.Reminder.AppName,
		FeedTimeout:  cfg.Reminder.FeedTimeout.Duration(),
		Logger:       log,
	}
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Dayplanner API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.GET("/tasks/summary", h.Summary)
	api.GET("/tasks/search", h.Search)
	api.GET("/tasks/:id", h.GetByID)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.POST("/tasks/:id/toggle", h.Toggle)
}

func registerProjectRoutes(api *gin.RouterGroup, h *handlers.ProjectHandler) {
	api.POST("/projects", h.Create)
	api.GET("/projects", h.List)
	api.PATCH("/projects/:id", h.Update)
	api.DELETE("/projects/:id", h.Delete)
}

func registerSessionRoutes(api *gin.RouterGroup, h *handlers.SessionHandler) {
	api.GET("/session/events", h.Events)
	api.GET("/session/state", h.State)
	api.POST("/session/back", h.Back)
	api.POST("/session/overlays", h.OpenOverlay)
	api.DELETE("/session/overlays/:surface", h.CloseOverlay)
	api.POST("/session/reminder/dismiss", h.DismissReminder)
	api.POST("/session/reminder/view", h.ViewReminder)
	api.PUT("/session/notification-permission", h.SetPermission)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}
