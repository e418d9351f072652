// @title           Dayplanner API
// @version         1.0
// @description     Day planner with tasks, notes, projects and in-session reminders.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        session_id
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/app"
	"github.com/thinkeasyacademy/Dayplanner/internal/config"

	"github.com/joho/godotenv"

	_ "github.com/thinkeasyacademy/Dayplanner/docs"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := app.NewLogger(cfg.App, os.Stdout)
	logger.Info("config loaded, connecting to DB and Redis")

	application, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("app init: %v", err)
	}
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serveErr:
		logger.Error("HTTP server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Event streams only end when their session runtimes stop.
	if err := application.StopSessions(ctx); err != nil {
		logger.Error("stop sessions", "error", err)
	}
	shutdownErr := server.Shutdown(ctx)
	if err := application.Close(ctx); err != nil {
		logger.Error("app close", "error", err)
	}
	if shutdownErr != nil {
		logger.Error("HTTP shutdown", "error", shutdownErr)
		os.Exit(1)
	}
}
