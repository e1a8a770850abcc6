package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mr1hm/go-disaster-hub/internal/api"
	"github.com/mr1hm/go-disaster-hub/internal/logging"
	"github.com/mr1hm/go-disaster-hub/internal/observability"
	"github.com/mr1hm/go-disaster-hub/internal/repository"
	"github.com/mr1hm/go-disaster-hub/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	// Reference tables are served from an in-memory copy of the catalog.
	db, err := repository.NewSQLiteDB(":memory:")
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	if err := db.SaveCatalog(cmd.Context(), cat); err != nil {
		return fmt.Errorf("load reference tables: %w", err)
	}

	metrics := observability.NewMetrics()

	sessions, err := session.NewRegistry(cfg.Sessions.Limit, session.WithEvictHook(api.SessionEnded(metrics)))
	if err != nil {
		return err
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(cat, db, sessions, metrics)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...", "sessions", sessions.Len())

	sessions.Close() // Close all event streams gracefully

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
