// Package main provides the entry point for the cyclecoach webhook and
// dispatch server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/cyclecoach/engine/internal/archetype"
	"github.com/cyclecoach/engine/internal/config"
	"github.com/cyclecoach/engine/internal/database"
	"github.com/cyclecoach/engine/internal/dispatch"
	"github.com/cyclecoach/engine/internal/docstore"
	"github.com/cyclecoach/engine/internal/logger"
	"github.com/cyclecoach/engine/internal/notify"
	"github.com/cyclecoach/engine/internal/pipeline"
	"github.com/cyclecoach/engine/internal/repository"
	"github.com/cyclecoach/engine/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	appLog := logger.New(logger.ParseLevel(cfg.LogLevel))

	db, err := database.Open(database.Config{Path: cfg.Database.Path, MigrationsPath: cfg.Database.MigrationsPath})
	if err != nil {
		appLog.Error("opening database", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	defer db.Close()

	registry, err := archetype.BuildRegistry(archetype.BaseCategories(), archetype.ImportedCategories(), archetype.AdvancedCategories())
	if err != nil {
		appLog.Error("building archetype registry", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	store := docstore.New(cfg.Storage.AthletesDir)
	orchestrator := pipeline.New(store, registry, nil, nil, nil, appLog)

	var notifier notify.Notifier
	if cfg.Notify.ShoutrrrURL != "" {
		notifier = notify.NewShoutrrrNotifier(cfg.Notify.ShoutrrrURL)
	}

	disp := dispatch.New(
		repository.NewIdempotencyRepository(db),
		repository.NewRateLimitRepository(db),
		repository.NewOrderLogRepository(db),
		orchestrator, notifier, int64(cfg.Webhook.DispatchConcurrency), appLog,
	)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	handler := &webhook.Handler{Secret: cfg.Webhook.Secret, Dispatcher: disp, Log: appLog}
	handler.Register(engine, "/webhooks/purchase")
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		appLog.Info("shutting down server", nil)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			appLog.Error("graceful shutdown failed", map[string]interface{}{"error": err})
		}
	}()

	appLog.Info("starting server", map[string]interface{}{"port": cfg.Server.Port})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.Error("server error", map[string]interface{}{"error": err})
		os.Exit(1)
	}
}
