// cmd/server/main.go
package main

import (
	"context"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/magnatehq/magnate/internal/auth"
	"github.com/magnatehq/magnate/internal/config"
	"github.com/magnatehq/magnate/internal/database"
	"github.com/magnatehq/magnate/internal/engine"
	"github.com/magnatehq/magnate/internal/handlers"
	"github.com/magnatehq/magnate/internal/middleware"
	"github.com/magnatehq/magnate/internal/notify"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if err := auth.Init(cfg.TokenTTL); err != nil {
		logger.Fatalf("auth init: %v", err)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatalf("migrate: %v", err)
	}
	store := database.NewStore(pool)

	// Realtime fan-out is optional; the bank stays fully functional without
	// it, clients just fall back to polling.
	var notifier *notify.Publisher
	var engineNotifier engine.Notifier = engine.NopNotifier{}
	if cfg.RedisAddr != "" {
		notifier, err = notify.NewPublisher(cfg.RedisAddr, cfg.RedisDB, logger)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, realtime feed disabled")
		} else {
			defer notifier.Close()
			engineNotifier = notifier
		}
	}

	processor := engine.NewProcessor(store, engine.NewRoller(cfg.DiceSeed), engineNotifier, logger)
	srv := handlers.NewServer(processor, store, notifier, logger)

	addr := ":" + cfg.Port
	logger.Infof("listening on %s", addr)
	if err := http.ListenAndServe(addr, middleware.LogMiddleware(logger)(srv.Routes())); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
