package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"locatrajes/internal/commons"
	"locatrajes/internal/config"
	"locatrajes/internal/infrastructure/logger"
	"locatrajes/internal/infrastructure/metrics"
	"locatrajes/internal/infrastructure/mysql"
	"locatrajes/internal/rental"
	"locatrajes/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Auth.JWTSecret == "" {
		zapLogger.Fatal("JWT_SECRET must be set")
	}

	policy, err := commons.LoadRentalPolicy(cfg.Rental.PolicyFile)
	if err != nil {
		zapLogger.Fatal("loading rental policy", zap.Error(err))
	}
	zapLogger.Info("rental policy loaded",
		zap.Int("bufferDays", policy.BufferDays),
		zap.Int("alertWindowDays", policy.AlertWindowDays),
		zap.Strings("financialRoles", policy.FinancialRoles),
	)

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if err := mysql.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("running migrations", zap.Error(err))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	rentalModule := rental.NewModule(db, cfg, policy, zapLogger, m)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	err = rentalModule.Load(loadCtx)
	cancelLoad()
	if err != nil {
		zapLogger.Fatal("loading application state", zap.Error(err))
	}

	router := server.NewRouter(rentalModule, m, cfg.Auth.JWTSecret, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	if err := srv.Shutdown(context.Background()); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
