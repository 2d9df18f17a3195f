package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"prestamos-backend/internal/app"
	"prestamos-backend/internal/config"
	"prestamos-backend/internal/infrastructure/cache"
	"prestamos-backend/internal/infrastructure/db"
	"prestamos-backend/internal/infrastructure/jobs"
	"prestamos-backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	log := logger.L()
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal("mysql connect failed", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.New(gdb, rdb, app.Options{
		IdempotencyTTL:   cfg.IdempotencyTTL(),
		SettingsCacheTTL: cfg.SettingsCacheTTL(),
		NotifierPoolSize: cfg.NotifierPoolSize,
		RequestTimeout:   cfg.RequestTimeout(),
		Registry:         reg,
	})
	if err != nil {
		log.Fatal("build app failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweep := jobs.NewOverdueSweepJob(a.Installments, cfg.OverdueSweepInterval())
	go sweep.Start(ctx)

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr))
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	sweep.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("bye")
}
