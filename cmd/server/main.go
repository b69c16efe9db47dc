package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental/internal/cache"
	"rental/internal/config"
	"rental/internal/db"
	"rental/internal/handlers"
	"rental/internal/metrics"
	"rental/internal/services"
	"rental/internal/store"
	"rental/internal/websocket"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	properties := store.NewPropertyStore(database)
	units := store.NewUnitStore(database)
	tenants := store.NewTenantStore(database)
	leases := store.NewLeaseStore(database)
	payments := store.NewPaymentStore(database)
	receipts := store.NewReceiptStore(database)
	settings := store.NewSettingsStore(database)
	audit := store.NewAuditStore(database)
	users := store.NewUserStore(database)
	txRunner := db.NewTxRunner(database, logger)
	hub := websocket.NewHub()
	m := metrics.New()

	deps := services.Deps{
		TxRunner: txRunner,
		Audit:    audit,
		Hub:      hub,
		Metrics:  m,
		Logger:   logger,
	}
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, dashboard cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer client.Close()
			deps.Cache = cache.NewRedis(client, "dashboard", cfg.DashboardTTL, logger)
		}
	}

	svc := handlers.Services{
		Catalog:  services.NewCatalogService(deps, properties, units, tenants, leases),
		Leases:   services.NewLeaseService(deps, leases, units, tenants, payments),
		Ledger:   services.NewLedgerService(deps, leases, payments, receipts, settings),
		Reports:  services.NewReportService(deps, properties, units, tenants, leases, payments, settings),
		Settings: services.NewSettingsService(deps, settings),
		Backup:   services.NewBackupService(deps, store.NewSnapshotStore(database)),
	}
	handler := handlers.New(cfg, logger, txRunner, users, audit, svc, hub, m)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("rental API listening", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
