package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mortar/internal/config"
	"mortar/internal/customer"
	"mortar/internal/infrastructure/logger"
	"mortar/internal/infrastructure/mysql"
	"mortar/internal/ledger"
	"mortar/internal/middleware"
	"mortar/internal/product"
	"mortar/internal/purchase"
	"mortar/internal/report"
	"mortar/internal/sale"
	"mortar/internal/server"
	"mortar/internal/supplier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	// Both the sale and purchase flows mutate stock through this one ledger.
	stockLedger := ledger.NewMySQLLedger()

	controllers := server.Controllers{
		Products:  product.NewModule(db, zapLogger),
		Sales:     sale.NewModule(db, cfg, stockLedger, zapLogger),
		Purchases: purchase.NewModule(db, cfg, stockLedger, zapLogger),
		Customers: customer.NewModule(db, zapLogger),
		Suppliers: supplier.NewModule(db, zapLogger),
		Reports:   report.NewModule(db, zapLogger),
	}

	auth := middleware.NewAuth(cfg.Auth.Secret, zapLogger)

	router := server.NewRouter(controllers, auth, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
