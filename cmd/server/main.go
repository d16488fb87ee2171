package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"growsense/internal/app"
	"growsense/internal/config"
	"growsense/internal/logging"
	"growsense/internal/pages"
	"growsense/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewConfiguredLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to configure logger: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"env":         cfg.Env,
		"config_file": cfg.ConfigFile,
		"store":       cfg.Store.Driver,
	}).Info("Configuration loaded")

	var telemetryOut io.Writer
	if cfg.Log.Telemetry {
		telemetryOut = os.Stdout
	}

	tp, err := telemetry.InitTracing(cfg.Service.Name, cfg.Service.Version, telemetryOut)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := telemetry.ShutdownTracing(context.Background(), tp); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	mp, err := telemetry.InitMetrics(cfg.Service.Name, cfg.Service.Version, telemetryOut)
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := telemetry.ShutdownMetrics(context.Background(), mp); err != nil {
			log.Printf("Error shutting down meter provider: %v", err)
		}
	}()

	repo, closeStore, err := newRepository(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize signup store")
	}
	defer closeStore()

	application, err := app.Build(&app.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Port:           cfg.Server.Port,
		Logger:         logger,
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  mp,
		GinMode:        cfg.Server.GinMode,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		Site: pages.Site{
			Brand:       cfg.Site.Brand,
			AnalyticsID: cfg.Site.AnalyticsID,
		},
		StoreDriver: cfg.Store.Driver,
		Repository:  repo,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to build application")
	}

	go func() {
		if err := application.Run(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
