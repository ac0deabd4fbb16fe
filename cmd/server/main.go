package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	config "github.com/avatarctic/status-service/configs"
	"github.com/avatarctic/status-service/internal/app"
	"github.com/avatarctic/status-service/internal/infrastructure/httpserver"
	"github.com/avatarctic/status-service/internal/infrastructure/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := app.NewLogger(cfg.Log, os.Stdout)
	logger.Info("Starting status service...")

	statusMetrics, err := metrics.NewStatusMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("Failed to register status metrics:", err)
	}

	application, err := app.New(cfg, statusMetrics, logger)
	if err != nil {
		logger.Fatal("Failed to assemble status service:", err)
	}
	defer application.Close()

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ServiceName:    cfg.Server.ServiceName,
		Version:        cfg.Server.Version,
	}
	server := httpserver.NewServer(serverConfig, logger, httpserver.ServerDeps{
		StatusService: application.StatusService,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
