package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/salescast/internal/api"
	"github.com/andresuchdata/salescast/internal/bootstrap"
	"github.com/andresuchdata/salescast/internal/config"
	"github.com/andresuchdata/salescast/internal/forecast"
	"github.com/andresuchdata/salescast/internal/service"
	"github.com/andresuchdata/salescast/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.File)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Initialize record store and locks
	res, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer res.Close()

	completer, closeCompleter := bootstrap.NewCompleter(ctx, cfg.Chat)
	defer closeCompleter()

	// Initialize services
	services := &api.Services{
		Sales:     service.NewSalesService(res.Sales, res.Locker),
		Inventory: service.NewInventoryService(res.Products, res.Locker),
		Dashboard: service.NewDashboardService(res.Sales, forecast.NewEngine()),
		Chat:      service.NewChatService(res.Products, res.Sales, completer),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
