package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/vgrabba/internal/api"
	"github.com/iconidentify/vgrabba/internal/api/handler"
	"github.com/iconidentify/vgrabba/internal/config"
	"github.com/iconidentify/vgrabba/internal/domain"
	"github.com/iconidentify/vgrabba/internal/downloader"
	"github.com/iconidentify/vgrabba/internal/service"
	"github.com/iconidentify/vgrabba/pkg/ytdlp"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vgrabba %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Bootstrap logger until the configured one is available
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = newLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting vgrabba",
		"version", Version,
		"build_time", BuildTime,
	)

	if err := os.MkdirAll(cfg.Storage.TempPath, 0755); err != nil {
		logger.Error("failed to create temp directory", "error", err)
		os.Exit(1)
	}

	// Initialize dependencies
	extractor := ytdlp.NewClient(cfg.Extractor)
	extractor.SetLogger(logger)
	if err := extractor.Available(); err != nil {
		logger.Warn("extractor not available, requests will fail until it is installed",
			"binary", extractor.BinaryPath(),
			"error", err,
		)
	}

	dl := downloader.NewHTTPDownloader(cfg.Download)
	dl.SetLogger(logger)

	platform := domain.NewHostFilter(cfg.Platform.Domains, cfg.Platform.ShortHosts)
	thumbnailHosts := domain.NewHostFilter(cfg.Platform.ThumbnailDomains, nil)

	// Initialize services
	mediaSvc := service.NewMediaService(extractor, platform, cfg.Storage.TempPath, logger)
	thumbSvc := service.NewThumbnailService(dl, thumbnailHosts, logger)

	// Initialize handlers
	mediaHandler := handler.NewMediaHandler(mediaSvc, logger)
	thumbnailHandler := handler.NewThumbnailHandler(thumbSvc, logger)
	healthHandler := handler.NewHealthHandler(extractor, cfg.Storage.TempPath)

	// Setup router
	router := api.NewRouter(mediaHandler, thumbnailHandler, healthHandler, cfg.Server.RequestTimeout)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
