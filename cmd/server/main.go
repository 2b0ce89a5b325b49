package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/madhava-poojari/coursebook-api/internal/api/v1"
	"github.com/madhava-poojari/coursebook-api/internal/cache"
	"github.com/madhava-poojari/coursebook-api/internal/config"
	"github.com/madhava-poojari/coursebook-api/internal/server"
	"github.com/madhava-poojari/coursebook-api/internal/store"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	db, err := store.NewGormStore(cfg)
	if err != nil {
		logger.Error("database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	var files utils.FileStore
	uploadDir := ""
	if cfg.R2Enabled() {
		files = utils.NewR2Storage(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2Endpoint, cfg.R2BucketName, cfg.R2PublicBaseURL)
		logger.Info("uploads go to R2", "bucket", cfg.R2BucketName)
	} else {
		files = utils.NewFileStorage(cfg.UploadDir, cfg.UploadBaseURL)
		uploadDir = cfg.UploadDir
		logger.Info("uploads go to local disk", "dir", cfg.UploadDir)
	}

	listings := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, logger)
	defer listings.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.DeleteExpiredTokens(ctx); err != nil {
		logger.Warn("purging expired refresh tokens", "err", err)
	}

	svc := v1.NewServices(cfg, db, files, listings, logger)
	srv := server.NewServer(cfg, svc, logger).NewHTTPServer(uploadDir)

	go func() {
		logger.Info("listening", "addr", cfg.BindAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("stopped")
}
