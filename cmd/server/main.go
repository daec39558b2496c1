package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/mediannsp/internal/bootstrap"
	"anoa.com/mediannsp/internal/config"
	photoRepo "anoa.com/mediannsp/internal/modules/photo/repository"
	photoService "anoa.com/mediannsp/internal/modules/photo/service"
	"anoa.com/mediannsp/internal/server"
	"anoa.com/mediannsp/pkg/database"
	"anoa.com/mediannsp/pkg/ratelimiter"
	"anoa.com/mediannsp/pkg/storage"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := config.SetupLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.DB, logger); err != nil {
		return err
	}
	db, err := database.Open(cfg.DB, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", slog.Any("error", err))
		}
	}()

	if err := bootstrap.SeedRoles(ctx, db); err != nil {
		return err
	}
	if err := bootstrap.SeedAdminUser(ctx, db, cfg, logger); err != nil {
		return err
	}

	redisClient, err := ratelimiter.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient == nil {
		logger.Warn("REDIS_URL not set, login throttling disabled")
	} else {
		defer redisClient.Close()
	}

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return err
	}

	cleanup := photoService.NewCleanupService(photoRepo.NewPhotoRepository(db), store, logger)
	scheduler, err := bootstrap.StartJobs(cfg, cleanup, logger)
	if err != nil {
		return err
	}

	srv := server.New(server.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Storage: store,
		Logger:  logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		<-scheduler.Stop().Done()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		err = errors.Join(err, errors.New("background jobs did not finish before shutdown timeout"))
	}
	return err
}
