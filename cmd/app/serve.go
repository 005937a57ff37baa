package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	dbadapter "feedline/internal/adapters/database"
	"feedline/internal/adapters/filesystem"
	"feedline/internal/adapters/graphqlapi"
	"feedline/internal/adapters/httpapi"
	"feedline/internal/adapters/objectstore"
	redisadapter "feedline/internal/adapters/redis"
	"feedline/internal/config"
	feedapp "feedline/internal/core/feed/service"
	userapp "feedline/internal/core/user/service"
	"feedline/internal/core/validation"
	imagePort "feedline/internal/ports/image"
	cleanupPort "feedline/internal/ports/imagecleanup"
	"feedline/internal/workers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the image cleanup worker",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load() // بارگذاری تنظیمات از .env
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := config.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// اتصال به دیتابیس و اجرای مایگریشن‌ها
	db, err := config.InitDB(cfg, logger)
	if err != nil {
		return err
	}
	defer config.CloseDB(db, logger)

	if err := dbadapter.Migrate(db); err != nil {
		logger.Error("Error during migrations", zap.Error(err))
		return err
	}
	logger.Info("✅ Database migrations completed")

	// Redis اختیاری است؛ بدون آن worker با polling کار می‌کند
	redisClient, err := config.InitRedis(ctx, cfg, logger)
	if err != nil {
		return err
	}
	var notifier cleanupPort.CleanupNotifier
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("Error closing Redis connection", zap.Error(err))
			}
		}()
		notifier = redisadapter.NewCleanupNotifierRedis(redisClient, logger)
	}

	storage, err := newImageStorage(ctx, cfg)
	if err != nil {
		return err
	}

	st := dbadapter.NewStore(db) // آداپتر خروجی
	policy := validation.NewDefault()
	userSvc := userapp.NewUserService(st.Users(), policy, []byte(cfg.JWTSecret), cfg.JWTTTL, logger)
	feedSvc := feedapp.NewFeedService(st, policy, notifier, cfg.FeedPageSize, logger)

	schema, err := graphqlapi.NewSchema(userSvc, feedSvc, logger)
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}

	opts := httpapi.Options{
		CORSOrigin:     cfg.CORSOrigin,
		MaxUploadBytes: cfg.MaxUploadBytes,
		GraphQL:        graphqlapi.Handler(schema, logger),
	}
	if cfg.StorageDriver == "local" {
		opts.ImageDir = cfg.ImageDir
	}
	r := httpapi.SetupRoutes(userSvc, feedSvc, storage, opts, logger) // تزریق یوزکیس به آداپتر ورودی

	cleanupWorker := workers.NewCleanupWorker(st.Cleanup(), notifier, storage, cfg.CleanupBatchSize, cfg.CleanupPollInterval, logger)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		cleanupWorker.Run(ctx) // اجرای worker در پس‌زمینه
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to start", zap.Error(err))
			stop()
			<-workerDone
			return err
		}
	}

	logger.Info("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
	}
	<-workerDone
	return nil
}

func newImageStorage(ctx context.Context, cfg *config.Config) (imagePort.ImageStorage, error) {
	if cfg.StorageDriver == "s3" {
		return objectstore.NewImageStorageS3(ctx, objectstore.Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return filesystem.NewImageStorageLocal(cfg.ImageDir)
}
