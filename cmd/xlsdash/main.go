package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"xlsdash/internal/cache"
	"xlsdash/internal/cli"
	apphttp "xlsdash/internal/http"
	"xlsdash/internal/log"
	"xlsdash/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	res := cli.InitBackend(context.Background(), logger, cfg)
	svc := services.NewDashboardService(res.Deps(cfg.PreviewLimit, logger))

	cacheManager := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	cacheManager.Register(res.Memo)
	cacheManager.StartCleanup(cfg.CacheCleanupInterval)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		UploadRate:     cfg.UploadRate,
		ImportEnabled:  res.Remote != nil,
		MemoStats:      res.Memo.Stats,
		Logger:         logger,
	}, svc)

	// Uploads can be large; allow more than the default read window.
	srv.ReadTimeout = 60 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		svc.Wait()
		cacheManager.Stop()
		if err := res.Close(); err != nil {
			logger.Warn("Backend cleanup error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting xlsdash server",
			"port", cfg.Port,
			"import", cfg.ImportBackend,
			"amqp_enabled", res.Publisher != nil,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
