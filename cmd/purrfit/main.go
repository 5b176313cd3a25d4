// Command purrfit runs the cat weight log web service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zaocat/Purrfit/internal/auth"
	"github.com/zaocat/Purrfit/internal/backup"
	"github.com/zaocat/Purrfit/internal/config"
	blobinfra "github.com/zaocat/Purrfit/internal/infra/blob"
	"github.com/zaocat/Purrfit/internal/infra/persistence"
	"github.com/zaocat/Purrfit/internal/logging"
	"github.com/zaocat/Purrfit/internal/service"
	"github.com/zaocat/Purrfit/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("info", "")
		fallback.Fatal("failed to load configuration", zap.Error(err))
	}

	log := logging.New(cfg.LogLevel, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.Open(ctx, cfg.StorageDriver, cfg.SQLitePath, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}

	blobs, err := blobinfra.Open(ctx, cfg.BlobDriver, blobinfra.Options{
		FSRoot:      cfg.BlobFSRoot,
		S3Region:    cfg.BlobS3Region,
		S3Bucket:    cfg.BlobS3Bucket,
		S3Endpoint:  cfg.BlobS3Endpoint,
		S3PathStyle: cfg.BlobS3PathStyle,
	})
	if err != nil {
		log.Fatal("failed to open blob store", zap.Error(err))
	}

	svc := service.New(store, cfg.SeedCats, log)
	authn := auth.New(cfg.AdminUser, cfg.AdminPass)

	worker := backup.NewWorker(store, blobs, log)
	worker.Start()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(svc, authn, worker, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutdown signal received")
		cancel()
	}()

	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := worker.Stop(shutdownCtx); err != nil {
		log.Error("backup worker shutdown failed", zap.Error(err))
	}
	log.Info("stopped")
}
