package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	grpcctx "github.com/dtroode/senderkeys/internal/api/grpc/context"
	"github.com/dtroode/senderkeys/internal/api/grpc/router"
	grpcServer "github.com/dtroode/senderkeys/internal/api/grpc/server"
	"github.com/dtroode/senderkeys/internal/config"
	"github.com/dtroode/senderkeys/internal/logger"
	"github.com/dtroode/senderkeys/internal/model"
	"github.com/dtroode/senderkeys/internal/repository/postgres"
	"github.com/dtroode/senderkeys/internal/server"
	"github.com/dtroode/senderkeys/internal/service"
	storage "github.com/dtroode/senderkeys/internal/storage/minio"
	"github.com/dtroode/senderkeys/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := config.LoadDotenvIfPresent(".env"); err != nil {
		log.Printf("dotenv: %v", err)
	}
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	backupRepo := postgres.NewBackupRepository(db)
	backupService := service.NewBackup(backupRepo, storageClient, logger)
	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger)

	r := router.New(backupService, tokenService, grpcctx.NewManager(), logger)
	grpcServer := grpcServer.NewGRPCServer(r.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	r.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GRPC.ShutdownTimeout)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
