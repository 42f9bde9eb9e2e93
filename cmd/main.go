package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/salescribe/salescribe-server/internal/api/http/router"
	httpServer "github.com/salescribe/salescribe-server/internal/api/http/server"
	"github.com/salescribe/salescribe-server/internal/config"
	"github.com/salescribe/salescribe-server/internal/logger"
	"github.com/salescribe/salescribe-server/internal/model"
	"github.com/salescribe/salescribe-server/internal/pipeline"
	"github.com/salescribe/salescribe-server/internal/repository/postgres"
	"github.com/salescribe/salescribe-server/internal/service"
	storage "github.com/salescribe/salescribe-server/internal/storage/minio"
	"github.com/salescribe/salescribe-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	// Refuse to sign tokens with an absent secret.
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	meetingRepo := postgres.NewMeetingRepository(db)
	analysisRepo := postgres.NewAnalysisRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

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

	pipelineClient := pipeline.NewClient(cfg.Pipeline.BaseURL, cfg.Pipeline.APIKey, logger.WithComponent("pipeline"))

	authService := service.NewAuth(userRepo, tokenManager, logger)
	meetingService := service.NewMeeting(meetingRepo, analysisRepo, storageClient, logger)
	analysisService := service.NewAnalysis(meetingRepo, analysisRepo, storageClient, pipelineClient, logger)
	accessService := service.NewAccess(tokenManager, meetingRepo, logger)

	r := router.New(authService, meetingService, analysisService, accessService, tokenManager, cfg.Pipeline.CallbackSecret, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = httpServer.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = httpServer.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
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
