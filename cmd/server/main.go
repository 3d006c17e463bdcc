package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "invoicecheck/docs"
	"invoicecheck/internal/config"
	"invoicecheck/internal/email/noop"
	"invoicecheck/internal/email/ses"
	"invoicecheck/internal/gsppi"
	"invoicecheck/internal/handler"
	"invoicecheck/internal/logging"
	"invoicecheck/internal/parser"
	_ "invoicecheck/internal/parser/claude"
	_ "invoicecheck/internal/parser/gemini"
	_ "invoicecheck/internal/parser/openai"
	_ "invoicecheck/internal/parser/rules"
	"invoicecheck/internal/port"
	"invoicecheck/internal/repository/postgres"
	"invoicecheck/internal/router"
	"invoicecheck/internal/service"
	s3storage "invoicecheck/internal/storage/s3"
)

// @title Invoice Check API
// @version 1.0
// @description Extracts fields from single-page GST tax invoices and validates them against the supplier's billing profile.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	profile, err := config.LoadProfile(cfg.Profile.Path)
	if err != nil {
		return fmt.Errorf("failed to load billing profile: %w", err)
	}

	extractor, err := parser.NewChain(&cfg.Extractor, parser.Options{Profile: profile, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to initialize extractor chain: %w", err)
	}

	// Persistence is optional; without a database runs are not recorded.
	var (
		db       *sqlx.DB
		runRepo  port.ValidationRunRepository
		billRepo port.ProcessedBillRepository
	)
	if cfg.DB.Enabled {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		runRepo = postgres.NewValidationRunRepo(db)
		billRepo = postgres.NewProcessedBillRepo(db)
	}

	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	emailSender, err := newEmailSender(&cfg.Email, logger)
	if err != nil {
		return err
	}

	invoiceSvc := service.NewInvoiceService(service.InvoiceServiceDeps{
		Parser:  extractor,
		Profile: profile,
		RunRepo: runRepo,
		Storage: storage,
		S3:      cfg.S3,
		Upload:  cfg.Upload,
		Logger:  logger,
	})
	batchSvc := service.NewBatchService(service.BatchServiceDeps{
		Source:      gsppi.NewClient(cfg.GSPPI, logger),
		Invoices:    invoiceSvc,
		Bills:       billRepo,
		Email:       emailSender,
		NotifyTo:    cfg.Batch.NotifyTo,
		Concurrency: cfg.Batch.Concurrency,
		Logger:      logger,
	})

	var authSvc service.AuthService
	if cfg.Auth.Enabled {
		authSvc = service.NewAuthService(cfg.Auth.Clients, cfg.JWT)
	}

	r := router.Setup(logger, cfg.CORS.AllowedOrigins, authSvc, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Invoice: handler.NewInvoiceHandler(invoiceSvc),
		Batch:   handler.NewBatchHandler(batchSvc),
		Run:     handler.NewRunHandler(invoiceSvc),
		Health:  handler.NewHealthHandler(db),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	if cfg.Batch.Enabled {
		worker := service.NewBatchWorker(batchSvc, cfg.Batch.PollInterval(), logger)
		go func() {
			worker.Start(ctx)
			close(workerDone)
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.Strings("extractors", providerNames(&cfg.Extractor)),
			zap.Bool("database", db != nil),
			zap.Bool("archive", storage != nil),
			zap.Bool("auth", authSvc != nil),
			zap.Bool("batch_worker", cfg.Batch.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	stop()
	<-workerDone
	logger.Info("server stopped")
	return nil
}

func newEmailSender(cfg *config.EmailConfig, logger *zap.Logger) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		sender, err := ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	default:
		return noop.NewNoopSender(logger), nil
	}
}

func providerNames(cfg *config.ExtractorConfig) []string {
	var names []string
	for _, p := range cfg.Chain() {
		names = append(names, p.Provider)
	}
	return names
}
