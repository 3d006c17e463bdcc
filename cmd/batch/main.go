// Command batch runs one pass over the GSPPI digital invoice list and
// prints the batch summary as JSON.
// Usage: go run ./cmd/batch
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"invoicecheck/internal/config"
	"invoicecheck/internal/gsppi"
	"invoicecheck/internal/logging"
	"invoicecheck/internal/parser"
	_ "invoicecheck/internal/parser/claude"
	_ "invoicecheck/internal/parser/gemini"
	_ "invoicecheck/internal/parser/openai"
	_ "invoicecheck/internal/parser/rules"
	"invoicecheck/internal/port"
	"invoicecheck/internal/repository/postgres"
	"invoicecheck/internal/service"
)

const runTimeout = 30 * time.Minute

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.GSPPI.BaseURL == "" {
		return fmt.Errorf("INVOICECHECK_GSPPI_BASE_URL is not set")
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	profile, err := config.LoadProfile(cfg.Profile.Path)
	if err != nil {
		return err
	}
	extractor, err := parser.NewChain(&cfg.Extractor, parser.Options{Profile: profile, Logger: logger})
	if err != nil {
		return err
	}

	invoiceDeps := service.InvoiceServiceDeps{
		Parser:  extractor,
		Profile: profile,
		Upload:  cfg.Upload,
		Logger:  logger,
	}
	var bills port.ProcessedBillRepository
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer func() { _ = db.Close() }()
		invoiceDeps.RunRepo = postgres.NewValidationRunRepo(db)
		bills = postgres.NewProcessedBillRepo(db)
	}

	batch := service.NewBatchService(service.BatchServiceDeps{
		Source:      gsppi.NewClient(cfg.GSPPI, logger),
		Invoices:    service.NewInvoiceService(invoiceDeps),
		Bills:       bills,
		Concurrency: cfg.Batch.Concurrency,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	result, err := batch.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("batch finished",
		zap.Int("succeeded", result.Summary.Succeeded),
		zap.Int("failed", result.Summary.Failed),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Summary)
}
