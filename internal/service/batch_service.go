package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/port"
	"invoicecheck/internal/report"
	"invoicecheck/internal/validator"
)

// BillResult is the outcome of one GSPPI invoice in a batch.
type BillResult struct {
	BillID            string            `json:"bill_id"`
	DocType           string            `json:"doc_type"`
	URL               string            `json:"url"`
	Status            domain.BillStatus `json:"status"`
	Error             string            `json:"error,omitempty"`
	ExtractedData     json.RawMessage   `json:"extracted_data,omitempty"`
	ValidationResults *validator.Result `json:"validation_results,omitempty"`
	ValidationSummary *report.Summary   `json:"validation_summary,omitempty"`
	RunID             *uuid.UUID        `json:"run_id,omitempty"`
	ArchiveURL        string            `json:"archive_url,omitempty"`
}

// BatchResult is the response of one batch run.
type BatchResult struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Summary   domain.BatchSummary    `json:"summary"`
	Results   map[string]*BillResult `json:"results"`
}

// BatchService processes the client's digital invoice list.
type BatchService interface {
	Run(ctx context.Context) (*BatchResult, error)
	GetBill(ctx context.Context, billID string) (*domain.ProcessedBill, error)
	ListBills(ctx context.Context, offset, limit int) ([]domain.ProcessedBill, int, error)
}

// BatchServiceDeps groups the collaborators of the batch service. Bills and
// Email are optional.
type BatchServiceDeps struct {
	Source      port.InvoiceSource
	Invoices    InvoiceService
	Bills       port.ProcessedBillRepository
	Email       port.EmailSender
	NotifyTo    []string
	Concurrency int
	Logger      *zap.Logger
}

type batchService struct {
	source      port.InvoiceSource
	invoices    InvoiceService
	bills       port.ProcessedBillRepository
	email       port.EmailSender
	notifyTo    []string
	concurrency int
	logger      *zap.Logger
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(deps BatchServiceDeps) BatchService {
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &batchService{
		source:      deps.Source,
		invoices:    deps.Invoices,
		bills:       deps.Bills,
		email:       deps.Email,
		notifyTo:    deps.NotifyTo,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run fetches the invoice list and processes every entry unconditionally.
// Only a failure to fetch the list is returned as an error; per-invoice
// failures are recorded in the result and the processed log.
func (s *batchService) Run(ctx context.Context) (*BatchResult, error) {
	started := time.Now().UTC()
	invoices, err := s.source.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("batchService.Run: %w", err)
	}

	unique := dedupeBills(invoices)
	if dup := len(invoices) - len(unique); dup > 0 {
		s.logger.Warn("batchService.Run: duplicate bill ids in invoice list", zap.Int("duplicates", dup))
	}

	results := make(map[string]*BillResult, len(unique))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)

	for i := range unique {
		if !acquire(ctx, sem) {
			mu.Lock()
			for _, rest := range unique[i:] {
				results[rest.BillID] = canceledBill(rest, ctx.Err())
			}
			mu.Unlock()
			break
		}
		inv := unique[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			res := s.processBill(ctx, inv)
			mu.Lock()
			results[inv.BillID] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	summary := domain.BatchSummary{
		TotalFetched: len(unique),
		Duplicates:   len(invoices) - len(unique),
		StartedAt:    started,
		FinishedAt:   time.Now().UTC(),
	}
	for id, res := range results {
		if res.Status == domain.BillStatusSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
			summary.FailedBills = append(summary.FailedBills, id)
		}
	}
	sort.Strings(summary.FailedBills)

	s.logger.Info("batchService.Run: batch complete",
		zap.Int("total_fetched", summary.TotalFetched),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.FinishedAt.Sub(started)),
	)
	s.notify(ctx, &summary)

	return &BatchResult{
		Status:    "success",
		Timestamp: summary.FinishedAt,
		Summary:   summary,
		Results:   results,
	}, nil
}

// acquire takes a worker slot, giving up once ctx is done.
func acquire(ctx context.Context, sem chan struct{}) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case sem <- struct{}{}:
		return true
	}
}

// canceledBill reports a bill the batch never started. It is not written
// to the processed log.
func canceledBill(inv domain.DigitalInvoice, cause error) *BillResult {
	return &BillResult{
		BillID:  inv.BillID,
		DocType: inv.DocType,
		URL:     inv.URL,
		Status:  domain.BillStatusFailed,
		Error:   fmt.Sprintf("batch canceled: %v", cause),
	}
}

// dedupeBills keeps the first entry of every BillID, in list order.
func dedupeBills(invoices []domain.DigitalInvoice) []domain.DigitalInvoice {
	seen := make(map[string]struct{}, len(invoices))
	out := make([]domain.DigitalInvoice, 0, len(invoices))
	for _, inv := range invoices {
		if _, ok := seen[inv.BillID]; ok {
			continue
		}
		seen[inv.BillID] = struct{}{}
		out = append(out, inv)
	}
	return out
}

func (s *batchService) processBill(ctx context.Context, inv domain.DigitalInvoice) *BillResult {
	res := &BillResult{BillID: inv.BillID, DocType: inv.DocType, URL: inv.URL}
	logger := s.logger.With(zap.String("bill_id", inv.BillID))

	pr, err := s.fetchAndProcess(ctx, inv)
	if err != nil {
		logger.Warn("batchService: bill failed", zap.Error(err))
		res.Status = domain.BillStatusFailed
		res.Error = err.Error()
		s.record(ctx, inv, res)
		return res
	}

	res.Status = domain.BillStatusSuccess
	res.ExtractedData = pr.RawJSON()
	res.ValidationResults = pr.Result
	summary := pr.Summary
	res.ValidationSummary = &summary
	if pr.Run != nil {
		res.RunID = &pr.Run.ID
		if url, err := s.invoices.ArchiveURL(ctx, pr.Run); err != nil {
			logger.Warn("batchService: presigning archive failed", zap.Error(err))
		} else {
			res.ArchiveURL = url
		}
	}
	s.record(ctx, inv, res)
	return res
}

func (s *batchService) fetchAndProcess(ctx context.Context, inv domain.DigitalInvoice) (*ProcessResult, error) {
	data, err := s.source.Download(ctx, inv.URL)
	if err != nil {
		return nil, err
	}
	billID := inv.BillID
	return s.invoices.Process(ctx, DocumentInput{
		FileName: billID + ".pdf",
		Data:     data,
		Source:   domain.RunSourceGSPPI,
		BillID:   &billID,
	})
}

// record upserts the bill's outcome, overwriting any earlier attempt.
func (s *batchService) record(ctx context.Context, inv domain.DigitalInvoice, res *BillResult) {
	if s.bills == nil {
		return
	}
	bill := &domain.ProcessedBill{
		BillID:      inv.BillID,
		Status:      res.Status,
		URL:         inv.URL,
		DocType:     inv.DocType,
		RunID:       res.RunID,
		ProcessedAt: time.Now().UTC(),
	}
	if res.Error != "" {
		msg := res.Error
		bill.Error = &msg
	}
	if err := s.bills.Upsert(ctx, bill); err != nil {
		s.logger.Error("batchService: writing processed log failed",
			zap.String("bill_id", inv.BillID), zap.Error(err))
	}
}

func (s *batchService) notify(ctx context.Context, summary *domain.BatchSummary) {
	if s.email == nil {
		return
	}
	for _, to := range s.notifyTo {
		if err := s.email.SendBatchSummary(ctx, to, summary); err != nil {
			s.logger.Warn("batchService: sending summary failed", zap.String("to", to), zap.Error(err))
		}
	}
}

func (s *batchService) GetBill(ctx context.Context, billID string) (*domain.ProcessedBill, error) {
	if s.bills == nil {
		return nil, domain.ErrBillNotFound
	}
	return s.bills.GetByBillID(ctx, billID)
}

func (s *batchService) ListBills(ctx context.Context, offset, limit int) ([]domain.ProcessedBill, int, error) {
	if s.bills == nil {
		return []domain.ProcessedBill{}, 0, nil
	}
	return s.bills.List(ctx, offset, limit)
}
