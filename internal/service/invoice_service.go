package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoicecheck/internal/config"
	"invoicecheck/internal/domain"
	"invoicecheck/internal/pdftext"
	"invoicecheck/internal/port"
	"invoicecheck/internal/report"
	"invoicecheck/internal/validator"
)

const pdfContentType = "application/pdf"

// DocumentInput is one PDF to extract and validate.
type DocumentInput struct {
	FileName string
	Data     []byte
	Source   domain.RunSource
	BillID   *string
}

// Extraction is the fixed-shape output of the extractor chain.
type Extraction struct {
	FileName  string
	Invoice   *domain.Invoice
	Fields    map[string]any
	Extractor string
	Document  *pdftext.Document
}

// RawJSON returns the extracted invoice as JSON.
func (e *Extraction) RawJSON() json.RawMessage {
	raw, err := json.Marshal(e.Invoice)
	if err != nil {
		return nil
	}
	return raw
}

// ProcessResult is an extraction plus its validation outcome.
type ProcessResult struct {
	*Extraction
	Result  *validator.Result
	Summary report.Summary
	Run     *domain.ValidationRun
}

// InvoiceService extracts and validates single invoices.
type InvoiceService interface {
	ReadUpload(fileName string, size int64, r io.Reader) ([]byte, error)
	Extract(ctx context.Context, input DocumentInput) (*Extraction, error)
	Process(ctx context.Context, input DocumentInput) (*ProcessResult, error)
	GetRun(ctx context.Context, id uuid.UUID) (*domain.ValidationRun, error)
	ListRuns(ctx context.Context, offset, limit int) ([]domain.ValidationRun, int, error)
	RunResult(ctx context.Context, id uuid.UUID) (*domain.ValidationRun, *validator.Result, error)
	ArchiveURL(ctx context.Context, run *domain.ValidationRun) (string, error)
}

type invoiceService struct {
	parser  port.DocumentParser
	profile *domain.Profile
	runRepo port.ValidationRunRepository
	storage port.ObjectStorage
	s3Cfg   config.S3Config
	maxSize int64
	logger  *zap.Logger
}

// InvoiceServiceDeps groups the collaborators of the invoice service.
// RunRepo and Storage are optional; nil disables persistence or archiving.
type InvoiceServiceDeps struct {
	Parser  port.DocumentParser
	Profile *domain.Profile
	RunRepo port.ValidationRunRepository
	Storage port.ObjectStorage
	S3      config.S3Config
	Upload  config.UploadConfig
	Logger  *zap.Logger
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(deps InvoiceServiceDeps) InvoiceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxSize := deps.Upload.MaxBytes()
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	return &invoiceService{
		parser:  deps.Parser,
		profile: deps.Profile,
		runRepo: deps.RunRepo,
		storage: deps.Storage,
		s3Cfg:   deps.S3,
		maxSize: maxSize,
		logger:  logger,
	}
}

// ReadUpload checks an uploaded file's extension, size and sniffed content
// type, and returns its bytes.
func (s *invoiceService) ReadUpload(fileName string, size int64, r io.Reader) ([]byte, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if size > s.maxSize {
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, domain.ErrFileTooLarge
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if _, ok := domain.AllowedContentTypes[http.DetectContentType(head)]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	return data, nil
}

func (s *invoiceService) Extract(ctx context.Context, input DocumentInput) (*Extraction, error) {
	doc, err := pdftext.Read(input.Data)
	if err != nil {
		return nil, err
	}
	if err := doc.CheckSinglePage(); err != nil {
		return nil, err
	}

	out, err := s.parser.Parse(ctx, port.ParseInput{
		FileBytes:   input.Data,
		ContentType: pdfContentType,
		Text:        doc.Text,
		ImageCount:  doc.ImageCount,
	})
	if err != nil {
		s.logger.Error("invoiceService.Extract: extractor failed",
			zap.String("file_name", input.FileName), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	// Decoding into the fixed shape fills every key the extractor left out.
	var inv domain.Invoice
	if err := json.Unmarshal(out.StructuredData, &inv); err != nil {
		return nil, fmt.Errorf("%w: %s output does not fit the invoice shape: %v",
			domain.ErrExtractionFailed, out.ModelUsed, err)
	}
	fields, err := inv.Fields()
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Extract: %w", err)
	}

	s.logger.Info("invoiceService.Extract: extracted",
		zap.String("file_name", input.FileName),
		zap.String("extractor", out.ModelUsed),
		zap.Int("line_items", len(inv.LineItems)),
		zap.Int("images", doc.ImageCount),
	)
	return &Extraction{
		FileName:  input.FileName,
		Invoice:   &inv,
		Fields:    fields,
		Extractor: out.ModelUsed,
		Document:  doc,
	}, nil
}

func (s *invoiceService) Process(ctx context.Context, input DocumentInput) (*ProcessResult, error) {
	ext, err := s.Extract(ctx, input)
	if err != nil {
		return nil, err
	}

	result, err := validator.New(s.profile).Validate(ext.Fields)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Process: %w", err)
	}
	summary := report.Summarize(result)

	s.logger.Info("invoiceService.Process: validated",
		zap.String("file_name", input.FileName),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.String("status", string(summary.Status)),
	)

	pr := &ProcessResult{Extraction: ext, Result: result, Summary: summary}
	if s.runRepo == nil {
		return pr, nil
	}

	run, err := s.saveRun(ctx, input, ext, result, summary)
	if err != nil {
		return nil, err
	}
	pr.Run = run
	return pr, nil
}

func (s *invoiceService) saveRun(
	ctx context.Context,
	input DocumentInput,
	ext *Extraction,
	result *validator.Result,
	summary report.Summary,
) (*domain.ValidationRun, error) {
	results, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.saveRun: %w", err)
	}
	source := input.Source
	if source == "" {
		source = domain.RunSourceUpload
	}
	run := &domain.ValidationRun{
		ID:            uuid.New(),
		Source:        source,
		FileName:      input.FileName,
		BillID:        input.BillID,
		Extractor:     ext.Extractor,
		ExtractedData: ext.RawJSON(),
		Results:       results,
		CreatedAt:     time.Now().UTC(),
	}
	summary.Apply(run)

	archived := s.archive(ctx, run, input.Data)

	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("invoiceService.saveRun: failed to create run", zap.Error(err))
		for _, key := range archived {
			_ = s.storage.Delete(ctx, run.S3Bucket, key)
		}
		return nil, fmt.Errorf("creating validation run: %w", err)
	}
	return run, nil
}

// archive uploads the PDF and the validation results. Failures are logged
// and leave the run without an archive key. It returns the keys written.
func (s *invoiceService) archive(ctx context.Context, run *domain.ValidationRun, pdf []byte) []string {
	if s.storage == nil {
		return nil
	}
	pdfKey := port.RunObjectKey(run.ID, filepath.Base(run.FileName))
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         pdfKey,
		Body:        bytes.NewReader(pdf),
		ContentType: pdfContentType,
		Size:        int64(len(pdf)),
	}); err != nil {
		s.logger.Warn("invoiceService.archive: PDF upload failed",
			zap.String("run_id", run.ID.String()), zap.Error(err))
		return nil
	}
	run.S3Bucket = s.s3Cfg.Bucket
	run.S3Key = pdfKey

	resultsKey := port.RunObjectKey(run.ID, "validation_results.json")
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         resultsKey,
		Body:        bytes.NewReader(run.Results),
		ContentType: "application/json",
		Size:        int64(len(run.Results)),
	}); err != nil {
		s.logger.Warn("invoiceService.archive: results upload failed",
			zap.String("run_id", run.ID.String()), zap.Error(err))
		return []string{pdfKey}
	}
	return []string{pdfKey, resultsKey}
}

func (s *invoiceService) GetRun(ctx context.Context, id uuid.UUID) (*domain.ValidationRun, error) {
	if s.runRepo == nil {
		return nil, domain.ErrRunNotFound
	}
	return s.runRepo.GetByID(ctx, id)
}

func (s *invoiceService) ListRuns(ctx context.Context, offset, limit int) ([]domain.ValidationRun, int, error) {
	if s.runRepo == nil {
		return []domain.ValidationRun{}, 0, nil
	}
	return s.runRepo.List(ctx, offset, limit)
}

func (s *invoiceService) RunResult(ctx context.Context, id uuid.UUID) (*domain.ValidationRun, *validator.Result, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	result := validator.NewResult()
	if err := json.Unmarshal(run.Results, result); err != nil {
		return nil, nil, fmt.Errorf("invoiceService.RunResult: decoding results: %w", err)
	}
	return run, result, nil
}

func (s *invoiceService) ArchiveURL(ctx context.Context, run *domain.ValidationRun) (string, error) {
	if s.storage == nil || run.S3Key == "" {
		return "", nil
	}
	url, err := s.storage.GetPresignedURL(ctx, run.S3Bucket, run.S3Key, s.s3Cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("invoiceService.ArchiveURL: %w", err)
	}
	return url, nil
}

// IsInputError reports whether err is caused by the document itself rather
// than by the service or its collaborators.
func IsInputError(err error) bool {
	for _, target := range []error{
		domain.ErrUnsupportedFileType,
		domain.ErrFileTooLarge,
		domain.ErrInvalidPDF,
		domain.ErrMultiPagePDF,
		domain.ErrBlankPDF,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
