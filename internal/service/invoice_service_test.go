package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicecheck/internal/config"
	"invoicecheck/internal/domain"
	"invoicecheck/internal/port"
	"invoicecheck/internal/service"
	"invoicecheck/internal/validator"
	"invoicecheck/mocks"
)

const extractedJSON = `{"letter_head":{"company_name":"Genius HRTech Limited"},"qr_code":"True","digital_signature":"False"}`

func readPDF(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "pdftext", "testdata", name))
	require.NoError(t, err)
	return data
}

func parserReturning(data string) *mocks.MockDocumentParser {
	p := new(mocks.MockDocumentParser)
	p.On("Parse", mock.Anything, mock.AnythingOfType("port.ParseInput")).Return(&port.ParseOutput{
		StructuredData: json.RawMessage(data),
		ModelUsed:      "rules",
	}, nil)
	return p
}

func TestInvoiceService_ReadUpload(t *testing.T) {
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{
		Upload: config.UploadConfig{MaxFileSizeMB: 1},
	})
	pdf := readPDF(t, "single.pdf")

	tests := []struct {
		name     string
		fileName string
		size     int64
		body     []byte
		wantErr  error
	}{
		{"valid", "invoice.PDF", int64(len(pdf)), pdf, nil},
		{"wrong_extension", "invoice.docx", int64(len(pdf)), pdf, domain.ErrUnsupportedFileType},
		{"declared_too_large", "invoice.pdf", 2 << 20, pdf, domain.ErrFileTooLarge},
		{"body_too_large", "invoice.pdf", 10, bytes.Repeat([]byte("x"), 1<<20+1), domain.ErrFileTooLarge},
		{"not_a_pdf", "invoice.pdf", 5, []byte("hello"), domain.ErrUnsupportedFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := svc.ReadUpload(tt.fileName, tt.size, bytes.NewReader(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, service.IsInputError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, data)
		})
	}
}

func TestInvoiceService_Extract_Success(t *testing.T) {
	p := parserReturning(extractedJSON)
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{Parser: p, Profile: config.DefaultProfile()})

	ext, err := svc.Extract(context.Background(), service.DocumentInput{
		FileName: "invoice.pdf",
		Data:     readPDF(t, "single.pdf"),
	})

	require.NoError(t, err)
	assert.Equal(t, "rules", ext.Extractor)
	assert.Equal(t, "Genius HRTech Limited", ext.Invoice.LetterHead.CompanyName)
	assert.Equal(t, 2, ext.Document.ImageCount)

	// keys the extractor left out are filled in
	billTo, ok := ext.Fields["bill_to_details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "", billTo["gstin"])
	assert.Equal(t, []any{}, ext.Fields["resource_and_bill_details"])

	p.AssertCalled(t, "Parse", mock.Anything, mock.MatchedBy(func(in port.ParseInput) bool {
		return in.ContentType == "application/pdf" && in.ImageCount == 2 && strings.Contains(in.Text, "TAX INVOICE")
	}))
}

func TestInvoiceService_Extract_RejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"multi_page", readPDF(t, "two_pages.pdf"), domain.ErrMultiPagePDF},
		{"blank", readPDF(t, "blank.pdf"), domain.ErrBlankPDF},
		{"not_a_pdf", []byte("plain text"), domain.ErrInvalidPDF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(mocks.MockDocumentParser)
			svc := service.NewInvoiceService(service.InvoiceServiceDeps{Parser: p, Profile: config.DefaultProfile()})

			_, err := svc.Extract(context.Background(), service.DocumentInput{FileName: "x.pdf", Data: tt.data})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, service.IsInputError(err))
			p.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceService_Extract_ParserFailure(t *testing.T) {
	p := new(mocks.MockDocumentParser)
	p.On("Parse", mock.Anything, mock.Anything).Return(nil, errors.New("all providers failed"))
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{Parser: p, Profile: config.DefaultProfile()})

	_, err := svc.Extract(context.Background(), service.DocumentInput{FileName: "x.pdf", Data: readPDF(t, "single.pdf")})

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "all providers failed")
	assert.False(t, service.IsInputError(err))
}

func TestInvoiceService_Extract_WrongShape(t *testing.T) {
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{
		Parser:  parserReturning(`{"letter_head":"Genius"}`),
		Profile: config.DefaultProfile(),
	})

	_, err := svc.Extract(context.Background(), service.DocumentInput{FileName: "x.pdf", Data: readPDF(t, "single.pdf")})

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestInvoiceService_Process_WithoutPersistence(t *testing.T) {
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{
		Parser:  parserReturning(extractedJSON),
		Profile: config.DefaultProfile(),
	})

	pr, err := svc.Process(context.Background(), service.DocumentInput{FileName: "x.pdf", Data: readPDF(t, "single.pdf")})

	require.NoError(t, err)
	assert.Nil(t, pr.Run)
	assert.Equal(t, domain.RunStatusValidationErrors, pr.Summary.Status)
	assert.Equal(t, pr.Result.PassCount()+pr.Result.ErrorCount(), pr.Summary.TotalChecks)
	assert.Contains(t, pr.Result.Passes[validator.SectionLetterHead], "Company name is present and matches the expected value.")
}

func TestInvoiceService_Process_PersistsAndArchives(t *testing.T) {
	runRepo := new(mocks.MockValidationRunRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{
		Parser:  parserReturning(extractedJSON),
		Profile: config.DefaultProfile(),
		RunRepo: runRepo,
		Storage: storage,
		S3:      config.S3Config{Bucket: "invoices"},
	})

	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "s3://invoices"}, nil).Twice()
	runRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ValidationRun")).Return(nil)

	billID := "B-100"
	pr, err := svc.Process(context.Background(), service.DocumentInput{
		FileName: "B-100.pdf",
		Data:     readPDF(t, "single.pdf"),
		Source:   domain.RunSourceGSPPI,
		BillID:   &billID,
	})

	require.NoError(t, err)
	require.NotNil(t, pr.Run)
	assert.Equal(t, domain.RunSourceGSPPI, pr.Run.Source)
	assert.Equal(t, &billID, pr.Run.BillID)
	assert.Equal(t, "invoices", pr.Run.S3Bucket)
	assert.Equal(t, port.RunObjectKey(pr.Run.ID, "B-100.pdf"), pr.Run.S3Key)
	assert.Equal(t, pr.Summary.Failed, pr.Run.Failed)
	assert.JSONEq(t, string(pr.RawJSON()), string(pr.Run.ExtractedData))

	storage.AssertCalled(t, "Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Key == port.RunObjectKey(pr.Run.ID, "validation_results.json") && in.ContentType == "application/json"
	}))
	runRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestInvoiceService_Process_ArchiveFailureStillSavesRun(t *testing.T) {
	runRepo := new(mocks.MockValidationRunRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{
		Parser:  parserReturning(extractedJSON),
		Profile: config.DefaultProfile(),
		RunRepo: runRepo,
		Storage: storage,
		S3:      config.S3Config{Bucket: "invoices"},
	})

	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down")).Once()
	runRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ValidationRun")).Return(nil)

	pr, err := svc.Process(context.Background(), service.DocumentInput{FileName: "x.pdf", Data: readPDF(t, "single.pdf")})

	require.NoError(t, err)
	assert.Empty(t, pr.Run.S3Key)
	assert.Equal(t, domain.RunSourceUpload, pr.Run.Source)
	storage.AssertNumberOfCalls(t, "Upload", 1)
}

func TestInvoiceService_Process_CreateFailureRemovesArchive(t *testing.T) {
	runRepo := new(mocks.MockValidationRunRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{
		Parser:  parserReturning(extractedJSON),
		Profile: config.DefaultProfile(),
		RunRepo: runRepo,
		Storage: storage,
		S3:      config.S3Config{Bucket: "invoices"},
	})

	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	storage.On("Delete", mock.Anything, "invoices", mock.AnythingOfType("string")).Return(nil)
	runRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	pr, err := svc.Process(context.Background(), service.DocumentInput{FileName: "x.pdf", Data: readPDF(t, "single.pdf")})

	assert.Nil(t, pr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating validation run")
	storage.AssertNumberOfCalls(t, "Delete", 2)
}

func TestInvoiceService_RunResult(t *testing.T) {
	runRepo := new(mocks.MockValidationRunRepo)
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{RunRepo: runRepo})

	stored := validator.NewResult()
	stored.Errors[validator.SectionNote] = []string{"Note point 1 is missing."}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)

	id := uuid.New()
	runRepo.On("GetByID", mock.Anything, id).Return(&domain.ValidationRun{ID: id, Results: raw}, nil)

	run, result, err := svc.RunResult(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, []string{"Note point 1 is missing."}, result.Errors[validator.SectionNote])
	assert.Empty(t, result.Passes[validator.SectionQRCode])
}

func TestInvoiceService_GetRun_NoRepository(t *testing.T) {
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{})

	_, err := svc.GetRun(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	runs, total, err := svc.ListRuns(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.Zero(t, total)
}

func TestInvoiceService_ArchiveURL(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc := service.NewInvoiceService(service.InvoiceServiceDeps{
		Storage: storage,
		S3:      config.S3Config{Bucket: "invoices", PresignExpiry: 900},
	})
	storage.On("GetPresignedURL", mock.Anything, "invoices", "runs/a/x.pdf", int64(900)).
		Return("https://signed", nil)

	url, err := svc.ArchiveURL(context.Background(), &domain.ValidationRun{S3Bucket: "invoices", S3Key: "runs/a/x.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)

	url, err = svc.ArchiveURL(context.Background(), &domain.ValidationRun{})
	require.NoError(t, err)
	assert.Empty(t, url)
}
