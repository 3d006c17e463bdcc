package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/middleware"
	"invoicecheck/internal/report"
	"invoicecheck/internal/service"
	"invoicecheck/internal/validator"
)

// ProcessResponse is the body of a processed invoice.
type ProcessResponse struct {
	Status            string            `json:"status" example:"success"`
	Timestamp         time.Time         `json:"timestamp"`
	FileName          string            `json:"filename" example:"INV-2024-001.pdf"`
	Extractor         string            `json:"extractor" example:"rules"`
	Summary           report.Summary    `json:"summary"`
	ExtractedData     *domain.Invoice   `json:"extracted_data"`
	ValidationResults *validator.Result `json:"validation_results"`
	RunID             *uuid.UUID        `json:"run_id,omitempty"`
	ArchiveURL        string            `json:"archive_url,omitempty"`
}

// ExtractResponse is the body of an extraction without validation.
type ExtractResponse struct {
	Status        string          `json:"status" example:"success"`
	Timestamp     time.Time       `json:"timestamp"`
	FileName      string          `json:"filename" example:"INV-2024-001.pdf"`
	Extractor     string          `json:"extractor" example:"rules"`
	ImageCount    int             `json:"image_count" example:"2"`
	ExtractedData *domain.Invoice `json:"extracted_data"`
}

// InvoiceHandler handles single-invoice upload endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Process handles POST /api/v1/invoices/process
// @Summary Extract and validate an invoice
// @Description Upload a single-page invoice PDF, extract its fields and validate them against the billing profile
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice PDF"
// @Success 200 {object} Response{data=ProcessResponse} "Invoice processed"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or bad PDF structure"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 502 {object} ErrorResponseBody "Extraction failed"
// @Security BearerAuth
// @Router /invoices/process [post]
func (h *InvoiceHandler) Process(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	pr, err := h.invoiceService.Process(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := ProcessResponse{
		Status:            "success",
		Timestamp:         time.Now().UTC(),
		FileName:          input.FileName,
		Extractor:         pr.Extractor,
		Summary:           pr.Summary,
		ExtractedData:     pr.Invoice,
		ValidationResults: pr.Result,
	}
	if pr.Run != nil {
		resp.RunID = &pr.Run.ID
		url, err := h.invoiceService.ArchiveURL(c.Request.Context(), pr.Run)
		if err != nil {
			middleware.GetLogger(c).Warn("invoiceHandler.Process: presigning archive failed", zap.Error(err))
		}
		resp.ArchiveURL = url
	}

	RespondOK(c, resp)
}

// Extract handles POST /api/v1/invoices/extract
// @Summary Extract an invoice
// @Description Upload a single-page invoice PDF and return its extracted fields without validating them
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice PDF"
// @Success 200 {object} Response{data=ExtractResponse} "Invoice extracted"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or bad PDF structure"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 502 {object} ErrorResponseBody "Extraction failed"
// @Security BearerAuth
// @Router /invoices/extract [post]
func (h *InvoiceHandler) Extract(c *gin.Context) {
	input, ok := h.readUpload(c)
	if !ok {
		return
	}

	ext, err := h.invoiceService.Extract(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := ExtractResponse{
		Status:        "success",
		Timestamp:     time.Now().UTC(),
		FileName:      input.FileName,
		Extractor:     ext.Extractor,
		ExtractedData: ext.Invoice,
	}
	if ext.Document != nil {
		resp.ImageCount = ext.Document.ImageCount
	}
	RespondOK(c, resp)
}

// readUpload reads the multipart "file" field. It writes the error response
// and returns false when the upload is unusable.
func (h *InvoiceHandler) readUpload(c *gin.Context) (service.DocumentInput, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return service.DocumentInput{}, false
	}
	defer func() { _ = file.Close() }()

	data, err := h.invoiceService.ReadUpload(header.Filename, header.Size, file)
	if err != nil {
		HandleError(c, err)
		return service.DocumentInput{}, false
	}
	return service.DocumentInput{
		FileName: header.Filename,
		Data:     data,
		Source:   domain.RunSourceUpload,
	}, true
}
