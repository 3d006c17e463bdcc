package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/report"
	"invoicecheck/internal/service"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportPageSize  = 200
)

// RunHandler handles validation-run lookup and report endpoints.
type RunHandler struct {
	invoiceService service.InvoiceService
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(invoiceService service.InvoiceService) *RunHandler {
	return &RunHandler{invoiceService: invoiceService}
}

// GetByID handles GET /api/v1/runs/:id
// @Summary Get a validation run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} Response{data=domain.ValidationRun} "Validation run"
// @Failure 400 {object} ErrorResponseBody "Invalid run ID"
// @Failure 404 {object} ErrorResponseBody "Run not found"
// @Security BearerAuth
// @Router /runs/{id} [get]
func (h *RunHandler) GetByID(c *gin.Context) {
	id, ok := parseRunID(c)
	if !ok {
		return
	}
	run, err := h.invoiceService.GetRun(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, run)
}

// List handles GET /api/v1/runs
// @Summary List validation runs
// @Tags runs
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} PaginatedResponse{data=[]domain.ValidationRun} "Validation runs"
// @Security BearerAuth
// @Router /runs [get]
func (h *RunHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	runs, total, err := h.invoiceService.ListRuns(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ReportXLSX handles GET /api/v1/runs/:id/report.xlsx
// @Summary Download a run's validation report
// @Tags runs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Run ID"
// @Success 200 {file} file "Spreadsheet report"
// @Failure 404 {object} ErrorResponseBody "Run not found"
// @Security BearerAuth
// @Router /runs/{id}/report.xlsx [get]
func (h *RunHandler) ReportXLSX(c *gin.Context) {
	id, ok := parseRunID(c)
	if !ok {
		return
	}
	run, result, err := h.invoiceService.RunResult(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, run.FileName, result); err != nil {
		HandleError(c, fmt.Errorf("runHandler.ReportXLSX: %w", err))
		return
	}

	stem := strings.TrimSuffix(filepath.Base(run.FileName), filepath.Ext(run.FileName))
	filename := report.SanitizeFilename(stem) + "_validation.xlsx"
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportCSV handles GET /api/v1/runs/export.csv
// @Summary Export validation runs as CSV
// @Tags runs
// @Produce text/csv
// @Success 200 {file} file "CSV export"
// @Security BearerAuth
// @Router /runs/export.csv [get]
func (h *RunHandler) ExportCSV(c *gin.Context) {
	var runs []domain.ValidationRun
	for offset := 0; ; offset += exportPageSize {
		page, total, err := h.invoiceService.ListRuns(c.Request.Context(), offset, exportPageSize)
		if err != nil {
			HandleError(c, err)
			return
		}
		runs = append(runs, page...)
		if len(page) < exportPageSize || len(runs) >= total {
			break
		}
	}

	filename := report.BuildFilename("validation_runs", "csv", time.Now())
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	_, _ = c.Writer.Write(report.BOM)
	w := report.NewCSVWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		_ = c.Error(err)
		return
	}
	if err := w.WriteRuns(runs); err != nil {
		_ = c.Error(err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = c.Error(err)
	}
}

func parseRunID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid run ID")
		return uuid.Nil, false
	}
	return id, true
}
