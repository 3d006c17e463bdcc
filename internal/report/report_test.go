package report_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/report"
	"invoicecheck/internal/validator"
)

func sampleResult() *validator.Result {
	r := validator.NewResult()
	r.Passes[validator.SectionLetterHead] = []string{"Company name is valid.", "GSTIN is valid."}
	r.Passes[validator.SectionQRCode] = []string{"QR code flag is valid."}
	r.Errors[validator.SectionBillTo] = []string{"IRN value is missing or empty in bill to details."}
	return r
}

func TestSummarize(t *testing.T) {
	t.Run("with_errors", func(t *testing.T) {
		s := report.Summarize(sampleResult())
		assert.Equal(t, report.Summary{
			TotalChecks: 4,
			Passed:      3,
			Failed:      1,
			SuccessRate: 75,
			Status:      domain.RunStatusValidationErrors,
		}, s)
	})

	t.Run("rounds_to_two_decimals", func(t *testing.T) {
		r := validator.NewResult()
		r.Passes[validator.SectionNote] = []string{"a", "b"}
		r.Errors[validator.SectionNote] = []string{"c"}
		assert.Equal(t, 66.67, report.Summarize(r).SuccessRate)
	})

	t.Run("empty_result", func(t *testing.T) {
		s := report.Summarize(validator.NewResult())
		assert.Equal(t, 0, s.TotalChecks)
		assert.Equal(t, 0.0, s.SuccessRate)
		assert.Equal(t, domain.RunStatusSuccess, s.Status)
	})

	t.Run("apply", func(t *testing.T) {
		var run domain.ValidationRun
		report.Summarize(sampleResult()).Apply(&run)
		assert.Equal(t, 4, run.TotalChecks)
		assert.Equal(t, domain.RunStatusValidationErrors, run.Status)
	})
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, sampleResult()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, strings.Repeat("=", 70)+"\nINVOICE VALIDATION SUMMARY\n"))
	assert.Contains(t, out, "  Success rate : 75.0%")
	assert.Contains(t, out, "  LETTER HEAD (2 passed, 0 failed)")
	assert.Contains(t, out, "    ✓  GSTIN is valid.")
	assert.Contains(t, out, "    ✗  IRN value is missing or empty in bill to details.")
	assert.Contains(t, out, "  NOTE (0 passed, 0 failed)\n    –  (no checks run)")
	assert.Contains(t, out, "OVERALL: 1 ISSUE(S) FOUND ✗")

	t.Run("clean", func(t *testing.T) {
		var clean bytes.Buffer
		require.NoError(t, report.WriteText(&clean, validator.NewResult()))
		assert.Contains(t, clean.String(), "OVERALL: ALL VALIDATIONS PASSED ✓")
	})
}

func TestCSVWriter(t *testing.T) {
	billID := "B-7"
	runs := []domain.ValidationRun{{
		ID:          uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		Source:      domain.RunSourceGSPPI,
		FileName:    "B-7.pdf",
		BillID:      &billID,
		Extractor:   "rules",
		Status:      domain.RunStatusSuccess,
		TotalChecks: 10,
		Passed:      10,
		SuccessRate: 100,
		CreatedAt:   time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	w := report.NewCSVWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRuns(runs))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Run ID", rows[0][0])
	assert.Equal(t, []string{
		"11111111-2222-3333-4444-555555555555", "gsppi", "B-7.pdf", "B-7", "rules", "success",
		"10", "10", "0", "100.00", "", "2025-01-05T10:00:00Z",
	}, rows[1])
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "validation_runs_2025-03-09.csv", report.BuildFilename("validation runs", "csv", now))
	assert.Equal(t, "a_b", report.SanitizeFilename("__a//b__"))
	assert.Len(t, report.SanitizeFilename(strings.Repeat("x", 150)), 100)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(&buf, "invoice.pdf", sampleResult()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{report.SummarySheet, report.ChecksSheet}, f.GetSheetList())

	summary, err := f.GetRows(report.SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"File", "invoice.pdf"}, summary[0])
	assert.Equal(t, []string{"Status", "validation_errors"}, summary[1])
	assert.Equal(t, []string{"LETTER HEAD", "2", "0"}, summary[8])

	checks, err := f.GetRows(report.ChecksSheet)
	require.NoError(t, err)
	require.Len(t, checks, 5)
	assert.Equal(t, []string{"Section", "Outcome", "Message"}, checks[0])
	assert.Equal(t, []string{"letter_head", "PASS", "Company name is valid."}, checks[1])
	assert.Equal(t, []string{"bill_to", "FAIL", "IRN value is missing or empty in bill to details."}, checks[3])
}
