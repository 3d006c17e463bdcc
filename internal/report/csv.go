package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoicecheck/internal/domain"
)

// BOM is the UTF-8 byte order mark, written first so Excel on Windows
// detects the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var csvColumns = []string{
	"Run ID",
	"Source",
	"File Name",
	"Bill ID",
	"Extractor",
	"Status",
	"Total Checks",
	"Passed",
	"Failed",
	"Success Rate",
	"Archive Key",
	"Created At",
}

// CSVWriter wraps csv.Writer for exporting validation runs, one row each.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(csvColumns)
}

// WriteRuns writes one row per run.
func (w *CSVWriter) WriteRuns(runs []domain.ValidationRun) error {
	for i := range runs {
		if err := w.csv.Write(runToRow(&runs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func runToRow(run *domain.ValidationRun) []string {
	billID := ""
	if run.BillID != nil {
		billID = *run.BillID
	}
	return []string{
		run.ID.String(),
		string(run.Source),
		run.FileName,
		billID,
		run.Extractor,
		string(run.Status),
		strconv.Itoa(run.TotalChecks),
		strconv.Itoa(run.Passed),
		strconv.Itoa(run.Failed),
		strconv.FormatFloat(run.SuccessRate, 'f', 2, 64),
		run.S3Key,
		run.CreatedAt.Format(time.RFC3339),
	}
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	multiUnderscore = regexp.MustCompile(`_{2,}`)
)

// SanitizeFilename makes name safe for a Content-Disposition header:
// runs of other characters become one underscore, capped at 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns "{sanitized prefix}_{YYYY-MM-DD}.{ext}".
func BuildFilename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(prefix), now.Format("2006-01-02"), ext)
}
