package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"invoicecheck/internal/validator"
)

const (
	SummarySheet = "Summary"
	ChecksSheet  = "Checks"
)

// WriteXLSX writes a workbook with a summary sheet and one row per check
// (section, outcome, message).
func WriteXLSX(w io.Writer, fileName string, r *validator.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	if _, err := f.NewSheet(ChecksSheet); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}

	if err := writeSummarySheet(f, fileName, r, bold); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	if err := writeChecksSheet(f, r, bold); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("report.WriteXLSX: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, fileName string, r *validator.Result, bold int) error {
	s := Summarize(r)
	rows := [][]interface{}{
		{"File", fileName},
		{"Status", string(s.Status)},
		{"Total checks", s.TotalChecks},
		{"Passed", s.Passed},
		{"Failed", s.Failed},
		{"Success rate (%)", s.SuccessRate},
		{},
		{"Section", "Passed", "Failed"},
	}
	for _, sec := range validator.Sections {
		rows = append(rows, []interface{}{SectionTitle(sec), len(r.Passes[sec]), len(r.Errors[sec])})
	}
	if err := setRows(f, SummarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A6", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A8", "C8", bold); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}

func writeChecksSheet(f *excelize.File, r *validator.Result, bold int) error {
	rows := [][]interface{}{{"Section", "Outcome", "Message"}}
	for _, sec := range validator.Sections {
		for _, msg := range r.Errors[sec] {
			rows = append(rows, []interface{}{string(sec), "FAIL", msg})
		}
		for _, msg := range r.Passes[sec] {
			rows = append(rows, []interface{}{string(sec), "PASS", msg})
		}
	}
	if err := setRows(f, ChecksSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(ChecksSheet, "A1", "C1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(ChecksSheet, "A", "B", 18); err != nil {
		return err
	}
	return f.SetColWidth(ChecksSheet, "C", "C", 100)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
