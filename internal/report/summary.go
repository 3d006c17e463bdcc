// Package report turns validation results into summaries and export formats.
package report

import (
	"github.com/shopspring/decimal"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/validator"
)

// Summary condenses a validation result into counts.
type Summary struct {
	TotalChecks int              `json:"total_checks"`
	Passed      int              `json:"passed"`
	Failed      int              `json:"failed"`
	SuccessRate float64          `json:"success_rate"`
	Status      domain.RunStatus `json:"status"`
}

// Summarize counts the messages of r. The success rate is a percentage
// rounded to two decimals, zero when no check ran.
func Summarize(r *validator.Result) Summary {
	passed := r.PassCount()
	failed := r.ErrorCount()
	s := Summary{
		TotalChecks: passed + failed,
		Passed:      passed,
		Failed:      failed,
		Status:      domain.RunStatusSuccess,
	}
	if failed > 0 {
		s.Status = domain.RunStatusValidationErrors
	}
	if s.TotalChecks > 0 {
		s.SuccessRate = decimal.NewFromInt(int64(passed) * 100).
			Div(decimal.NewFromInt(int64(s.TotalChecks))).
			Round(2).
			InexactFloat64()
	}
	return s
}

// Apply copies the summary counts onto a run record.
func (s Summary) Apply(run *domain.ValidationRun) {
	run.TotalChecks = s.TotalChecks
	run.Passed = s.Passed
	run.Failed = s.Failed
	run.SuccessRate = s.SuccessRate
	run.Status = s.Status
}
