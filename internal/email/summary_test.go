package email_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/email"
)

func testSummary(failed ...string) *domain.BatchSummary {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &domain.BatchSummary{
		TotalFetched: 3,
		Succeeded:    3 - len(failed),
		Failed:       len(failed),
		FailedBills:  failed,
		StartedAt:    start,
		FinishedAt:   start.Add(90 * time.Second),
	}
}

func TestBatchSubject(t *testing.T) {
	assert.Equal(t, "Invoice batch complete: 3 processed", email.BatchSubject(testSummary()))
	assert.Equal(t, "Invoice batch complete: 3 processed, 1 failed", email.BatchSubject(testSummary("B-2")))
}

func TestBatchText(t *testing.T) {
	text := email.BatchText(testSummary("B-2", "B-3"))

	assert.Contains(t, text, "Batch started:  2026-03-02 09:00:00 UTC")
	assert.Contains(t, text, "Succeeded: 1\n")
	assert.Contains(t, text, "Failed bills:\n  - B-2\n  - B-3\n")
}

func TestBatchText_NoFailures(t *testing.T) {
	assert.NotContains(t, email.BatchText(testSummary()), "Failed bills")
}

func TestBatchHTML_EscapesBillIDs(t *testing.T) {
	body := email.BatchHTML(testSummary("<B&1>"))

	assert.Contains(t, body, "<li>&lt;B&amp;1&gt;</li>")
	assert.Contains(t, body, "<td>3</td>")
}
