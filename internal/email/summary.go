// Package email renders the notification mails sent after a batch run.
package email

import (
	"fmt"
	"html"
	"strings"

	"invoicecheck/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// BatchSubject returns the subject line of a batch summary mail.
func BatchSubject(s *domain.BatchSummary) string {
	if s.Failed == 0 {
		return fmt.Sprintf("Invoice batch complete: %d processed", s.TotalFetched)
	}
	return fmt.Sprintf("Invoice batch complete: %d processed, %d failed", s.TotalFetched, s.Failed)
}

// BatchText renders the plain-text body of a batch summary mail.
func BatchText(s *domain.BatchSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch started:  %s\n", s.StartedAt.Format(timeLayout))
	fmt.Fprintf(&b, "Batch finished: %s\n\n", s.FinishedAt.Format(timeLayout))
	fmt.Fprintf(&b, "Fetched:   %d\n", s.TotalFetched)
	fmt.Fprintf(&b, "Succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(&b, "Failed:    %d\n", s.Failed)
	if len(s.FailedBills) > 0 {
		b.WriteString("\nFailed bills:\n")
		for _, id := range s.FailedBills {
			fmt.Fprintf(&b, "  - %s\n", id)
		}
	}
	return b.String()
}

// BatchHTML renders the HTML body of a batch summary mail.
func BatchHTML(s *domain.BatchSummary) string {
	var failed strings.Builder
	if len(s.FailedBills) > 0 {
		failed.WriteString(`<h3 style="color: #b91c1c;">Failed bills</h3><ul>`)
		for _, id := range s.FailedBills {
			fmt.Fprintf(&failed, "<li>%s</li>", html.EscapeString(id))
		}
		failed.WriteString("</ul>")
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Invoice batch summary</h2>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px;">Started</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px;">Finished</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px;">Fetched</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px;">Succeeded</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px;">Failed</td><td>%d</td></tr>
  </table>
  %s
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Invoice Check</p>
</body>
</html>`,
		s.StartedAt.Format(timeLayout), s.FinishedAt.Format(timeLayout),
		s.TotalFetched, s.Succeeded, s.Failed, failed.String())
}
