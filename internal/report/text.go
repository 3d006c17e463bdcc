package report

import (
	"fmt"
	"io"
	"strings"

	"invoicecheck/internal/validator"
)

var (
	heavyRule = strings.Repeat("=", 70)
	lightRule = strings.Repeat("-", 70)
)

// WriteText writes the human-readable validation summary.
func WriteText(w io.Writer, r *validator.Result) error {
	s := Summarize(r)
	var b strings.Builder

	fmt.Fprintln(&b, heavyRule)
	fmt.Fprintln(&b, "INVOICE VALIDATION SUMMARY")
	fmt.Fprintln(&b, heavyRule)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "  Total checks : %d\n", s.TotalChecks)
	fmt.Fprintf(&b, "  Passed       : %d\n", s.Passed)
	fmt.Fprintf(&b, "  Failed       : %d\n", s.Failed)
	fmt.Fprintf(&b, "  Success rate : %.1f%%\n", s.SuccessRate)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, lightRule)
	fmt.Fprintln(&b, "RESULTS BY SECTION")
	fmt.Fprintln(&b, lightRule)

	for _, sec := range validator.Sections {
		passes, errs := r.Passes[sec], r.Errors[sec]
		fmt.Fprintf(&b, "\n  %s (%d passed, %d failed)\n", SectionTitle(sec), len(passes), len(errs))
		for _, msg := range passes {
			fmt.Fprintf(&b, "    ✓  %s\n", msg)
		}
		for _, msg := range errs {
			fmt.Fprintf(&b, "    ✗  %s\n", msg)
		}
		if len(passes) == 0 && len(errs) == 0 {
			fmt.Fprintln(&b, "    –  (no checks run)")
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, heavyRule)
	if s.Failed == 0 {
		fmt.Fprintln(&b, "OVERALL: ALL VALIDATIONS PASSED ✓")
	} else {
		fmt.Fprintf(&b, "OVERALL: %d ISSUE(S) FOUND ✗\n", s.Failed)
	}
	b.WriteString(heavyRule)

	_, err := io.WriteString(w, b.String())
	return err
}

// SectionTitle renders a section name as a heading, e.g. "BILL TO".
func SectionTitle(s validator.Section) string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}
