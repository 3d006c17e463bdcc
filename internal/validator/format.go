package validator

import (
	"regexp"
	"strings"

	"invoicecheck/internal/domain"
)

type pattern = *regexp.Regexp

var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	tanPattern   = regexp.MustCompile(`^[A-Z]{4}[0-9]{5}[A-Z]{1}$`)
	irnPattern   = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
	datePattern  = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])\s(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s\d{4}$`)
)

// ValidGSTIN reports whether s is a well-formed GSTIN.
func ValidGSTIN(s string) bool { return gstinPattern.MatchString(s) }

// ValidPAN reports whether s is a well-formed PAN.
func ValidPAN(s string) bool { return panPattern.MatchString(s) }

// ValidTAN reports whether s is a well-formed TAN.
func ValidTAN(s string) bool { return tanPattern.MatchString(s) }

// ValidIRN reports whether s is a 64 character hex IRN.
func ValidIRN(s string) bool { return irnPattern.MatchString(s) }

// ValidDate reports whether s is a "DD Mon YYYY" date.
func ValidDate(s string) bool { return datePattern.MatchString(s) }

// IsPresent reports whether v carries data: nil, blank strings and empty
// lists or maps do not. Any other value is present.
func IsPresent(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	case []domain.LineItem:
		return len(x) > 0
	case []map[string]any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	case map[string]string:
		return len(x) > 0
	default:
		return true
	}
}
