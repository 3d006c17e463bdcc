package validator

import (
	"fmt"
	"strings"

	"invoicecheck/internal/domain"
)

type outcomeKind int

const (
	outcomeMissingKey outcomeKind = iota
	outcomeEmptyValue
	outcomeChecked
)

// Outcome is the result of inspecting one key: the key is absent, its value
// is blank, or its value was checked and passed or failed.
type Outcome struct {
	kind    outcomeKind
	passed  bool
	message string
}

// MissingKey is the outcome for an absent key.
func MissingKey() Outcome { return Outcome{kind: outcomeMissingKey} }

// EmptyValue is the outcome for a key whose value is blank.
func EmptyValue() Outcome { return Outcome{kind: outcomeEmptyValue} }

// Checked is the outcome of a value check, carrying its message.
func Checked(passed bool, msg string) Outcome {
	return Outcome{kind: outcomeChecked, passed: passed, message: msg}
}

// field is one key of a section and the check its present value gets.
type field struct {
	key   string
	label string
	// where is appended to the missing and empty messages, e.g. "letter head".
	where string
	check func(v string) Outcome
}

func (f field) suffix() string {
	if f.where == "" {
		return "."
	}
	return " in " + f.where + "."
}

func (f field) missingMessage() string {
	return f.label + " key is missing" + f.suffix()
}

func (f field) emptyMessage() string {
	return f.label + " value is missing or empty" + f.suffix()
}

// inspect decides the outcome for f in m. A present value that is not a
// string is a contract violation.
func (f field) inspect(m map[string]any) (Outcome, error) {
	v, ok := m[f.key]
	if !ok {
		return MissingKey(), nil
	}
	if !IsPresent(v) {
		return EmptyValue(), nil
	}
	s, ok := v.(string)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s is %T", domain.ErrInvalidFieldType, f.key, v)
	}
	return f.check(s), nil
}

// record appends exactly one message for o to section s.
func (r *Result) record(s Section, f field, o Outcome) {
	switch o.kind {
	case outcomeMissingKey:
		r.fail(s, f.missingMessage())
	case outcomeEmptyValue:
		r.fail(s, f.emptyMessage())
	default:
		if o.passed {
			r.pass(s, o.message)
		} else {
			r.fail(s, o.message)
		}
	}
}

// Check constructors for the kinds of field rules.

func present(msg string) func(string) Outcome {
	return func(string) Outcome { return Checked(true, msg) }
}

func equals(want, failMsg, passMsg string) func(string) Outcome {
	return func(v string) Outcome {
		if v != want {
			return Checked(false, failMsg)
		}
		return Checked(true, passMsg)
	}
}

func contained(in, failMsg, passMsg string) func(string) Outcome {
	return func(v string) Outcome {
		if !strings.Contains(in, v) {
			return Checked(false, failMsg)
		}
		return Checked(true, passMsg)
	}
}

func matches(p pattern, failMsg, passMsg string) func(string) Outcome {
	return func(v string) Outcome {
		if !p.MatchString(v) {
			return Checked(false, failMsg)
		}
		return Checked(true, passMsg)
	}
}
