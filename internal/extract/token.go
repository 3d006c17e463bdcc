package extract

import (
	"regexp"
	"strings"
)

// Shape tags a table token by what it looks like.
type Shape int

const (
	ShapeLabel Shape = iota
	ShapeSerial
	ShapeName
	ShapeCode6
	ShapeCode10
	ShapeDecimal
	ShapeAlnumCode
)

func (s Shape) String() string {
	switch s {
	case ShapeSerial:
		return "serial"
	case ShapeName:
		return "name"
	case ShapeCode6:
		return "code6"
	case ShapeCode10:
		return "code10"
	case ShapeDecimal:
		return "decimal"
	case ShapeAlnumCode:
		return "alnum-code"
	default:
		return "label"
	}
}

var (
	serialRe    = regexp.MustCompile(`^\d{1,3}$`)
	nameRe      = regexp.MustCompile(`^[A-Z][A-Z\s]+$`)
	code6Re     = regexp.MustCompile(`^\d{6}$`)
	code10Re    = regexp.MustCompile(`^\d{10}$`)
	decimalRe   = regexp.MustCompile(`^\d[\d,]*\.\d{2}$`)
	alnumCodeRe = regexp.MustCompile(`^[A-Z]{3,}[A-Z0-9]+$`)
)

// Token is a single whitespace-separated table value with its shape.
type Token struct {
	Shape Shape
	Value string
}

// Classify tags s with the first shape it matches, in the order serial,
// code6, code10, decimal, alnum-code, name. Everything else is a label.
// A space-free upper-case word is an alnum-code, not a name.
func Classify(s string) Token {
	var shape Shape
	switch {
	case serialRe.MatchString(s):
		shape = ShapeSerial
	case code6Re.MatchString(s):
		shape = ShapeCode6
	case code10Re.MatchString(s):
		shape = ShapeCode10
	case decimalRe.MatchString(s):
		shape = ShapeDecimal
	case alnumCodeRe.MatchString(s):
		shape = ShapeAlnumCode
	case nameRe.MatchString(s):
		shape = ShapeName
	default:
		shape = ShapeLabel
	}
	return Token{Shape: shape, Value: s}
}

// Tokenize splits a line on whitespace and classifies each part.
func Tokenize(line string) []Token {
	parts := strings.Fields(line)
	toks := make([]Token, len(parts))
	for i, p := range parts {
		toks[i] = Classify(p)
	}
	return toks
}

// IsName reports whether line looks like an upper-case person name.
func IsName(line string) bool {
	return nameRe.MatchString(line)
}
