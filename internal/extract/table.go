package extract

import (
	"strings"

	"invoicecheck/internal/domain"
)

// The same invoice template lays a row out two ways depending on whether
// the bill rate equals the taxable value:
//
//	Layout A                     Layout B
//	1                            1
//	SHAILENDRA KUSHWAH           PRASHANT KUMAR
//	998513                       998513
//	8000112642 51980.00          8000111210
//	ERCSIN01233612               52189.00
//	51980.00                     ERCSMI00239725 1739.63
//	0.00                         0.00
//	...                          ...
//
// followed by one line each for CGST, SGST, IGST and the row total. Rows
// are rebuilt by shape, never by line position.

// recordState accumulates one line item while its lines are scanned.
type recordState struct {
	item     domain.LineItem
	trailing []string
}

// fillRule recognises one token arrangement. apply fills still-empty fields
// and reports whether the line was consumed.
type fillRule struct {
	name  string
	apply func(st *recordState, toks []Token) bool
}

func is(toks []Token, shapes ...Shape) bool {
	if len(toks) != len(shapes) {
		return false
	}
	for i, s := range shapes {
		if toks[i].Shape != s {
			return false
		}
	}
	return true
}

// fillRules is ordered; the first rule that applies to a line wins.
var fillRules = []fillRule{
	{
		name: "po_and_rate",
		apply: func(st *recordState, toks []Token) bool {
			if st.item.PONo != "" || !is(toks, ShapeCode10, ShapeDecimal) {
				return false
			}
			st.item.PONo, st.item.BillRate = toks[0].Value, toks[1].Value
			return true
		},
	},
	{
		name: "po",
		apply: func(st *recordState, toks []Token) bool {
			if st.item.PONo != "" || !is(toks, ShapeCode10) {
				return false
			}
			st.item.PONo = toks[0].Value
			return true
		},
	},
	{
		name: "rate",
		apply: func(st *recordState, toks []Token) bool {
			if st.item.PONo == "" || st.item.BillRate != "" || st.item.InvoiceCode != "" || !is(toks, ShapeDecimal) {
				return false
			}
			st.item.BillRate = toks[0].Value
			return true
		},
	},
	{
		name: "code_and_taxable",
		apply: func(st *recordState, toks []Token) bool {
			if st.item.InvoiceCode != "" || !is(toks, ShapeAlnumCode, ShapeDecimal) {
				return false
			}
			st.item.InvoiceCode, st.item.TaxableValue = toks[0].Value, toks[1].Value
			return true
		},
	},
	{
		name: "code",
		apply: func(st *recordState, toks []Token) bool {
			if st.item.InvoiceCode != "" || !is(toks, ShapeAlnumCode) {
				return false
			}
			st.item.InvoiceCode = toks[0].Value
			return true
		},
	},
	{
		name: "amount",
		apply: func(st *recordState, toks []Token) bool {
			if st.item.InvoiceCode == "" || !is(toks, ShapeDecimal) {
				return false
			}
			if st.item.TaxableValue == "" {
				st.item.TaxableValue = toks[0].Value
			} else {
				st.trailing = append(st.trailing, toks[0].Value)
			}
			return true
		},
	},
}

// ParseTable rebuilds line items from the text between the table header and
// the grand-total row. Rows that cannot be recognised are skipped; fields
// that cannot be recognised are left empty.
func ParseTable(block string) []domain.LineItem {
	items := []domain.LineItem{}
	for _, rec := range SplitRecords(block) {
		if item, ok := ParseRecord(rec); ok {
			items = append(items, item)
		}
	}
	return items
}

// SplitRecords cuts block before every line made of a 1 to 3 digit serial
// number that has another line after it. Each record is returned as its
// trimmed, non-blank lines.
func SplitRecords(block string) [][]string {
	raw := strings.Split(strings.TrimSpace(block), "\n")

	var records [][]string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			records = append(records, cur)
		}
		cur = nil
	}
	for i, line := range raw {
		if i > 0 && i < len(raw)-1 && serialRe.MatchString(line) {
			flush()
		}
		if l := strings.TrimSpace(line); l != "" {
			cur = append(cur, l)
		}
	}
	flush()
	return records
}

// ParseRecord turns one record's lines into a line item. ok is false when the
// record does not start with a serial number or has fewer than two lines.
func ParseRecord(lines []string) (item domain.LineItem, ok bool) {
	if len(lines) < 2 || !serialRe.MatchString(lines[0]) {
		return domain.LineItem{}, false
	}

	st := &recordState{}
	st.item.SlNo = lines[0]
	if IsName(lines[1]) {
		st.item.ResourceName = lines[1]
	}
	if len(lines) > 2 && code6Re.MatchString(lines[2]) {
		st.item.HSNSAC = lines[2]
	}

	for i := 3; i < len(lines); i++ {
		toks := Tokenize(lines[i])
		for _, r := range fillRules {
			if r.apply(st, toks) {
				break
			}
		}
	}

	trailing := func(i int) string {
		if i < len(st.trailing) {
			return st.trailing[i]
		}
		return ""
	}
	st.item.CGST = trailing(0)
	st.item.SGST = trailing(1)
	st.item.IGST = trailing(2)
	st.item.TotalINR = trailing(3)
	return st.item, true
}
