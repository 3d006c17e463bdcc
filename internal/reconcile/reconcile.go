// Package reconcile checks the tax arithmetic of an invoice: which GST
// regime is charged, whether each tax matches its rate, and whether the
// totals and the amount in words agree.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/inwords"
)

var hundred = decimal.NewFromInt(100)

// DefaultRates are the standard GST rates for services.
func DefaultRates() domain.TaxRates {
	return domain.TaxRates{
		CGST: decimal.NewFromInt(9),
		SGST: decimal.NewFromInt(9),
		IGST: decimal.NewFromInt(18),
	}
}

// Check is the outcome of one reconciliation rule.
type Check struct {
	Passed  bool
	Message string
}

func pass(format string, args ...any) Check {
	return Check{Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) Check {
	return Check{Passed: false, Message: fmt.Sprintf(format, args...)}
}

// Amounts are the parsed money columns of one line item.
type Amounts struct {
	Taxable decimal.Decimal
	CGST    decimal.Decimal
	SGST    decimal.Decimal
	IGST    decimal.Decimal
	Total   decimal.Decimal
}

// Sum returns taxable value plus all three taxes.
func (a Amounts) Sum() decimal.Decimal {
	return a.Taxable.Add(a.CGST).Add(a.SGST).Add(a.IGST)
}

// ParseAmount parses a printed amount. Thousands separators are ignored and
// an empty string is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reconcile.ParseAmount: %q: %w", s, err)
	}
	return d, nil
}

// Reconciler applies the tax rules at a fixed set of rates.
type Reconciler struct {
	rates domain.TaxRates
}

// New returns a Reconciler for rates.
func New(rates domain.TaxRates) *Reconciler {
	return &Reconciler{rates: rates}
}

// Expected returns rate percent of taxable, rounded half-up to paise.
func Expected(rate, taxable decimal.Decimal) decimal.Decimal {
	return rate.Div(hundred).Mul(taxable).Round(2)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// TaxRegime decides which regime a line item charges and whether its taxes
// match the configured rates. Exactly one Check is returned for every
// combination of zero and non-zero taxes.
func (r *Reconciler) TaxRegime(a Amounts) Check {
	igstRate, cgstRate, sgstRate := r.rates.IGST.String(), r.rates.CGST.String(), r.rates.SGST.String()
	hasI, hasC, hasS := !a.IGST.IsZero(), !a.CGST.IsZero(), !a.SGST.IsZero()

	switch {
	case hasI && !hasC && !hasS:
		if a.IGST.Equal(Expected(r.rates.IGST, a.Taxable)) {
			return pass("IGST is %s and correctly calculated at %s%%. CGST and SGST are NIL.", money(a.IGST), igstRate)
		}
		return fail("IGST is %s and incorrectly calculated. CGST and SGST are NIL.", money(a.IGST))
	case hasI && hasC && !hasS:
		return fail("IGST and CGST are both being charged.")
	case hasI && !hasC && hasS:
		return fail("IGST and SGST are both being charged.")
	case hasI:
		return fail("IGST, CGST and SGST are all being charged.")
	case hasC && hasS:
		wantC, wantS := Expected(r.rates.CGST, a.Taxable), Expected(r.rates.SGST, a.Taxable)
		okC, okS := a.CGST.Equal(wantC), a.SGST.Equal(wantS)
		switch {
		case okC && okS:
			return pass("CGST is %s and SGST is %s and are correctly calculated at %s%% each. IGST is NIL.",
				money(a.CGST), money(a.SGST), cgstRate)
		case okS:
			return fail("CGST is %s and incorrectly calculated. CGST should be %s.", money(a.CGST), money(wantC))
		case okC:
			return fail("SGST is %s and incorrectly calculated. SGST should be %s.", money(a.SGST), money(wantS))
		default:
			return fail("CGST is %s and SGST is %s and are incorrectly calculated. CGST should be %s and SGST should be %s.",
				money(a.CGST), money(a.SGST), money(wantC), money(wantS))
		}
	case hasS:
		return fail("CGST is NIL. Should be calculated at %s%% since IGST is NIL.", cgstRate)
	case hasC:
		return fail("SGST is NIL. Should be calculated at %s%% since IGST is NIL.", sgstRate)
	default:
		return fail("IGST, CGST and SGST are all NIL.")
	}
}

// LineTotal checks that a line item's total is its taxable value plus taxes.
func (r *Reconciler) LineTotal(a Amounts) Check {
	if a.Total.Equal(a.Sum()) {
		return pass("Computed line-item total matches the sum of taxable value and taxes.")
	}
	return fail("Computed line-item total does not match the sum of taxable value and taxes.")
}

// InvoiceTotal checks the sum of line totals against the grand-total row.
func (r *Reconciler) InvoiceTotal(lineTotals, invoiceTotal decimal.Decimal) Check {
	if lineTotals.Equal(invoiceTotal) {
		return pass("Line-item total INR matches invoice-level total INR.")
	}
	return fail("Line-item total INR does not match invoice-level total INR.")
}

// Words checks the printed amount in words against the transcription of total.
func (r *Reconciler) Words(total decimal.Decimal, words string) Check {
	if words == inwords.ToWords(total) {
		return pass("Invoice total amount in words matches the numeric total INR.")
	}
	return fail("Invoice total amount in words does not match the numeric total INR.")
}
