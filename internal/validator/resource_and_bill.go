package validator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"invoicecheck/internal/reconcile"
)

// lineItemFields are the identity columns every line item must carry.
var lineItemFields = []field{
	{key: "sl_no", label: "Serial number", check: present("Serial number is present.")},
	{key: "resource_name", label: "Resource name", check: present("Resource name is present.")},
	{key: "hsn_sac", label: "HSN/SAC", check: present("HSN/SAC is present.")},
	{key: "po_no", label: "PO number", check: present("PO number is present.")},
	{key: "bill_rate", label: "Bill rate", check: present("Bill rate is present.")},
	{key: "ericsson_invoice_code", label: "Ericsson invoice code", check: present("Ericsson invoice code is present.")},
}

// amountField is a money column. Only its key is required; an empty value
// reads as zero.
type amountField struct {
	key     string
	label   string
	missing string
	target  func(a *reconcile.Amounts) *decimal.Decimal
}

var lineAmountFields = []amountField{
	{key: "taxable_value", label: "Taxable value", missing: "Taxable value key is missing.",
		target: func(a *reconcile.Amounts) *decimal.Decimal { return &a.Taxable }},
	{key: "cgst", label: "CGST", missing: "CGST key is missing.",
		target: func(a *reconcile.Amounts) *decimal.Decimal { return &a.CGST }},
	{key: "sgst", label: "SGST", missing: "SGST key is missing.",
		target: func(a *reconcile.Amounts) *decimal.Decimal { return &a.SGST }},
	{key: "igst", label: "IGST", missing: "IGST key is missing.",
		target: func(a *reconcile.Amounts) *decimal.Decimal { return &a.IGST }},
	{key: "total_inr", label: "Total INR", missing: "Line item total INR key is missing.",
		target: func(a *reconcile.Amounts) *decimal.Decimal { return &a.Total }},
}

// readAmount records the outcome for f and returns its parsed value. ok is
// false when the key is absent or the value is not a number.
func (e *Engine) readAmount(m map[string]any, f amountField) (decimal.Decimal, bool, error) {
	raw, found := m[f.key]
	if !found {
		e.result.fail(SectionResourceAndBill, f.missing)
		return decimal.Zero, false, nil
	}
	s, err := stringValue(f.key, raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("validator.%s: %w", SectionResourceAndBill, err)
	}
	v, err := reconcile.ParseAmount(s)
	if err != nil {
		e.result.fail(SectionResourceAndBill, f.label+" is not a valid amount.")
		return decimal.Zero, false, nil
	}
	e.result.pass(SectionResourceAndBill, f.label+" is present.")
	return v, true, nil
}

func (e *Engine) recordCheck(c reconcile.Check) {
	if c.Passed {
		e.result.pass(SectionResourceAndBill, c.Message)
	} else {
		e.result.fail(SectionResourceAndBill, c.Message)
	}
}

// ValidateResourceAndBill checks every line item, then reconciles each
// item's taxes and total, the sum of item totals against the invoice-level
// total, and the amount in words.
func (e *Engine) ValidateResourceAndBill(items []map[string]any, totals map[string]any) error {
	if len(items) == 0 {
		e.result.fail(SectionResourceAndBill, "Resource and bill details list has NO line items.")
		return nil
	}
	e.result.pass(SectionResourceAndBill, "Resource and bill details list has line items.")

	lineSum := decimal.Zero
	linesComplete := true
	for _, item := range items {
		if err := e.run(SectionResourceAndBill, item, lineItemFields); err != nil {
			return err
		}

		var a reconcile.Amounts
		complete := true
		for _, f := range lineAmountFields {
			v, ok, err := e.readAmount(item, f)
			if err != nil {
				return err
			}
			*f.target(&a) = v
			complete = complete && ok
		}
		if !complete {
			linesComplete = false
			continue
		}
		e.recordCheck(e.recon.TaxRegime(a))
		e.recordCheck(e.recon.LineTotal(a))
		lineSum = lineSum.Add(a.Total)
	}

	total, haveTotal, err := e.readAmount(totals, amountField{
		key: "total_inr", label: "Total invoice value in INR",
		missing: "Invoice-level total INR key is missing.",
	})
	if err != nil {
		return err
	}

	var words string
	raw, haveWords := totals["in_words"]
	if !haveWords {
		e.result.fail(SectionResourceAndBill, "Invoice total amount in words key is missing.")
	} else {
		if words, err = stringValue("in_words", raw); err != nil {
			return fmt.Errorf("validator.%s: %w", SectionResourceAndBill, err)
		}
		e.result.pass(SectionResourceAndBill, "Total invoice value in words is present.")
	}

	if !haveTotal {
		return nil
	}
	if linesComplete {
		e.recordCheck(e.recon.InvoiceTotal(lineSum, total))
	}
	if haveWords {
		e.recordCheck(e.recon.Words(total, words))
	}
	return nil
}
