// Package validator checks an extracted invoice section by section and
// records one pass or error message for every key it inspects.
package validator

// Section names a group of validation messages.
type Section string

const (
	SectionLetterHead       Section = "letter_head"
	SectionTaxInvoice       Section = "tax_invoice"
	SectionBillTo           Section = "bill_to"
	SectionInvoice          Section = "invoice"
	SectionResourceAndBill  Section = "resource_and_bill"
	SectionNote             Section = "note"
	SectionBeneficiary      Section = "beneficiary"
	SectionQRCode           Section = "qr_code"
	SectionDigitalSignature Section = "digital_signature"
)

// Sections lists every section in report order.
var Sections = []Section{
	SectionLetterHead,
	SectionTaxInvoice,
	SectionBillTo,
	SectionInvoice,
	SectionResourceAndBill,
	SectionNote,
	SectionBeneficiary,
	SectionQRCode,
	SectionDigitalSignature,
}

// Result holds the ordered error and pass messages of one run.
type Result struct {
	Errors map[Section][]string `json:"errors"`
	Passes map[Section][]string `json:"passes"`
}

// NewResult returns a Result with every section present and empty.
func NewResult() *Result {
	r := &Result{
		Errors: make(map[Section][]string, len(Sections)),
		Passes: make(map[Section][]string, len(Sections)),
	}
	for _, s := range Sections {
		r.Errors[s] = []string{}
		r.Passes[s] = []string{}
	}
	return r
}

// HasErrors reports whether any section recorded an error.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error messages across all sections.
func (r *Result) ErrorCount() int {
	n := 0
	for _, msgs := range r.Errors {
		n += len(msgs)
	}
	return n
}

// PassCount returns the number of pass messages across all sections.
func (r *Result) PassCount() int {
	n := 0
	for _, msgs := range r.Passes {
		n += len(msgs)
	}
	return n
}

func (r *Result) fail(s Section, msg string) {
	r.Errors[s] = append(r.Errors[s], msg)
}

func (r *Result) pass(s Section, msg string) {
	r.Passes[s] = append(r.Passes[s], msg)
}
