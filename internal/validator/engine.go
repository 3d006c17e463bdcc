package validator

import (
	"fmt"
	"strings"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/reconcile"
)

// Engine validates one extracted document against a billing profile. It
// accumulates messages into a single Result and must not be reused for
// another document or shared between goroutines.
type Engine struct {
	profile *domain.Profile
	recon   *reconcile.Reconciler
	result  *Result
}

// New creates an Engine for one validation run.
func New(p *domain.Profile) *Engine {
	return &Engine{
		profile: p,
		recon:   reconcile.New(p.Rates),
		result:  NewResult(),
	}
}

// Result returns the messages recorded so far.
func (e *Engine) Result() *Result {
	return e.result
}

// Validate runs every section check over the generic form of an extracted
// invoice. Business-rule failures are recorded in the Result; an error is
// returned only when a top-level key is absent or a value has the wrong type.
func (e *Engine) Validate(fields map[string]any) (*Result, error) {
	letterHead, err := mapping(fields, "letter_head")
	if err != nil {
		return nil, err
	}
	taxInvoice, err := mapping(fields, "tax_invoice")
	if err != nil {
		return nil, err
	}
	billTo, err := mapping(fields, "bill_to_details")
	if err != nil {
		return nil, err
	}
	details, err := mapping(fields, "invoice_details")
	if err != nil {
		return nil, err
	}
	items, err := list(fields, "resource_and_bill_details")
	if err != nil {
		return nil, err
	}
	totals, err := mapping(fields, "total_invoice_value")
	if err != nil {
		return nil, err
	}
	note, err := mapping(fields, "note")
	if err != nil {
		return nil, err
	}
	beneficiary, err := mapping(fields, "beneficiary_details")
	if err != nil {
		return nil, err
	}
	qr, err := flagValue(fields, "qr_code")
	if err != nil {
		return nil, err
	}
	signature, err := flagValue(fields, "digital_signature")
	if err != nil {
		return nil, err
	}

	steps := []func() error{
		func() error { return e.ValidateLetterHead(letterHead) },
		func() error { return e.ValidateTaxInvoice(taxInvoice) },
		func() error { return e.ValidateBillTo(billTo) },
		func() error { return e.ValidateInvoiceDetails(details) },
		func() error { return e.ValidateResourceAndBill(items, totals) },
		func() error { return e.ValidateNote(note) },
		func() error { return e.ValidateBeneficiary(beneficiary) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	e.ValidateQRCode(qr)
	e.ValidateDigitalSignature(signature)
	return e.result, nil
}

func (e *Engine) run(s Section, m map[string]any, fields []field) error {
	for _, f := range fields {
		o, err := f.inspect(m)
		if err != nil {
			return fmt.Errorf("validator.%s: %w", s, err)
		}
		e.result.record(s, f, o)
	}
	return nil
}

// ValidateLetterHead checks the supplier identity against the profile.
func (e *Engine) ValidateLetterHead(m map[string]any) error {
	const where = "letter head"
	p := e.profile
	return e.run(SectionLetterHead, m, []field{
		{key: "company_name", label: "Company name", where: where, check: equals(p.CompanyName,
			"Company name does not match the expected company name.",
			"Company name is present and matches the expected value.")},
		{key: "former_company_name", label: "Former company name", where: where, check: func(v string) Outcome {
			if strings.Contains(v, "\n") {
				return Checked(false, "Former company name contains invalid newline characters.")
			}
			return equals(p.FormerName,
				"Former company name does not match the expected value.",
				"Former company name is present and matches the expected value.")(v)
		}},
		{key: "gstin", label: "GSTIN", where: where, check: matches(gstinPattern,
			"GSTIN format is invalid in letter head.",
			"GSTIN is present and format is valid.")},
		{key: "email", label: "Email ID", where: where, check: equals(p.Email,
			"Email ID does not match the expected email address.",
			"Email ID is present and matches the expected value.")},
		{key: "website", label: "Website", where: where, check: equals(p.Website,
			"Website does not match the expected URL.",
			"Website is present and matches the expected value.")},
	})
}

// ValidateTaxInvoice checks the format of the supplier's PAN and TAN.
func (e *Engine) ValidateTaxInvoice(m map[string]any) error {
	const where = "tax invoice"
	return e.run(SectionTaxInvoice, m, []field{
		{key: "pan_no", label: "PAN number", where: where, check: matches(panPattern,
			"PAN number format is invalid.", "PAN number is present and format is valid.")},
		{key: "tan_no", label: "TAN number", where: where, check: matches(tanPattern,
			"TAN number format is invalid.", "TAN number is present and format is valid.")},
	})
}

// ValidateBillTo checks the billed party's details.
func (e *Engine) ValidateBillTo(m map[string]any) error {
	const where = "bill-to details"
	formatted := func(key, label string, p pattern) field {
		return field{key: key, label: label, where: where, check: matches(p,
			label+" format is invalid in bill-to details.",
			label+" is present and format is valid in bill-to details.")}
	}
	presence := func(key, label string) field {
		return field{key: key, label: label, where: where, check: present(label + " is present in bill-to details.")}
	}
	return e.run(SectionBillTo, m, []field{
		presence("company_name", "Company name"),
		presence("address", "Address"),
		formatted("gstin", "GSTIN", gstinPattern),
		formatted("pan_no", "PAN number", panPattern),
		formatted("tan_no", "TAN number", tanPattern),
		presence("place_of_supply", "Place of supply"),
		formatted("irn_no", "IRN number", irnPattern),
	})
}

// ValidateInvoiceDetails checks the invoice metadata. The lower TDS
// certificate number is optional and only its key is required.
func (e *Engine) ValidateInvoiceDetails(m map[string]any) error {
	const where = "invoice details"
	if err := e.run(SectionInvoice, m, []field{
		{key: "date", label: "Date", where: where, check: matches(datePattern,
			"Date format is invalid in invoice details.",
			"Date is present and format is valid in invoice details.")},
		{key: "invoice_no", label: "Invoice number", where: where, check: present("Invoice number is present in invoice details.")},
		{key: "service_month", label: "Service month", where: where, check: present("Service month is present in invoice details.")},
	}); err != nil {
		return err
	}

	if _, ok := m["lower_tds_cert_no"]; !ok {
		e.result.fail(SectionInvoice, "Lower TDS certificate number key is missing in invoice details.")
	} else {
		e.result.pass(SectionInvoice, "Lower TDS certificate number key is present in invoice details.")
	}
	return nil
}

// ValidateNote checks that every note point is part of the profile's note.
func (e *Engine) ValidateNote(m map[string]any) error {
	point := func(key, label string) field {
		return field{key: key, label: label, check: contained(e.profile.NoteText,
			label+" content does not match expected text.",
			label+" is present and valid.")}
	}
	return e.run(SectionNote, m, []field{
		point("1", "Note point 1"),
		point("2", "Note point 2"),
		point("post_script", "Post script"),
	})
}

// ValidateBeneficiary checks that the payment details are filled in.
func (e *Engine) ValidateBeneficiary(m map[string]any) error {
	presence := func(key, label string) field {
		return field{key: key, label: label, check: present(label + " is present.")}
	}
	return e.run(SectionBeneficiary, m, []field{
		presence("beneficiary_name", "Beneficiary name"),
		presence("account_no", "Account number"),
		presence("ifsc_code", "IFSC code"),
		presence("country", "Country"),
	})
}

// ValidateQRCode checks the QR code flag.
func (e *Engine) ValidateQRCode(v string) {
	e.flag(SectionQRCode, v, "QR code flag is missing.",
		"QR code flag is present but marked as invalid.", "QR code is present and valid.")
}

// ValidateDigitalSignature checks the digital signature flag.
func (e *Engine) ValidateDigitalSignature(v string) {
	e.flag(SectionDigitalSignature, v, "Digital signature flag is missing.",
		"Digital signature flag is present but marked as invalid.", "Digital signature is present and valid.")
}

func (e *Engine) flag(s Section, v, missing, invalid, valid string) {
	switch {
	case !IsPresent(v):
		e.result.fail(s, missing)
	case v != domain.FlagTrue:
		e.result.fail(s, invalid)
	default:
		e.result.pass(s, valid)
	}
}

func mapping(fields map[string]any, key string) (map[string]any, error) {
	v, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("validator: %w: %s", domain.ErrMissingSection, key)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("validator: %w: %s is %T", domain.ErrInvalidFieldType, key, v)
	}
	return m, nil
}

func list(fields map[string]any, key string) ([]map[string]any, error) {
	v, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("validator: %w: %s", domain.ErrMissingSection, key)
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return x, nil
	case []any:
		out := make([]map[string]any, 0, len(x))
		for i, raw := range x {
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("validator: %w: %s[%d] is %T", domain.ErrInvalidFieldType, key, i, raw)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("validator: %w: %s is %T", domain.ErrInvalidFieldType, key, v)
	}
}

func flagValue(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("validator: %w: %s", domain.ErrMissingSection, key)
	}
	return stringValue(key, v)
}

// stringValue accepts a string or nil (read as empty).
func stringValue(key string, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	default:
		return "", fmt.Errorf("validator: %w: %s is %T", domain.ErrInvalidFieldType, key, v)
	}
}
