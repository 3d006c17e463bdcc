package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LetterHead holds the supplier identity printed at the top of the invoice.
type LetterHead struct {
	CompanyName       string `json:"company_name"`
	FormerCompanyName string `json:"former_company_name"`
	Address           string `json:"address"`
	CIN               string `json:"cin"`
	GSTIN             string `json:"gstin"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Website           string `json:"website"`
}

// TaxInvoice holds the supplier's PAN and TAN under the TAX INVOICE heading.
type TaxInvoice struct {
	PAN string `json:"pan_no"`
	TAN string `json:"tan_no"`
}

// BillTo holds the billed party's details.
type BillTo struct {
	CompanyName   string `json:"company_name"`
	Address       string `json:"address"`
	GSTIN         string `json:"gstin"`
	PAN           string `json:"pan_no"`
	TAN           string `json:"tan_no"`
	PlaceOfSupply string `json:"place_of_supply"`
	IRN           string `json:"irn_no"`
}

// InvoiceDetails holds invoice metadata.
type InvoiceDetails struct {
	Date           string `json:"date"`
	InvoiceNo      string `json:"invoice_no"`
	ServiceMonth   string `json:"service_month"`
	LowerTDSCertNo string `json:"lower_tds_cert_no"`
}

// LineItem is one row of the resource-and-bill table. Amounts are kept as
// the printed decimal strings; empty means absent.
type LineItem struct {
	SlNo         string `json:"sl_no"`
	ResourceName string `json:"resource_name"`
	HSNSAC       string `json:"hsn_sac"`
	PONo         string `json:"po_no"`
	BillRate     string `json:"bill_rate"`
	InvoiceCode  string `json:"ericsson_invoice_code"`
	TaxableValue string `json:"taxable_value"`
	CGST         string `json:"cgst"`
	SGST         string `json:"sgst"`
	IGST         string `json:"igst"`
	TotalINR     string `json:"total_inr"`
}

// InvoiceTotals holds the grand-total row and the amount in words.
type InvoiceTotals struct {
	TaxableValue string `json:"taxable_value"`
	CGST         string `json:"cgst"`
	SGST         string `json:"sgst"`
	IGST         string `json:"igst"`
	TotalINR     string `json:"total_inr"`
	InWords      string `json:"in_words"`
}

// Note holds the two numbered note points and the GST contact line.
type Note struct {
	Point1     string `json:"1"`
	Point2     string `json:"2"`
	PostScript string `json:"post_script"`
}

// Beneficiary holds the bank details for payment.
type Beneficiary struct {
	BeneficiaryName     string `json:"beneficiary_name"`
	BankName            string `json:"bank_name"`
	Address             string `json:"address"`
	ReverseCharge       string `json:"reverse_charge"`
	AccountNo           string `json:"account_no"`
	IFSCCode            string `json:"ifsc_code"`
	MICRCode            string `json:"micr_code"`
	Country             string `json:"country"`
	AuthorisedSignatory string `json:"authorised_signatory"`
}

// Invoice is the fixed-shape extraction result. Every key is always present
// and every leaf is a string; QRCode and DigitalSignature are FlagTrue or
// FlagFalse.
type Invoice struct {
	LetterHead       LetterHead     `json:"letter_head"`
	TaxInvoice       TaxInvoice     `json:"tax_invoice"`
	BillTo           BillTo         `json:"bill_to_details"`
	InvoiceDetails   InvoiceDetails `json:"invoice_details"`
	LineItems        []LineItem     `json:"resource_and_bill_details"`
	Totals           InvoiceTotals  `json:"total_invoice_value"`
	ARNForLUT        string         `json:"arn_for_lut"`
	Supply           string         `json:"supply"`
	IGSTForegone     string         `json:"igst_foregone"`
	Note             Note           `json:"note"`
	Beneficiary      Beneficiary    `json:"beneficiary_details"`
	QRCode           string         `json:"qr_code"`
	DigitalSignature string         `json:"digital_signature"`
}

// Fields returns the invoice in its generic JSON form, the shape every
// extractor produces and the validation engine consumes.
func (inv *Invoice) Fields() (map[string]any, error) {
	if inv.LineItems == nil {
		inv.LineItems = []LineItem{}
	}
	raw, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("domain.Invoice.Fields: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("domain.Invoice.Fields: %w", err)
	}
	return fields, nil
}

// ProcessedBill is one entry of the processed log, keyed by the source
// system's BillID. A resent bill overwrites its previous entry.
type ProcessedBill struct {
	BillID      string     `db:"bill_id" json:"bill_id"`
	Status      BillStatus `db:"status" json:"status"`
	URL         string     `db:"url" json:"url"`
	DocType     string     `db:"doc_type" json:"doc_type"`
	Error       *string    `db:"error" json:"error,omitempty"`
	RunID       *uuid.UUID `db:"run_id" json:"run_id,omitempty"`
	Attempts    int        `db:"attempts" json:"attempts"`
	ProcessedAt time.Time  `db:"processed_at" json:"processed_at"`
}

// ValidationRun records one extraction + validation of one document.
type ValidationRun struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Source        RunSource       `db:"source" json:"source"`
	FileName      string          `db:"file_name" json:"file_name"`
	BillID        *string         `db:"bill_id" json:"bill_id,omitempty"`
	Extractor     string          `db:"extractor" json:"extractor"`
	Status        RunStatus       `db:"status" json:"status"`
	TotalChecks   int             `db:"total_checks" json:"total_checks"`
	Passed        int             `db:"passed" json:"passed"`
	Failed        int             `db:"failed" json:"failed"`
	SuccessRate   float64         `db:"success_rate" json:"success_rate"`
	ExtractedData json.RawMessage `db:"extracted_data" json:"extracted_data"`
	Results       json.RawMessage `db:"results" json:"validation_results"`
	S3Bucket      string          `db:"s3_bucket" json:"s3_bucket,omitempty"`
	S3Key         string          `db:"s3_key" json:"s3_key,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// DigitalInvoice is one entry of the GSPPI invoice list.
type DigitalInvoice struct {
	BillID  string `json:"BillID"`
	URL     string `json:"Url"`
	DocType string `json:"DocType"`
}

// BatchSummary counts the outcome of one GSPPI batch run. TotalFetched
// counts distinct BillIDs and always equals Succeeded + Failed.
type BatchSummary struct {
	TotalFetched int       `json:"total_fetched"`
	Duplicates   int       `json:"duplicates,omitempty"`
	Succeeded    int       `json:"succeeded"`
	Failed       int       `json:"failed"`
	FailedBills  []string  `json:"failed_bills,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}
