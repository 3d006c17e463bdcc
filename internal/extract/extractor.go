// Package extract pulls invoice fields out of page text with scoped regular
// expressions and rebuilds the line-item table from its token stream.
package extract

import (
	"regexp"
	"strings"

	"invoicecheck/internal/domain"
)

// Anchors are the supplier-specific strings the letter head is located by.
type Anchors struct {
	CompanyName  string
	AddressStart string
}

// DefaultAnchors matches the built-in billing profile.
var DefaultAnchors = Anchors{
	CompanyName:  "Genius HRTech Limited",
	AddressStart: "Synthesis Business Park",
}

// AnchorsFor returns the anchors of a billing profile.
func AnchorsFor(p *domain.Profile) Anchors {
	return Anchors{CompanyName: p.CompanyName, AddressStart: p.AddressStart}
}

var (
	formerNameRe = Pattern(`(\(Formerly known as[^\)]+\))`)
	cinRe        = Pattern(`CIN No[:\s]*([A-Z0-9]+)`)
	supplierGST  = Pattern(`GST NO[:\s]*([A-Z0-9]+)`)
	phoneRe      = Pattern(`Ph[:\s]*([\d\-/]+)`)
	emailRe      = Pattern(`Email[:\s]*([\w\.\-]+@[\w\.\-]+)`)
	websiteRe    = Pattern(`Web[:\s]*(www\.[\w\.\-/]+)`)

	supplierPAN = Pattern(`PAN NO\s*[:\s]*([A-Z]{5}\d{4}[A-Z])`)
	supplierTAN = Pattern(`TAN NO\s*[:\s]*([A-Z]{4}\d{5}[A-Z])`)

	billToBlockRe = Pattern(`Bill To:-\s*(.*?)Sl\.`)
	firstLineRe   = Pattern(`^([^\n]+)`)
	billToAddrRe  = Pattern(`^[^\n]+\n(.*?)GSTIN`)
	billToGSTIN   = Pattern(`GSTIN\s*[:\s]*([A-Z0-9]+)`)
	billToPAN     = Pattern(`Pan No\s*[:\s]*([A-Z]{5}\d{4}[A-Z])`)
	billToTAN     = Pattern(`Tan No\s*[:\s]*([A-Z]{4}\d{5}[A-Z])`)
	placeOfSupply = Pattern(`Place of Supply[:\s]*([A-Z\-0-9]+)`)
	irnRe         = Pattern(`IRN No[.\s]*([a-f0-9]{64})`)

	dateRe         = Pattern(`Date[:\s]*([\d]+\s+\w+\s*\d{4})`)
	invoiceNoRe    = Pattern(`Invoice[:\s]*([A-Z]+/[A-Z0-9]+/\d+)`)
	serviceMonthRe = Pattern(`Service Month\s*[:\s]*([^\n]+)`)
	lowerTDSRe     = Pattern(`LOWER TDS CERT\.?\s*No\.?\s*[:\s]*([A-Z0-9]+)`)

	tableBlockRe = Pattern(`Total\s+INR\s*\n(.*?)Total\s+Invoice\s*Value`)
	totalsRe     = regexp.MustCompile(`(?i)Total Invoice\s*Value\s+` +
		`([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})`)
	inWordsRe = Pattern(`Total Invoice\s*Value\s*\(\s*In\s*Words\s*\)[:\s]*([^\n]+)`)

	arnRe          = Pattern(`ARN[^\n]*[:\s]*([^\n]+)`)
	supplyRe       = Pattern(`Supply\s*:\s*([^\n]+)`)
	igstForegoneRe = Pattern(`IGST\s*Foregone\s*[:\s]*([^\n]+)`)

	noteBlockRe  = Pattern(`NOTE:\s*(.*?)Bank details`)
	notePoint1Re = regexp.MustCompile(`(?s)1\.\s*(.*?)2\.`)
	notePoint2Re = regexp.MustCompile(`(?s)2\.\s*(.*?)(?:For any kind|$)`)
	postScriptRe = regexp.MustCompile(`(For any kind of GST[^\n]+)`)

	beneficiaryNameRe = Pattern(`Beneficiary Name\s*[:\s]*([^\n]+(?:Limited)[^\n]*)`)
	bankNameRe        = Pattern(`Bank\s*Name\s*[:\s]*([^\n]+)`)
	bankAddressRe     = Pattern(`Address\s*[:\s]*([\d/A-Z\s]+ROAD)`)
	reverseChargeRe   = Pattern(`Reverse\s*Charge\s*[:\s]*(\w+)`)
	accountNoRe       = Pattern(`Account\s*Number\s*[:\s]*(\d+)`)
	ifscRe            = Pattern(`IFSC\s*Code\s*[:\s]*([A-Z0-9]+)`)
	micrRe            = Pattern(`MICR\s*Code\s*[:\s]*(\d+)`)
	countryRe         = Pattern(`Country\s*[:\s]*(\w+)`)
	signatoryRe       = Pattern(`Authorised Signatory\s*:\s*([^\n]+)`)
)

// signatureMarkers are phrases PDF viewers stamp next to a digital signature.
var signatureMarkers = []string{"digitally signed", "signature not verified", "digital signature"}

// qrMinImages is the image count that implies a QR code besides the logo.
const qrMinImages = 2

// Extractor locates every invoice field in a document's text.
type Extractor struct {
	companyRe *regexp.Regexp
	addressRe *regexp.Regexp
}

// New builds an Extractor for the supplier identified by a.
func New(a Anchors) *Extractor {
	return &Extractor{
		companyRe: Pattern(`Authorised Signatory\n(` + regexp.QuoteMeta(a.CompanyName) + `)`),
		addressRe: Pattern(`(` + regexp.QuoteMeta(a.AddressStart) + `\s+Tower[^\n]+\n[^\n]+?\.)\s*CIN No`),
	}
}

// Extract builds the fixed-shape invoice from page text and the number of
// embedded images. Fields that cannot be found are empty strings; a missing
// table yields an empty line-item list.
func (e *Extractor) Extract(text string, imageCount int) *domain.Invoice {
	return &domain.Invoice{
		LetterHead:       e.letterHead(text),
		TaxInvoice:       taxInvoice(text),
		BillTo:           billTo(text),
		InvoiceDetails:   invoiceDetails(text),
		LineItems:        ParseTable(Block(tableBlockRe, text)),
		Totals:           totals(text),
		ARNForLUT:        Locate(arnRe, text, ""),
		Supply:           LocateNotAfter(supplyRe, "Place of ", text, ""),
		IGSTForegone:     Locate(igstForegoneRe, text, ""),
		Note:             note(text),
		Beneficiary:      beneficiary(text),
		QRCode:           flag(imageCount >= qrMinImages),
		DigitalSignature: flag(hasSignature(text)),
	}
}

func (e *Extractor) letterHead(text string) domain.LetterHead {
	return domain.LetterHead{
		CompanyName:       Locate(e.companyRe, text, ""),
		FormerCompanyName: Locate(formerNameRe, text, ""),
		Address:           joinLines(Locate(e.addressRe, text, "")),
		CIN:               Locate(cinRe, text, ""),
		GSTIN:             Locate(supplierGST, text, ""),
		Phone:             Locate(phoneRe, text, ""),
		Email:             Locate(emailRe, text, ""),
		Website:           Locate(websiteRe, text, ""),
	}
}

// taxInvoice reads the supplier's PAN and TAN, which precede the bill-to
// block and are therefore the first matches in the document.
func taxInvoice(text string) domain.TaxInvoice {
	return domain.TaxInvoice{
		PAN: Locate(supplierPAN, text, ""),
		TAN: Locate(supplierTAN, text, ""),
	}
}

// billTo reads the billed party strictly inside the "Bill To:-" block so
// the supplier's identifiers above it are never picked up.
func billTo(text string) domain.BillTo {
	block := Block(billToBlockRe, text)
	return domain.BillTo{
		CompanyName:   Locate(firstLineRe, block, ""),
		Address:       joinLines(Block(billToAddrRe, block)),
		GSTIN:         Locate(billToGSTIN, block, ""),
		PAN:           Locate(billToPAN, block, ""),
		TAN:           Locate(billToTAN, block, ""),
		PlaceOfSupply: Locate(placeOfSupply, block, ""),
		IRN:           Locate(irnRe, block, ""),
	}
}

func invoiceDetails(text string) domain.InvoiceDetails {
	return domain.InvoiceDetails{
		Date:           Locate(dateRe, text, ""),
		InvoiceNo:      Locate(invoiceNoRe, text, ""),
		ServiceMonth:   Locate(serviceMonthRe, text, ""),
		LowerTDSCertNo: Locate(lowerTDSRe, text, ""),
	}
}

func totals(text string) domain.InvoiceTotals {
	t := domain.InvoiceTotals{InWords: Locate(inWordsRe, text, "")}
	if m := totalsRe.FindStringSubmatch(text); m != nil {
		t.TaxableValue, t.CGST, t.SGST, t.IGST, t.TotalINR = m[1], m[2], m[3], m[4], m[5]
	}
	return t
}

func note(text string) domain.Note {
	var n domain.Note
	block := Locate(noteBlockRe, text, "")
	if block == "" {
		return n
	}
	if m := notePoint1Re.FindStringSubmatch(block); m != nil {
		n.Point1 = collapseSpace(m[1])
	}
	if m := notePoint2Re.FindStringSubmatch(block); m != nil {
		n.Point2 = collapseSpace(m[1])
	}
	if m := postScriptRe.FindStringSubmatch(block); m != nil {
		n.PostScript = strings.TrimSpace(m[1])
	}
	return n
}

func beneficiary(text string) domain.Beneficiary {
	return domain.Beneficiary{
		BeneficiaryName:     Locate(beneficiaryNameRe, text, ""),
		BankName:            Locate(bankNameRe, text, ""),
		Address:             Locate(bankAddressRe, text, ""),
		ReverseCharge:       Locate(reverseChargeRe, text, ""),
		AccountNo:           Locate(accountNoRe, text, ""),
		IFSCCode:            Locate(ifscRe, text, ""),
		MICRCode:            Locate(micrRe, text, ""),
		Country:             Locate(countryRe, text, ""),
		AuthorisedSignatory: Locate(signatoryRe, text, ""),
	}
}

func hasSignature(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range signatureMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func flag(b bool) string {
	if b {
		return domain.FlagTrue
	}
	return domain.FlagFalse
}
