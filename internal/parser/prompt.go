package parser

import (
	"encoding/json"
	"fmt"

	"invoicecheck/internal/domain"
)

// SystemInstruction frames every LLM extraction request.
const SystemInstruction = `You are an expert at extracting structured data from invoices.
Return ONLY a valid JSON object that strictly adheres to the specified schema.
If a value is missing, return an empty string "".`

const extractionRules = `Extract data from the provided invoice.

Rules:

Return ONLY the actual address (up till the PIN code).

Return ONLY the actual values, NOT the labels.
Example 1: From "CIN No:U74140WB1993PLC059586", return only "U74140WB1993PLC059586"
Example 2: From "Pan No : AACCE4175D", return only "AACCE4175D"
Example 3: From "TAN NO : CALG02952F", return only "CALG02952F"

Preserve formatting.
Example 1: From "(Formerly known as Genius Consultants Limited)", return "(Formerly known as Genius Consultants Limited)" and not "Formerly known as Genius Consultants Limited"
Example 2: From "GWBIAR/NV0001/26", return "GWBIAR/NV0001/26" and not "GWBIARNV000126" or "GWBIAR NV000 126"
Example 3: From "AACCE4175D", return "AACCE4175D" and not "AACC E4175D"

For blank fields, STRICTLY return "".

For Resource and Bill Details and Total Invoice Value, properly follow table outlines to extract the data. Every value is a string; keep amounts exactly as printed.

For the Note, maintain a clear separation of points 1 and 2, and the post script.

For the QR Code, return "True" (if Present) or "False" (if Absent).

For Digital Signature, return "True" (if Present) or "False" (if Absent).

If there are any key objects that are missing, do NOT omit them. Instead return "" as values against the keys.`

// BuildInvoicePrompt returns the extraction prompt for documents the model
// reads directly.
func BuildInvoicePrompt() string {
	return extractionRules + "\n\nReturn a JSON object with exactly this shape:\n" + InvoiceTemplate()
}

// BuildTextPrompt returns the extraction prompt for a model that only sees
// the text layer. Images cannot be seen, so the QR code answer is given.
func BuildTextPrompt(text string, imageCount int) string {
	qr := domain.FlagFalse
	if imageCount >= 2 {
		qr = domain.FlagTrue
	}
	return fmt.Sprintf("%s\n\nReturn a JSON object with exactly this shape:\n%s\n\n"+
		"The PDF embeds %d images; set qr_code to %q.\n\nInvoice text:\n%s",
		extractionRules, InvoiceTemplate(), imageCount, qr, text)
}

// InvoiceTemplate is the fixed output shape with every leaf empty.
func InvoiceTemplate() string {
	inv := domain.Invoice{LineItems: []domain.LineItem{{}}}
	raw, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(raw)
}
