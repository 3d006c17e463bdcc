package gemini

import "github.com/google/generative-ai-go/genai"

func stringObject(keys ...string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(keys))
	for _, k := range keys {
		props[k] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: keys}
}

// invoiceSchema mirrors domain.Invoice. Every leaf is a string.
func invoiceSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	top := map[string]*genai.Schema{
		"letter_head": stringObject("company_name", "former_company_name", "address", "cin",
			"gstin", "phone", "email", "website"),
		"tax_invoice": stringObject("pan_no", "tan_no"),
		"bill_to_details": stringObject("company_name", "address", "gstin", "pan_no", "tan_no",
			"place_of_supply", "irn_no"),
		"invoice_details": stringObject("date", "invoice_no", "service_month", "lower_tds_cert_no"),
		"resource_and_bill_details": {
			Type: genai.TypeArray,
			Items: stringObject("sl_no", "resource_name", "hsn_sac", "po_no", "bill_rate",
				"ericsson_invoice_code", "taxable_value", "cgst", "sgst", "igst", "total_inr"),
		},
		"total_invoice_value": stringObject("taxable_value", "cgst", "sgst", "igst", "total_inr", "in_words"),
		"arn_for_lut":         str,
		"supply":              str,
		"igst_foregone":       str,
		"note":                stringObject("1", "2", "post_script"),
		"beneficiary_details": stringObject("beneficiary_name", "bank_name", "address", "reverse_charge",
			"account_no", "ifsc_code", "micr_code", "country", "authorised_signatory"),
		"qr_code":           str,
		"digital_signature": str,
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: top,
		Required: []string{
			"letter_head", "tax_invoice", "bill_to_details", "invoice_details",
			"resource_and_bill_details", "total_invoice_value", "arn_for_lut", "supply",
			"igst_foregone", "note", "beneficiary_details", "qr_code", "digital_signature",
		},
	}
}
