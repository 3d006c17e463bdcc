package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxRates are GST rates in percent.
type TaxRates struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Profile describes the billing entity whose invoices are checked: the
// constants its documents must carry and the rates its taxes are computed at.
type Profile struct {
	CompanyName  string
	FormerName   string
	AddressStart string
	Email        string
	Website      string
	NoteText     string
	Rates        TaxRates
}

// Validate rejects a profile that cannot drive validation.
func (p *Profile) Validate() error {
	if p.CompanyName == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalidProfile)
	}
	rates := []struct {
		name string
		rate decimal.Decimal
	}{{"cgst", p.Rates.CGST}, {"sgst", p.Rates.SGST}, {"igst", p.Rates.IGST}}
	for _, r := range rates {
		if !r.rate.IsPositive() {
			return fmt.Errorf("%w: %s rate must be positive, got %s", ErrInvalidProfile, r.name, r.rate)
		}
	}
	return nil
}
