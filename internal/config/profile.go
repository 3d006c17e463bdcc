package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"invoicecheck/internal/domain"
)

const defaultNoteText = `1. Please check the calculation/attendance/amount of the bill and inform us within 48 hours in case of any discrepancy, to avoid last minute rush. Any changes reported after 48 hours will be adjusted along with the next month's bill.
2. As per the IT rule u/s 194JB, if our Invoices value in a year is more than Rs. 50,000/-, then you may deduct TDS @ 0.50% Excluding GST
For any kind of GST related query, please contact at : gstsupport@geniushrtech.com
`

// profileFile is the on-disk form of a billing profile. Rates are decimal
// strings so that values like "2.5" survive unchanged.
type profileFile struct {
	CompanyName  string `yaml:"company_name"`
	FormerName   string `yaml:"former_name"`
	AddressStart string `yaml:"address_start"`
	Email        string `yaml:"email"`
	Website      string `yaml:"website"`
	NoteText     string `yaml:"note_text"`
	Rates        struct {
		CGST string `yaml:"cgst"`
		SGST string `yaml:"sgst"`
		IGST string `yaml:"igst"`
	} `yaml:"rates"`
}

// DefaultProfile returns the built-in billing profile.
func DefaultProfile() *domain.Profile {
	return &domain.Profile{
		CompanyName:  "Genius HRTech Limited",
		FormerName:   "(Formerly known as Genius Consultants Limited)",
		AddressStart: "Synthesis Business Park",
		Email:        "enquiry@geniushrtech.com",
		Website:      "www.geniushrtech.com",
		NoteText:     defaultNoteText,
		Rates: domain.TaxRates{
			CGST: decimal.NewFromInt(9),
			SGST: decimal.NewFromInt(9),
			IGST: decimal.NewFromInt(18),
		},
	}
}

// LoadProfile reads a YAML billing profile. An empty path returns
// DefaultProfile. Keys left out of the file keep their default values.
func LoadProfile(path string) (*domain.Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.LoadProfile: %w", err)
	}
	return ParseProfile(raw)
}

// ParseProfile decodes a YAML billing profile over the defaults.
func ParseProfile(raw []byte) (*domain.Profile, error) {
	var f profileFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("config.ParseProfile: %w", err)
	}

	p := DefaultProfile()
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&p.CompanyName, f.CompanyName)
	override(&p.FormerName, f.FormerName)
	override(&p.AddressStart, f.AddressStart)
	override(&p.Email, f.Email)
	override(&p.Website, f.Website)
	override(&p.NoteText, f.NoteText)

	rates := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"cgst", f.Rates.CGST, &p.Rates.CGST},
		{"sgst", f.Rates.SGST, &p.Rates.SGST},
		{"igst", f.Rates.IGST, &p.Rates.IGST},
	}
	for _, r := range rates {
		if r.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(r.raw)
		if err != nil {
			return nil, fmt.Errorf("config.ParseProfile: %s rate %q: %w", r.name, r.raw, err)
		}
		*r.dst = d
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("config.ParseProfile: %w", err)
	}
	return p, nil
}
