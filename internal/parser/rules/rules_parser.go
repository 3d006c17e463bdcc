// Package rules is the offline extraction provider: it reads the invoice
// from the PDF text layer with the regex extractor.
package rules

import (
	"context"
	"encoding/json"
	"fmt"

	"invoicecheck/internal/config"
	"invoicecheck/internal/extract"
	"invoicecheck/internal/parser"
	"invoicecheck/internal/port"
)

// ModelName is reported as ParseOutput.ModelUsed.
const ModelName = "rules"

func init() {
	parser.RegisterProvider(ModelName, func(_ *config.ExtractorProviderConfig, opts parser.Options) (port.DocumentParser, error) {
		anchors := extract.DefaultAnchors
		if opts.Profile != nil {
			anchors = extract.AnchorsFor(opts.Profile)
		}
		return NewParser(anchors), nil
	})
}

// Parser implements port.DocumentParser over extract.Extractor.
type Parser struct {
	extractor *extract.Extractor
}

// NewParser creates a rules parser locating the letter head by anchors.
func NewParser(anchors extract.Anchors) *Parser {
	return &Parser{extractor: extract.New(anchors)}
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inv := p.extractor.Extract(input.Text, input.ImageCount)
	raw, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("rules.Parse: %w", err)
	}
	return &port.ParseOutput{
		StructuredData: raw,
		ModelUsed:      ModelName,
	}, nil
}
