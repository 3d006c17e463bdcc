package port

import (
	"context"
	"encoding/json"
)

// ParseInput carries one invoice PDF and what was read from its text layer.
type ParseInput struct {
	FileBytes   []byte
	ContentType string
	// Text is the first page's text layer.
	Text       string
	ImageCount int
}

// ParseOutput is the extracted invoice in its generic JSON form.
type ParseOutput struct {
	StructuredData json.RawMessage
	ModelUsed      string
	PromptUsed     string
}

// DocumentParser extracts the fixed invoice shape from a document.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
