package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeOutput turns a model's text answer into the invoice JSON object.
// Markdown code fences around the object are tolerated.
func DecodeOutput(text string) (json.RawMessage, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var fields map[string]any
	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, Truncate(s, 500))
	}
	if fields == nil {
		return nil, fmt.Errorf("parsing LLM JSON output: not an object (raw: %s)", Truncate(s, 500))
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w", err)
	}
	return buf.Bytes(), nil
}

// Truncate shortens s to maxLen bytes for log and error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
