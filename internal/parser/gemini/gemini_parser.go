package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"invoicecheck/internal/config"
	"invoicecheck/internal/parser"
	"invoicecheck/internal/port"
)

const defaultModel = "gemini-1.5-flash"

func init() {
	parser.RegisterProvider("gemini", func(cfg *config.ExtractorProviderConfig, opts parser.Options) (port.DocumentParser, error) {
		return NewParser(context.Background(), cfg, opts.Logger)
	})
}

// Generator is the part of *genai.GenerativeModel the parser calls.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Parser implements port.DocumentParser using the Gemini API. The PDF is
// sent inline and the answer is constrained by a response schema.
type Parser struct {
	client  *genai.Client
	model   Generator
	name    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewParser creates a Gemini-based document parser.
func NewParser(ctx context.Context, cfg *config.ExtractorProviderConfig, logger *zap.Logger) (*Parser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	name := cfg.DefaultModel
	if name == "" {
		name = defaultModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(0.1)
	model.SetMaxOutputTokens(8192)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = invoiceSchema()
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(parser.SystemInstruction)}}

	p := NewParserWithModel(model, name, time.Duration(cfg.TimeoutSecs)*time.Second, logger)
	p.client = client
	return p, nil
}

// NewParserWithModel creates a parser around an existing generator (for testing).
func NewParserWithModel(model Generator, name string, timeout time.Duration, logger *zap.Logger) *Parser {
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{model: model, name: name, timeout: timeout, logger: logger}
}

// Close releases the underlying client.
func (p *Parser) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	mimeType, err := toGeminiMimeType(input.ContentType)
	if err != nil {
		return nil, err
	}
	prompt := parser.BuildInvoicePrompt()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: input.FileBytes},
		genai.Text(prompt),
	)
	if err != nil {
		return nil, classifyError(err)
	}
	if resp.UsageMetadata != nil {
		p.logger.Debug("gemini: generated",
			zap.String("model", p.name),
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("output_tokens", resp.UsageMetadata.CandidatesTokenCount),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return parseResponse(resp, p.name, prompt)
}

func toGeminiMimeType(contentType string) (string, error) {
	switch contentType {
	case "application/pdf", "image/jpeg", "image/png":
		return contentType, nil
	default:
		return "", fmt.Errorf("unsupported content type for parsing: %s", contentType)
	}
}

func classifyError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		retryAfter := 0
		if apiErr.Header != nil {
			retryAfter = parser.ParseRetryAfterHeader(apiErr.Header.Get("Retry-After"))
		}
		return parser.NewRateLimitError("gemini", err, retryAfter)
	}
	return fmt.Errorf("calling gemini API: %w", err)
}

func parseResponse(resp *genai.GenerateContentResponse, model, prompt string) (*port.ParseOutput, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil {
			return nil, fmt.Errorf("gemini: prompt blocked: %v", resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("empty response from API: no candidates")
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonMaxTokens {
		return nil, fmt.Errorf("output truncated (finish reason: max tokens): response exceeded output token limit")
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from API: no parts")
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	data, err := parser.DecodeOutput(sb.String())
	if err != nil {
		return nil, err
	}
	return &port.ParseOutput{
		StructuredData: data,
		ModelUsed:      model,
		PromptUsed:     prompt,
	}, nil
}
