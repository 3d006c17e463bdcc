package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"invoicecheck/internal/config"
	"invoicecheck/internal/parser"
	"invoicecheck/internal/port"
)

const defaultModel = "gpt-4o-mini"

func init() {
	parser.RegisterProvider("openai", func(cfg *config.ExtractorProviderConfig, opts parser.Options) (port.DocumentParser, error) {
		return NewParser(cfg, opts.Logger)
	})
}

// Parser implements port.DocumentParser using the OpenAI chat completions
// API in JSON mode. The model reads the PDF's text layer, not the file.
type Parser struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewParser creates an OpenAI-based document parser. cfg.BaseURL points the
// client at a compatible endpoint.
func NewParser(cfg *config.ExtractorProviderConfig, logger *zap.Logger) (*Parser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (p *Parser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("openai: the document has no text layer")
	}
	prompt := parser.BuildTextPrompt(input.Text, input.ImageCount)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: parser.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, classifyError(err)
	}

	p.logger.Debug("openai: completion",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	data, err := parser.DecodeOutput(choice.Message.Content)
	if err != nil {
		return nil, err
	}
	return &port.ParseOutput{
		StructuredData: data,
		ModelUsed:      p.model,
		PromptUsed:     prompt,
	}, nil
}

func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return parser.NewRateLimitError("openai", err, 0)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return parser.NewRateLimitError("openai", err, 0)
	}
	return fmt.Errorf("calling openai API: %w", err)
}
