package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicecheck/internal/config"
	"invoicecheck/internal/parser"
	"invoicecheck/internal/port"
)

// stubParser is a minimal DocumentParser for testing the factory.
type stubParser struct {
	model string
}

func (s *stubParser) Parse(_ context.Context, _ port.ParseInput) (*port.ParseOutput, error) {
	return &port.ParseOutput{ModelUsed: s.model}, nil
}

func registerStub(name string) {
	parser.RegisterProvider(name, func(cfg *config.ExtractorProviderConfig, _ parser.Options) (port.DocumentParser, error) {
		return &stubParser{model: cfg.DefaultModel}, nil
	})
}

func TestFactory_RegisterAndCreate(t *testing.T) {
	registerStub("test-provider")

	p, err := parser.NewParser(&config.ExtractorProviderConfig{
		Provider:     "test-provider",
		DefaultModel: "test-model",
	}, parser.Options{})

	require.NoError(t, err)
	out, err := p.Parse(context.Background(), port.ParseInput{})
	require.NoError(t, err)
	assert.Equal(t, "test-model", out.ModelUsed)
	assert.Contains(t, parser.Providers(), "test-provider")
}

func TestFactory_UnknownProvider(t *testing.T) {
	p, err := parser.NewParser(&config.ExtractorProviderConfig{
		Provider: "nonexistent-provider-xyz",
	}, parser.Options{})

	assert.Nil(t, p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parser provider")
}

func TestNewChain(t *testing.T) {
	registerStub("stub-a")
	registerStub("stub-b")

	t.Run("single_provider_unwrapped", func(t *testing.T) {
		p, err := parser.NewChain(&config.ExtractorConfig{
			Primary: config.ExtractorProviderConfig{Provider: "stub-a", DefaultModel: "a"},
		}, parser.Options{})
		require.NoError(t, err)
		_, isFallback := p.(*parser.FallbackParser)
		assert.False(t, isFallback)
	})

	t.Run("multiple_providers_wrapped", func(t *testing.T) {
		p, err := parser.NewChain(&config.ExtractorConfig{
			Primary:   config.ExtractorProviderConfig{Provider: "stub-a", DefaultModel: "a"},
			Secondary: config.ExtractorProviderConfig{Provider: "stub-b", DefaultModel: "b"},
		}, parser.Options{})
		require.NoError(t, err)
		require.IsType(t, &parser.FallbackParser{}, p)

		out, err := p.Parse(context.Background(), port.ParseInput{})
		require.NoError(t, err)
		assert.Equal(t, "a", out.ModelUsed)
	})

	t.Run("unknown_provider_in_chain", func(t *testing.T) {
		_, err := parser.NewChain(&config.ExtractorConfig{
			Primary:   config.ExtractorProviderConfig{Provider: "stub-a"},
			Secondary: config.ExtractorProviderConfig{Provider: "missing-xyz"},
		}, parser.Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parser.NewChain")
	})
}
