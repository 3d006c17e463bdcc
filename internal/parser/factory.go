package parser

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"invoicecheck/internal/config"
	"invoicecheck/internal/domain"
	"invoicecheck/internal/port"
)

// Options carries what providers need beyond their own config.
type Options struct {
	Profile *domain.Profile
	Logger  *zap.Logger
}

// ProviderFactory is a function that creates a DocumentParser from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig, opts Options) (port.DocumentParser, error)

// registry of parser provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a parser provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// Providers lists the registered provider names.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewParser creates a DocumentParser from a provider config using the registered factory.
func NewParser(cfg *config.ExtractorProviderConfig, opts Options) (port.DocumentParser, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg, opts)
}

// NewChain builds the configured provider chain. A single provider is
// returned as is; more are wrapped in a FallbackParser.
func NewChain(cfg *config.ExtractorConfig, opts Options) (port.DocumentParser, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	chain := cfg.Chain()
	parsers := make([]port.DocumentParser, 0, len(chain))
	names := make([]string, 0, len(chain))
	for _, pc := range chain {
		p, err := NewParser(pc, opts)
		if err != nil {
			return nil, fmt.Errorf("parser.NewChain: %w", err)
		}
		parsers = append(parsers, p)
		names = append(names, pc.Provider)
	}
	if len(parsers) == 1 {
		return parsers[0], nil
	}
	return NewFallbackParser(parsers, names, opts.Logger), nil
}
