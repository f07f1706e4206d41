package providers

import (
	"errors"
	"fmt"

	"github.com/upb/llm-value-router/config"
)

// ProviderName identifies a supported LLM provider
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGoogle    ProviderName = "google"
)

var (
	// ErrUnknownProvider is returned when a provider name is not recognized
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrMissingAPIKey is returned when a provider has no API key configured
	ErrMissingAPIKey = errors.New("missing API key")
)

// Factory builds a provider client for one benchmark model. Registered by
// the concrete adapter packages to avoid an import cycle.
type Factory func(model string, cfg config.ProviderConfig) Provider

var factories = map[ProviderName]Factory{}

// RegisterFactory registers a provider constructor. Called from adapter
// package init functions.
func RegisterFactory(name ProviderName, factory Factory) {
	factories[name] = factory
}

// New creates a client for one (provider, model) pair. A missing API key is
// a configuration error: the caller skips the affected model and the sweep
// proceeds with the rest.
func New(name ProviderName, model string, cfg config.ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingAPIKey, name)
	}

	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	return factory(model, cfg), nil
}

// ConfigFor returns the config block for a provider name
func ConfigFor(name ProviderName, cfg *config.Config) (config.ProviderConfig, error) {
	switch name {
	case ProviderOpenAI:
		return cfg.Providers.OpenAI, nil
	case ProviderAnthropic:
		return cfg.Providers.Anthropic, nil
	case ProviderGoogle:
		return cfg.Providers.Google, nil
	default:
		return config.ProviderConfig{}, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
}
