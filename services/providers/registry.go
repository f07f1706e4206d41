package providers

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrModelNotRegistered is returned when no client exists for a model
	ErrModelNotRegistered = errors.New("model not registered")

	// ErrModelAlreadyRegistered is returned when registering a duplicate model
	ErrModelAlreadyRegistered = errors.New("model already registered")
)

// Registry maps benchmark model identifiers to their provider clients
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Provider
}

// NewRegistry creates an empty model registry
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Provider),
	}
}

// Register adds a client under its model identifier
func (r *Registry) Register(client Provider) error {
	if client == nil {
		return errors.New("client cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	model := client.Model()
	if model == "" {
		return errors.New("client model cannot be empty")
	}

	if _, exists := r.clients[model]; exists {
		return ErrModelAlreadyRegistered
	}

	r.clients[model] = client
	return nil
}

// Get retrieves the client for a model
func (r *Registry) Get(model string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, exists := r.clients[model]
	if !exists {
		return nil, ErrModelNotRegistered
	}

	return client, nil
}

// Models returns all registered model identifiers, sorted for deterministic
// iteration order
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.clients))
	for model := range r.clients {
		models = append(models, model)
	}
	sort.Strings(models)

	return models
}

// Len returns the number of registered models
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}

// DefaultModelAssignments maps the default benchmark model lineup to its
// providers. Models whose provider lacks an API key are skipped at wiring
// time with a warning.
func DefaultModelAssignments() map[string]ProviderName {
	return map[string]ProviderName{
		"gpt-4o":            ProviderOpenAI,
		"gpt-4o-mini":       ProviderOpenAI,
		"claude-3-5-sonnet": ProviderAnthropic,
		"claude-3-haiku":    ProviderAnthropic,
		"gemini-1.5-pro":    ProviderGoogle,
		"gemini-1.5-flash":  ProviderGoogle,
	}
}
