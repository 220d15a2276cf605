package carrier

import (
	"fmt"
	"sync"

	"github.com/linenloft/backend/internal/domain/shipping"
)

// Registry is a mutex-guarded provider-code to adapter map implementing the
// shipping.CarrierRegistry port.
type Registry struct {
	mu       sync.RWMutex
	carriers map[shipping.ProviderCode]shipping.Carrier
}

// NewRegistry creates an empty carrier registry
func NewRegistry() *Registry {
	return &Registry{
		carriers: make(map[shipping.ProviderCode]shipping.Carrier),
	}
}

// Register adds a carrier under its own provider code, replacing any
// previous registration for that code.
func (r *Registry) Register(c shipping.Carrier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carriers[c.Provider()] = c
}

// Get returns the carrier for the code. An unsupported code yields
// ErrInvalidProvider; a supported but unregistered one yields
// ErrCarrierNotRegistered.
func (r *Registry) Get(provider shipping.ProviderCode) (shipping.Carrier, error) {
	if !provider.IsValid() {
		return nil, fmt.Errorf("%w: %q", shipping.ErrInvalidProvider, provider)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carriers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shipping.ErrCarrierNotRegistered, provider)
	}
	return c, nil
}

// Names lists registered provider codes
func (r *Registry) Names() []shipping.ProviderCode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]shipping.ProviderCode, 0, len(r.carriers))
	for code := range r.carriers {
		names = append(names, code)
	}
	return names
}

// Ensure Registry implements the registry port
var _ shipping.CarrierRegistry = (*Registry)(nil)
