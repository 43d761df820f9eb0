package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/farm2bag/voicecart/pkg/provider/llm"
	"github.com/farm2bag/voicecart/pkg/provider/stt"
)

// ErrProviderNotRegistered is returned when a config entry names a provider
// that no factory was registered for.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// STTFactory constructs a speech-to-text provider from its config entry.
type STTFactory func(entry ProviderEntry) (stt.Provider, error)

// LLMFactory constructs an LLM provider from its config entry.
type LLMFactory func(entry ProviderEntry) (llm.Provider, error)

// Registry maps provider names to factories. The zero value is not usable;
// use NewRegistry.
type Registry struct {
	mu  sync.RWMutex
	stt map[string]STTFactory
	llm map[string]LLMFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		stt: make(map[string]STTFactory),
		llm: make(map[string]LLMFactory),
	}
}

// RegisterSTT registers a speech-to-text provider factory under name,
// replacing any previous registration.
func (r *Registry) RegisterSTT(name string, f STTFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stt[name] = f
}

// RegisterLLM registers an LLM provider factory under name, replacing any
// previous registration.
func (r *Registry) RegisterLLM(name string, f LLMFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llm[name] = f
}

// CreateSTT builds the speech-to-text provider named by entry.
func (r *Registry) CreateSTT(entry ProviderEntry) (stt.Provider, error) {
	r.mu.RLock()
	f, ok := r.stt[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: stt/%q", ErrProviderNotRegistered, entry.Name)
	}
	return f(entry)
}

// CreateLLM builds the LLM provider named by entry.
func (r *Registry) CreateLLM(entry ProviderEntry) (llm.Provider, error) {
	r.mu.RLock()
	f, ok := r.llm[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: llm/%q", ErrProviderNotRegistered, entry.Name)
	}
	return f(entry)
}
