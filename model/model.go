package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/joshkgarber/incontext/core"
)

// Info contains metadata about an adapter implementation.
type Info struct {
	Vendor string
}

// Adapter turns a vendor-neutral transcript into a provider call and the
// provider's reply back into plain text. Implementations are stateless
// between calls: vendors with persistent-session APIs must reconstruct the
// session from the transcript on every call.
type Adapter interface {
	// Send issues exactly one provider request for the transcript and
	// returns the agent's reply text. Transport and provider-side errors
	// come back as *core.VendorError; adapters never retry.
	Send(ctx context.Context, t core.Transcript) (string, error)

	// Info returns information about the adapter implementation.
	Info() Info
}

// Registry maps vendor codes to adapters. The agent's stored vendor tag
// selects the variant at dispatch time.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its vendor code, replacing any previous
// registration.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Info().Vendor] = a
}

// Resolve returns the adapter for a vendor code. An unknown vendor on a
// stored agent is an integrity violation, not a user error.
func (r *Registry) Resolve(vendor string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[vendor]
	if !ok {
		return nil, &core.IntegrityError{Msg: fmt.Sprintf("no adapter registered for vendor %q", vendor)}
	}
	return a, nil
}

// Vendors returns the registered vendor codes.
func (r *Registry) Vendors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.adapters))
	for v := range r.adapters {
		out = append(out, v)
	}
	return out
}

// MockAdapter is a lightweight in-memory Adapter useful for tests. It maps
// the final turn's text to canned replies and records every transcript it
// receives.
type MockAdapter struct {
	mu        sync.Mutex
	vendor    string
	responses map[string]string
	err       error

	// Sent records the transcripts passed to Send, in order.
	Sent []core.Transcript
}

// NewMockAdapter constructs a MockAdapter answering for the given vendor code.
func NewMockAdapter(vendor string) *MockAdapter {
	return &MockAdapter{vendor: vendor, responses: make(map[string]string)}
}

// AddResponse registers a deterministic canned reply for a final-turn text.
func (m *MockAdapter) AddResponse(prompt, response string) { m.responses[prompt] = response }

// FailWith makes every subsequent Send return the given error.
func (m *MockAdapter) FailWith(err error) { m.err = err }

// Send implements Adapter.
func (m *MockAdapter) Send(_ context.Context, t core.Transcript) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, t)
	if m.err != nil {
		return "", &core.VendorError{Vendor: m.vendor, Err: m.err}
	}
	last, ok := t.LastTurn()
	if !ok {
		return "", &core.VendorError{Vendor: m.vendor, Err: fmt.Errorf("empty transcript")}
	}
	if reply, ok := m.responses[last.Text]; ok {
		return reply, nil
	}
	return fmt.Sprintf("Mock response to: %s", last.Text), nil
}

// Info implements Adapter.
func (m *MockAdapter) Info() Info { return Info{Vendor: m.vendor} }
