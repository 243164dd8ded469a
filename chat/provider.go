package chat

import (
	"context"
	"fmt"
)

// Provider is the interface every AI provider adapter implements.
//
// An adapter encapsulates exactly one vendor's request shape. The Session
// hands it the non-system transcript, including the just-entered user turn,
// plus the optional system prompt; how those are folded into the vendor call
// (leading system message, dedicated system field, or text prepended to the
// latest user message) is the adapter's business.
type Provider interface {
	// Invoke sends the conversation to the vendor and returns the
	// assistant's reply text. One request, one response; no retries and no
	// streaming. The context carries cancellation and the request timeout.
	Invoke(ctx context.Context, turns []Turn, systemPrompt string) (string, error)

	// Name returns the lowercase, stable provider identifier
	// (e.g. "groq", "anthropic"). It matches the provider's configuration
	// and credential key.
	Name() string

	// Close releases any resources held by the adapter.
	Close() error
}

// ProviderError reports a failed adapter call: authentication rejected,
// network failure, unknown model, or a vendor-side error body. It wraps the
// underlying cause and names the provider that produced it.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
