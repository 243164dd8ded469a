package chat

import "context"

// Session drives one chat conversation against a single provider adapter.
// It owns the Conversation for the lifetime of a run: Send appends the user's
// turn and the assistant's reply, Clear resets the history.
//
// Sessions are for sequential, single-threaded use. Operations are one in
// flight at a time; issuing a second Send while one is pending is undefined.
type Session struct {
	provider Provider
	conv     *Conversation
}

// NewSession creates a session bound to the given provider. A non-empty
// systemPrompt becomes the conversation's system turn and persists across
// Clear.
func NewSession(p Provider, systemPrompt string) *Session {
	conv := NewConversation()
	if systemPrompt != "" {
		conv.SetSystem(systemPrompt)
	}
	return &Session{provider: p, conv: conv}
}

// Send forwards userText to the provider along with the conversation so far
// and returns the assistant's reply. On success exactly one user turn and one
// assistant turn are appended, in that order. On failure the conversation is
// left unchanged and the error is a *ProviderError wrapping the cause.
func (s *Session) Send(ctx context.Context, userText string) (string, error) {
	turns := append(s.conv.Transcript(), Turn{Role: RoleUser, Content: userText})

	reply, err := s.provider.Invoke(ctx, turns, s.conv.System())
	if err != nil {
		return "", &ProviderError{Provider: s.provider.Name(), Err: err}
	}

	s.conv.Append(Turn{Role: RoleUser, Content: userText})
	s.conv.Append(Turn{Role: RoleAssistant, Content: reply})
	return reply, nil
}

// Clear empties the conversation history. A system turn is retained.
func (s *Session) Clear() {
	s.conv.Clear()
}

// History returns a copy of the conversation's turns, system turn included.
func (s *Session) History() []Turn {
	return s.conv.Turns()
}

// Len returns the number of turns in the conversation.
func (s *Session) Len() int {
	return s.conv.Len()
}

// Provider returns the adapter this session talks to.
func (s *Session) Provider() Provider {
	return s.provider
}

// Close releases the underlying provider's resources.
func (s *Session) Close() error {
	return s.provider.Close()
}
