// Package chat holds the conversation model shared by all provider adapters:
// roles, turns, the ordered Conversation, and the Session that drives a
// single chat exchange against a Provider.
package chat

// Role identifies the speaker of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the wire-format name of the role.
func (r Role) String() string {
	return string(r)
}

// Turn is one message exchanged in a conversation. Turns are immutable once
// appended to a Conversation.
type Turn struct {
	Role    Role
	Content string
}

// Conversation is the ordered in-memory history of a single chat session.
// Insertion order is chronological order. A Conversation contains at most one
// system turn, and if present it is always first. Conversations are owned by
// exactly one Session and are never persisted.
type Conversation struct {
	turns []Turn
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// SetSystem installs text as the conversation's system turn, replacing any
// existing one. An empty text removes the system turn.
func (c *Conversation) SetSystem(text string) {
	if text == "" {
		if len(c.turns) > 0 && c.turns[0].Role == RoleSystem {
			c.turns = c.turns[1:]
		}
		return
	}
	if len(c.turns) > 0 && c.turns[0].Role == RoleSystem {
		c.turns[0] = Turn{Role: RoleSystem, Content: text}
		return
	}
	c.turns = append([]Turn{{Role: RoleSystem, Content: text}}, c.turns...)
}

// System returns the system turn's text, or "" if the conversation has none.
func (c *Conversation) System() string {
	if len(c.turns) > 0 && c.turns[0].Role == RoleSystem {
		return c.turns[0].Content
	}
	return ""
}

// Append adds a user or assistant turn to the end of the conversation.
// System turns go through SetSystem so the single-leading-system invariant
// holds; Append ignores them.
func (c *Conversation) Append(t Turn) {
	if t.Role == RoleSystem {
		return
	}
	c.turns = append(c.turns, t)
}

// Transcript returns a copy of the non-system turns in order. This is the
// shape provider adapters consume; the system prompt travels separately.
func (c *Conversation) Transcript() []Turn {
	out := make([]Turn, 0, len(c.turns))
	for _, t := range c.turns {
		if t.Role == RoleSystem {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Turns returns a copy of every turn, system turn included.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the total number of turns, system turn included.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Clear removes all non-system turns. A system turn is session-scoped
// configuration rather than history, so it survives and stays first.
func (c *Conversation) Clear() {
	if len(c.turns) > 0 && c.turns[0].Role == RoleSystem {
		c.turns = c.turns[:1]
		return
	}
	c.turns = nil
}
