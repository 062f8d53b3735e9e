package transcript

import (
	"context"

	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/store"
)

// Builder turns a conversation id into a core.Transcript. Authorization is
// the caller's responsibility; the builder only reads.
type Builder struct {
	store *store.Store
}

// New constructs a Builder over the given store.
func New(s *store.Store) *Builder {
	return &Builder{store: s}
}

// Build returns the transcript for a conversation: every message in
// insertion order plus the bound agent's configuration. A conversation
// without an agent binding yields *core.IntegrityError; that is a data bug,
// not an empty conversation.
func (b *Builder) Build(ctx context.Context, conversationID int64) (core.Transcript, error) {
	if _, err := b.store.GetConversation(ctx, conversationID); err != nil {
		return core.Transcript{}, err
	}

	agent, err := b.store.GetBoundAgent(ctx, conversationID)
	if err != nil {
		return core.Transcript{}, err
	}

	messages, err := b.store.ListMessages(ctx, conversationID)
	if err != nil {
		return core.Transcript{}, err
	}

	turns := make([]core.Turn, len(messages))
	for i, m := range messages {
		turns[i] = core.Turn{Human: m.Human, Text: m.Content}
	}

	return core.Transcript{
		ConversationID: conversationID,
		Agent: core.AgentProfile{
			Name:         agent.Name,
			Vendor:       agent.Provider,
			Model:        agent.ModelCode,
			Role:         agent.Role,
			Instructions: agent.Instructions,
		},
		Turns: turns,
	}, nil
}
