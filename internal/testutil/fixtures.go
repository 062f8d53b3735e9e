package testutil

import (
	"context"
	"testing"

	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/store"
)

// Catalog ids seeded by the schema. Tests reference these instead of looking
// the rows up by code.
const (
	ModelGPT4oMini    int64 = 1
	ModelGPT4o        int64 = 2
	ModelClaudeHaiku  int64 = 3
	ModelClaudeSonnet int64 = 4
	ModelGeminiFlash  int64 = 5
)

// Fixture bundles an in-memory store with the three users most tests need.
type Fixture struct {
	Store *store.Store

	// Owner creates every seeded entity unless a helper says otherwise.
	Owner core.User
	// Other is a regular user who owns nothing seeded by default.
	Other core.User
	// Admin bypasses ownership checks.
	Admin core.User
}

// NewFixture opens an in-memory store, seeds the users and registers cleanup.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	owner, err := s.CreateUser(ctx, "test", "pbkdf2-hash-test", false)
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	other, err := s.CreateUser(ctx, "other", "pbkdf2-hash-other", false)
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	admin, err := s.CreateUser(ctx, "admin", "pbkdf2-hash-admin", true)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	return &Fixture{Store: s, Owner: owner, Other: other, Admin: admin}
}

// Agent seeds an agent owned by Owner on the Claude Haiku catalog entry.
func (f *Fixture) Agent(t *testing.T) core.Agent {
	t.Helper()
	agent, err := f.Store.CreateAgent(context.Background(), f.Owner.ID,
		"Helper", "a seeded test agent", ModelClaudeHaiku,
		"helpful assistant", "Answer concisely.")
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return agent
}

// Conversation seeds a conversation owned by Owner and bound to agent.
func (f *Fixture) Conversation(t *testing.T, agent core.Agent) core.Conversation {
	t.Helper()
	conv, err := f.Store.CreateConversation(context.Background(), f.Owner.ID, "Chat", agent.ID)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	return conv
}

// Context seeds a context owned by Owner.
func (f *Fixture) Context(t *testing.T) core.Context {
	t.Helper()
	c, err := f.Store.CreateContext(context.Background(), f.Owner.ID, "Project", "a seeded test context")
	if err != nil {
		t.Fatalf("create context: %v", err)
	}
	return c
}

// List seeds a list owned by Owner.
func (f *Fixture) List(t *testing.T, name string) core.List {
	t.Helper()
	l, err := f.Store.CreateList(context.Background(), f.Owner.ID, name, "a seeded test list")
	if err != nil {
		t.Fatalf("create list %q: %v", name, err)
	}
	return l
}

// Item seeds an item on the given list.
func (f *Fixture) Item(t *testing.T, listID int64, name string) core.Item {
	t.Helper()
	item, err := f.Store.CreateItem(context.Background(), listID, name)
	if err != nil {
		t.Fatalf("create item %q: %v", name, err)
	}
	return item
}

// Detail seeds a detail column on the given list.
func (f *Fixture) Detail(t *testing.T, listID int64, name string) core.Detail {
	t.Helper()
	d, err := f.Store.CreateDetail(context.Background(), listID, name, "a seeded test detail")
	if err != nil {
		t.Fatalf("create detail %q: %v", name, err)
	}
	return d
}
