package store_test

import (
	"context"
	"testing"

	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/internal/testutil"
)

func TestCreateConversation_BindsAgent(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	agent := f.Agent(t)

	conv, err := f.Store.CreateConversation(ctx, f.Owner.ID, "Research chat", agent.ID)
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if conv.AgentID != agent.ID {
		t.Errorf("bound agent = %d, want %d", conv.AgentID, agent.ID)
	}

	bound, err := f.Store.GetBoundAgent(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetBoundAgent: %v", err)
	}
	if bound.ID != agent.ID {
		t.Errorf("GetBoundAgent = %d, want %d", bound.ID, agent.ID)
	}
}

func TestCreateConversation_MissingFields(t *testing.T) {
	f := testutil.NewFixture(t)

	_, err := f.Store.CreateConversation(context.Background(), f.Owner.ID, "", 0)
	if !core.IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	want := "Name and agent are required."
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestCreateConversation_UnknownAgent(t *testing.T) {
	f := testutil.NewFixture(t)

	_, err := f.Store.CreateConversation(context.Background(), f.Owner.ID, "Chat", 9999)
	if !core.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestUpdateConversation_Rebind(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	first := f.Agent(t)
	conv := f.Conversation(t, first)

	second, err := f.Store.CreateAgent(ctx, f.Owner.ID, "Planner", "", testutil.ModelGPT4o,
		"planner", "Plan ahead.")
	if err != nil {
		t.Fatalf("create second agent: %v", err)
	}

	if err := f.Store.UpdateConversation(ctx, conv.ID, "Planning chat", second.ID); err != nil {
		t.Fatalf("UpdateConversation: %v", err)
	}

	got, err := f.Store.GetConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if got.Name != "Planning chat" {
		t.Errorf("name = %q, want renamed", got.Name)
	}
	if got.AgentID != second.ID {
		t.Errorf("agent after rebind = %d, want %d", got.AgentID, second.ID)
	}
}

func TestAppendMessage_OrderAndAuthorship(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	conv := f.Conversation(t, f.Agent(t))

	if _, err := f.Store.AppendMessage(ctx, conv.ID, "Hello", true); err != nil {
		t.Fatalf("append human: %v", err)
	}
	if _, err := f.Store.AppendMessage(ctx, conv.ID, "Hi there", false); err != nil {
		t.Fatalf("append agent: %v", err)
	}
	if _, err := f.Store.AppendMessage(ctx, conv.ID, "Thanks", true); err != nil {
		t.Fatalf("append human: %v", err)
	}

	messages, err := f.Store.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	wantHuman := []bool{true, false, true}
	wantText := []string{"Hello", "Hi there", "Thanks"}
	for i, m := range messages {
		if m.Human != wantHuman[i] || m.Content != wantText[i] {
			t.Errorf("message %d = %+v, want human=%v text=%q", i, m, wantHuman[i], wantText[i])
		}
	}
}

func TestAppendMessage_Empty(t *testing.T) {
	f := testutil.NewFixture(t)
	conv := f.Conversation(t, f.Agent(t))

	_, err := f.Store.AppendMessage(context.Background(), conv.ID, "", true)
	if !core.IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	if err.Error() != "Message is required." {
		t.Errorf("message = %q, want %q", err.Error(), "Message is required.")
	}
}

func TestAppendMessage_UnknownConversation(t *testing.T) {
	f := testutil.NewFixture(t)

	_, err := f.Store.AppendMessage(context.Background(), 9999, "Hello", true)
	if !core.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestListConversations_NewestFirst(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	agent := f.Agent(t)

	a, err := f.Store.CreateConversation(ctx, f.Owner.ID, "First", agent.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := f.Store.CreateConversation(ctx, f.Owner.ID, "Second", agent.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	conversations, err := f.Store.ListConversations(ctx, f.Owner.ID)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("got %d conversations, want 2", len(conversations))
	}
	if conversations[0].ID != b.ID || conversations[1].ID != a.ID {
		t.Errorf("order = [%d %d], want newest first [%d %d]",
			conversations[0].ID, conversations[1].ID, b.ID, a.ID)
	}
}
