package cascade_test

import (
	"context"
	"testing"

	"github.com/joshkgarber/incontext/access"
	"github.com/joshkgarber/incontext/cascade"
	"github.com/joshkgarber/incontext/core"
	"github.com/joshkgarber/incontext/internal/testutil"
)

func newEngine(f *testutil.Fixture) *cascade.Engine {
	return cascade.New(f.Store, access.New(f.Store))
}

func TestDeleteList_RemovesExclusiveItemsAndDetails(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	e := newEngine(f)

	list := f.List(t, "Groceries")
	item := f.Item(t, list.ID, "Milk")
	detail := f.Detail(t, list.ID, "Quantity")

	if err := e.DeleteList(ctx, f.Owner, list.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}

	if _, err := f.Store.GetList(ctx, list.ID); !core.IsNotFound(err) {
		t.Errorf("list survived deletion: %v", err)
	}
	if _, err := f.Store.GetItem(ctx, item.ID); !core.IsNotFound(err) {
		t.Errorf("exclusive item survived deletion: %v", err)
	}
	if _, err := f.Store.GetDetail(ctx, detail.ID); !core.IsNotFound(err) {
		t.Errorf("exclusive detail survived deletion: %v", err)
	}
	cells, err := f.Store.ListItemCells(ctx, item.ID)
	if err != nil {
		t.Fatalf("ListItemCells: %v", err)
	}
	if len(cells) != 0 {
		t.Errorf("content cells survived deletion: %+v", cells)
	}
}

func TestDeleteList_SharedItemsAndDetailsSurvive(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	e := newEngine(f)

	listA := f.List(t, "A")
	listB := f.List(t, "B")
	shared := f.Item(t, listA.ID, "Milk")
	exclusive := f.Item(t, listA.ID, "Eggs")
	sharedDetail := f.Detail(t, listA.ID, "Quantity")

	if err := f.Store.AttachItemToList(ctx, listB.ID, shared.ID); err != nil {
		t.Fatalf("attach item: %v", err)
	}
	if err := f.Store.AttachDetailToList(ctx, listB.ID, sharedDetail.ID); err != nil {
		t.Fatalf("attach detail: %v", err)
	}

	if err := e.DeleteList(ctx, f.Owner, listA.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}

	if _, err := f.Store.GetItem(ctx, shared.ID); err != nil {
		t.Errorf("shared item should survive: %v", err)
	}
	if _, err := f.Store.GetDetail(ctx, sharedDetail.ID); err != nil {
		t.Errorf("shared detail should survive: %v", err)
	}
	if _, err := f.Store.GetItem(ctx, exclusive.ID); !core.IsNotFound(err) {
		t.Errorf("exclusive item should be gone: %v", err)
	}

	// List B and its membership are untouched.
	items, err := f.Store.ListListItems(ctx, listB.ID)
	if err != nil {
		t.Fatalf("ListListItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != shared.ID {
		t.Errorf("list B items = %+v, want just the shared item", items)
	}
}

func TestDeleteConversation_RemovesMessagesAndBinding(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	e := newEngine(f)

	agent := f.Agent(t)
	conv := f.Conversation(t, agent)
	other := f.Conversation(t, agent)
	c := f.Context(t)
	if err := f.Store.AttachConversationToContext(ctx, c.ID, conv.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := f.Store.AppendMessage(ctx, conv.ID, "Hello", true); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := e.DeleteConversation(ctx, f.Owner, conv.ID); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}

	if _, err := f.Store.GetConversation(ctx, conv.ID); !core.IsNotFound(err) {
		t.Errorf("conversation survived: %v", err)
	}
	messages, err := f.Store.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("messages survived: %+v", messages)
	}
	members, err := f.Store.ListContextConversations(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListContextConversations: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("context membership survived: %+v", members)
	}

	// The agent and the sibling conversation are untouched.
	if _, err := f.Store.GetAgent(ctx, agent.ID); err != nil {
		t.Errorf("agent should survive: %v", err)
	}
	if _, err := f.Store.GetConversation(ctx, other.ID); err != nil {
		t.Errorf("sibling conversation should survive: %v", err)
	}
}

func TestDeleteContext_DetachesOnly(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	e := newEngine(f)

	c := f.Context(t)
	list := f.List(t, "Groceries")
	conv := f.Conversation(t, f.Agent(t))
	if err := f.Store.AttachListToContext(ctx, c.ID, list.ID); err != nil {
		t.Fatalf("attach list: %v", err)
	}
	if err := f.Store.AttachConversationToContext(ctx, c.ID, conv.ID); err != nil {
		t.Fatalf("attach conversation: %v", err)
	}

	if err := e.DeleteContext(ctx, f.Owner, c.ID); err != nil {
		t.Fatalf("DeleteContext: %v", err)
	}

	if _, err := f.Store.GetContext(ctx, c.ID); !core.IsNotFound(err) {
		t.Errorf("context survived: %v", err)
	}
	if _, err := f.Store.GetList(ctx, list.ID); err != nil {
		t.Errorf("list must survive context deletion: %v", err)
	}
	if _, err := f.Store.GetConversation(ctx, conv.ID); err != nil {
		t.Errorf("conversation must survive context deletion: %v", err)
	}
}

func TestDeleteItem_RemovesCellsEverywhere(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	e := newEngine(f)

	listA := f.List(t, "A")
	listB := f.List(t, "B")
	item := f.Item(t, listA.ID, "Milk")
	f.Detail(t, listA.ID, "Quantity")
	if err := f.Store.AttachItemToList(ctx, listB.ID, item.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	if err := e.DeleteItem(ctx, f.Owner, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	if _, err := f.Store.GetItem(ctx, item.ID); !core.IsNotFound(err) {
		t.Errorf("item survived: %v", err)
	}
	for _, listID := range []int64{listA.ID, listB.ID} {
		items, err := f.Store.ListListItems(ctx, listID)
		if err != nil {
			t.Fatalf("ListListItems(%d): %v", listID, err)
		}
		if len(items) != 0 {
			t.Errorf("list %d still references the deleted item", listID)
		}
	}
}

func TestDeleteDetail_RemovesColumnEverywhere(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	e := newEngine(f)

	list := f.List(t, "Groceries")
	item := f.Item(t, list.ID, "Milk")
	detail := f.Detail(t, list.ID, "Quantity")

	if err := e.DeleteDetail(ctx, f.Owner, detail.ID); err != nil {
		t.Fatalf("DeleteDetail: %v", err)
	}

	if _, err := f.Store.GetDetail(ctx, detail.ID); !core.IsNotFound(err) {
		t.Errorf("detail survived: %v", err)
	}
	cells, err := f.Store.ListItemCells(ctx, item.ID)
	if err != nil {
		t.Fatalf("ListItemCells: %v", err)
	}
	if len(cells) != 0 {
		t.Errorf("cells survived detail deletion: %+v", cells)
	}
	if _, err := f.Store.GetItem(ctx, item.ID); err != nil {
		t.Errorf("item must survive detail deletion: %v", err)
	}
}

func TestDeleteAgent_CascadesIntoBoundConversations(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	e := newEngine(f)

	agent := f.Agent(t)
	conv := f.Conversation(t, agent)
	if _, err := f.Store.AppendMessage(ctx, conv.ID, "Hello", true); err != nil {
		t.Fatalf("append: %v", err)
	}

	unrelated, err := f.Store.CreateAgent(ctx, f.Owner.ID, "Other", "", testutil.ModelGPT4oMini,
		"assistant", "Be brief.")
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	unrelatedConv := f.Conversation(t, unrelated)

	if err := e.DeleteAgent(ctx, f.Owner, agent.ID); err != nil {
		t.Fatalf("DeleteAgent: %v", err)
	}

	if _, err := f.Store.GetAgent(ctx, agent.ID); !core.IsNotFound(err) {
		t.Errorf("agent survived: %v", err)
	}
	if _, err := f.Store.GetConversation(ctx, conv.ID); !core.IsNotFound(err) {
		t.Errorf("bound conversation survived: %v", err)
	}
	if _, err := f.Store.GetConversation(ctx, unrelatedConv.ID); err != nil {
		t.Errorf("conversation of another agent should survive: %v", err)
	}
}

func TestDelete_AuthorizationGates(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	e := newEngine(f)
	list := f.List(t, "Groceries")

	if err := e.DeleteList(ctx, f.Other, list.ID); !core.IsForbidden(err) {
		t.Fatalf("stranger delete: got %v, want forbidden", err)
	}
	if _, err := f.Store.GetList(ctx, list.ID); err != nil {
		t.Fatalf("denied deletion must not mutate: %v", err)
	}

	if err := e.DeleteList(ctx, f.Owner, 9999); !core.IsNotFound(err) {
		t.Fatalf("missing list: got %v, want not found", err)
	}

	// Admins can delete what they do not own.
	if err := e.DeleteList(ctx, f.Admin, list.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
