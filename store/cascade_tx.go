package store

import (
	"context"

	"github.com/joshkgarber/incontext/core"
)

// Transaction-scoped primitives used by the cascade engine. Orphan counts
// must be taken after the root's own relation rows are gone, so every step
// runs against the same Tx.

// ListItemIDs returns the ids of the items placed in a list.
func (tx *Tx) ListItemIDs(ctx context.Context, listID int64) ([]int64, error) {
	return tx.int64s(ctx, `SELECT item_id FROM list_item_relations WHERE list_id = ? ORDER BY item_id`, listID)
}

// ListDetailIDs returns the ids of the details applied to a list.
func (tx *Tx) ListDetailIDs(ctx context.Context, listID int64) ([]int64, error) {
	return tx.int64s(ctx, `SELECT detail_id FROM list_detail_relations WHERE list_id = ? ORDER BY detail_id`, listID)
}

// ConversationIDsByAgent returns the ids of the conversations bound to an
// agent.
func (tx *Tx) ConversationIDsByAgent(ctx context.Context, agentID int64) ([]int64, error) {
	return tx.int64s(ctx,
		`SELECT conversation_id FROM conversation_agent_relations WHERE agent_id = ? ORDER BY conversation_id`, agentID)
}

// CountListsReferencingItem reports how many lists still contain the item.
func (tx *Tx) CountListsReferencingItem(ctx context.Context, itemID int64) (int, error) {
	return tx.count(ctx, `SELECT COUNT(1) FROM list_item_relations WHERE item_id = ?`, itemID)
}

// CountListsReferencingDetail reports how many lists still apply the detail.
func (tx *Tx) CountListsReferencingDetail(ctx context.Context, detailID int64) (int, error) {
	return tx.count(ctx, `SELECT COUNT(1) FROM list_detail_relations WHERE detail_id = ?`, detailID)
}

// DeleteListItemRelationsByList removes a list's item placements.
func (tx *Tx) DeleteListItemRelationsByList(ctx context.Context, listID int64) error {
	return tx.exec(ctx, `DELETE FROM list_item_relations WHERE list_id = ?`, listID)
}

// DeleteListItemRelationsByItem removes an item from every list.
func (tx *Tx) DeleteListItemRelationsByItem(ctx context.Context, itemID int64) error {
	return tx.exec(ctx, `DELETE FROM list_item_relations WHERE item_id = ?`, itemID)
}

// DeleteListDetailRelationsByList removes a list's detail applications.
func (tx *Tx) DeleteListDetailRelationsByList(ctx context.Context, listID int64) error {
	return tx.exec(ctx, `DELETE FROM list_detail_relations WHERE list_id = ?`, listID)
}

// DeleteListDetailRelationsByDetail removes a detail from every list.
func (tx *Tx) DeleteListDetailRelationsByDetail(ctx context.Context, detailID int64) error {
	return tx.exec(ctx, `DELETE FROM list_detail_relations WHERE detail_id = ?`, detailID)
}

// DeleteItemDetailRelationsByItem removes every content cell of an item.
func (tx *Tx) DeleteItemDetailRelationsByItem(ctx context.Context, itemID int64) error {
	return tx.exec(ctx, `DELETE FROM item_detail_relations WHERE item_id = ?`, itemID)
}

// DeleteItemDetailRelationsByDetail removes every content cell of a detail.
func (tx *Tx) DeleteItemDetailRelationsByDetail(ctx context.Context, detailID int64) error {
	return tx.exec(ctx, `DELETE FROM item_detail_relations WHERE detail_id = ?`, detailID)
}

// DeleteContextListRelationsByContext detaches all lists from a context.
func (tx *Tx) DeleteContextListRelationsByContext(ctx context.Context, contextID int64) error {
	return tx.exec(ctx, `DELETE FROM context_list_relations WHERE context_id = ?`, contextID)
}

// DeleteContextListRelationsByList detaches a list from every context.
func (tx *Tx) DeleteContextListRelationsByList(ctx context.Context, listID int64) error {
	return tx.exec(ctx, `DELETE FROM context_list_relations WHERE list_id = ?`, listID)
}

// DeleteContextConversationRelationsByContext detaches all conversations
// from a context.
func (tx *Tx) DeleteContextConversationRelationsByContext(ctx context.Context, contextID int64) error {
	return tx.exec(ctx, `DELETE FROM context_conversation_relations WHERE context_id = ?`, contextID)
}

// DeleteContextConversationRelationsByConversation detaches a conversation
// from every context.
func (tx *Tx) DeleteContextConversationRelationsByConversation(ctx context.Context, conversationID int64) error {
	return tx.exec(ctx, `DELETE FROM context_conversation_relations WHERE conversation_id = ?`, conversationID)
}

// DeleteConversationAgentRelation removes a conversation's agent binding.
func (tx *Tx) DeleteConversationAgentRelation(ctx context.Context, conversationID int64) error {
	return tx.exec(ctx, `DELETE FROM conversation_agent_relations WHERE conversation_id = ?`, conversationID)
}

// DeleteMessagesByConversation removes a conversation's full message log.
func (tx *Tx) DeleteMessagesByConversation(ctx context.Context, conversationID int64) error {
	return tx.exec(ctx, `DELETE FROM messages WHERE conversation_id = ?`, conversationID)
}

// DeleteListRow removes the list row itself.
func (tx *Tx) DeleteListRow(ctx context.Context, id int64) error {
	return tx.deleteRow(ctx, `DELETE FROM lists WHERE id = ?`, core.KindList, id)
}

// DeleteItemRow removes the item row itself.
func (tx *Tx) DeleteItemRow(ctx context.Context, id int64) error {
	return tx.deleteRow(ctx, `DELETE FROM items WHERE id = ?`, core.KindItem, id)
}

// DeleteDetailRow removes the detail row itself.
func (tx *Tx) DeleteDetailRow(ctx context.Context, id int64) error {
	return tx.deleteRow(ctx, `DELETE FROM details WHERE id = ?`, core.KindDetail, id)
}

// DeleteContextRow removes the context row itself.
func (tx *Tx) DeleteContextRow(ctx context.Context, id int64) error {
	return tx.deleteRow(ctx, `DELETE FROM contexts WHERE id = ?`, core.KindContext, id)
}

// DeleteConversationRow removes the conversation row itself.
func (tx *Tx) DeleteConversationRow(ctx context.Context, id int64) error {
	return tx.deleteRow(ctx, `DELETE FROM conversations WHERE id = ?`, core.KindConversation, id)
}

// DeleteAgentRow removes the agent row itself.
func (tx *Tx) DeleteAgentRow(ctx context.Context, id int64) error {
	return tx.deleteRow(ctx, `DELETE FROM agents WHERE id = ?`, core.KindAgent, id)
}

func (tx *Tx) exec(ctx context.Context, query string, args ...any) error {
	_, err := tx.tx.ExecContext(ctx, query, args...)
	return err
}

func (tx *Tx) deleteRow(ctx context.Context, query string, kind core.Kind, id int64) error {
	res, err := tx.tx.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

func (tx *Tx) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := tx.tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (tx *Tx) int64s(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := tx.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
