package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/joshkgarber/incontext/core"
)

// CreateContext inserts a context owned by creatorID.
func (s *Store) CreateContext(ctx context.Context, creatorID int64, name, description string) (core.Context, error) {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return core.Context{}, &core.ValidationError{Fields: missing}
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contexts(creator_id, created_at_unix_ms, name, description) VALUES(?, ?, ?, ?)`,
		creatorID, now.UnixMilli(), name, description,
	)
	if err != nil {
		return core.Context{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Context{}, err
	}
	return core.Context{ID: id, CreatorID: creatorID, Created: now, Name: name, Description: description}, nil
}

// GetContext returns the context with the given id.
func (s *Store) GetContext(ctx context.Context, id int64) (core.Context, error) {
	var c core.Context
	var createdMs int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, creator_id, created_at_unix_ms, name, description FROM contexts WHERE id = ?`, id).
		Scan(&c.ID, &c.CreatorID, &createdMs, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Context{}, &core.NotFoundError{Kind: core.KindContext, ID: id}
		}
		return core.Context{}, err
	}
	c.Created = time.UnixMilli(createdMs)
	return c, nil
}

// ListContexts returns the contexts created by the given user, newest first.
func (s *Store) ListContexts(ctx context.Context, creatorID int64) ([]core.Context, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, creator_id, created_at_unix_ms, name, description
		 FROM contexts WHERE creator_id = ? ORDER BY created_at_unix_ms DESC, id DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Context
	for rows.Next() {
		var c core.Context
		var createdMs int64
		if err := rows.Scan(&c.ID, &c.CreatorID, &createdMs, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		c.Created = time.UnixMilli(createdMs)
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateContext replaces the name and description of a context.
func (s *Store) UpdateContext(ctx context.Context, id int64, name, description string) error {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return &core.ValidationError{Fields: missing}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE contexts SET name = ?, description = ? WHERE id = ?`, name, description, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Kind: core.KindContext, ID: id}
	}
	return nil
}

// AttachListToContext links a list into a context. Attaching twice is a no-op.
func (s *Store) AttachListToContext(ctx context.Context, contextID, listID int64) error {
	if _, err := s.GetContext(ctx, contextID); err != nil {
		return err
	}
	if _, err := s.GetList(ctx, listID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO context_list_relations(context_id, list_id) VALUES(?, ?)`, contextID, listID)
	return err
}

// DetachListFromContext removes the link between a context and a list.
func (s *Store) DetachListFromContext(ctx context.Context, contextID, listID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM context_list_relations WHERE context_id = ? AND list_id = ?`, contextID, listID)
	return err
}

// AttachConversationToContext links a conversation into a context.
func (s *Store) AttachConversationToContext(ctx context.Context, contextID, conversationID int64) error {
	if _, err := s.GetContext(ctx, contextID); err != nil {
		return err
	}
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO context_conversation_relations(context_id, conversation_id) VALUES(?, ?)`,
		contextID, conversationID)
	return err
}

// DetachConversationFromContext removes the link between a context and a
// conversation.
func (s *Store) DetachConversationFromContext(ctx context.Context, contextID, conversationID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM context_conversation_relations WHERE context_id = ? AND conversation_id = ?`,
		contextID, conversationID)
	return err
}

// ListContextLists returns the lists linked into a context.
func (s *Store) ListContextLists(ctx context.Context, contextID int64) ([]core.List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.id, l.creator_id, l.created_at_unix_ms, l.name, l.description
		 FROM lists l JOIN context_list_relations r ON r.list_id = l.id
		 WHERE r.context_id = ? ORDER BY l.id`, contextID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLists(rows)
}

// ListContextConversations returns the conversations linked into a context.
func (s *Store) ListContextConversations(ctx context.Context, contextID int64) ([]core.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.creator_id, c.created_at_unix_ms, c.name, COALESCE(car.agent_id, 0)
		 FROM conversations c
		 JOIN context_conversation_relations r ON r.conversation_id = c.id
		 LEFT JOIN conversation_agent_relations car ON car.conversation_id = c.id
		 WHERE r.context_id = ? ORDER BY c.id`, contextID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectConversations(rows)
}
