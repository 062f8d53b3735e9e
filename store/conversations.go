package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/joshkgarber/incontext/core"
)

// CreateConversation inserts a conversation owned by creatorID and binds it
// to the given agent in the same transaction, so no reader ever sees an
// unbound conversation.
func (s *Store) CreateConversation(ctx context.Context, creatorID int64, name string, agentID int64) (core.Conversation, error) {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if agentID == 0 {
		missing = append(missing, "agent")
	}
	if len(missing) > 0 {
		return core.Conversation{}, &core.ValidationError{Fields: missing}
	}
	if _, err := s.GetAgent(ctx, agentID); err != nil {
		return core.Conversation{}, err
	}

	now := time.Now()
	var id int64
	err := s.WithTx(ctx, func(tx *Tx) error {
		res, err := tx.tx.ExecContext(ctx,
			`INSERT INTO conversations(creator_id, created_at_unix_ms, name) VALUES(?, ?, ?)`,
			creatorID, now.UnixMilli(), name)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		_, err = tx.tx.ExecContext(ctx,
			`INSERT INTO conversation_agent_relations(conversation_id, agent_id) VALUES(?, ?)`, id, agentID)
		return err
	})
	if err != nil {
		return core.Conversation{}, err
	}
	return core.Conversation{ID: id, CreatorID: creatorID, Created: now, Name: name, AgentID: agentID}, nil
}

// GetConversation returns the conversation with the given id. A broken agent
// binding leaves AgentID zero rather than hiding the row; the transcript
// builder reports that as an integrity violation.
func (s *Store) GetConversation(ctx context.Context, id int64) (core.Conversation, error) {
	var c core.Conversation
	var createdMs int64
	err := s.db.QueryRowContext(ctx,
		`SELECT c.id, c.creator_id, c.created_at_unix_ms, c.name, COALESCE(r.agent_id, 0)
		 FROM conversations c
		 LEFT JOIN conversation_agent_relations r ON r.conversation_id = c.id
		 WHERE c.id = ?`, id).
		Scan(&c.ID, &c.CreatorID, &createdMs, &c.Name, &c.AgentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Conversation{}, &core.NotFoundError{Kind: core.KindConversation, ID: id}
		}
		return core.Conversation{}, err
	}
	c.Created = time.UnixMilli(createdMs)
	return c, nil
}

// ListConversations returns the conversations created by the given user,
// newest first.
func (s *Store) ListConversations(ctx context.Context, creatorID int64) ([]core.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.creator_id, c.created_at_unix_ms, c.name, COALESCE(r.agent_id, 0)
		 FROM conversations c
		 LEFT JOIN conversation_agent_relations r ON r.conversation_id = c.id
		 WHERE c.creator_id = ? ORDER BY c.created_at_unix_ms DESC, c.id DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectConversations(rows)
}

// UpdateConversation renames a conversation and rebinds its agent. The
// binding is an update-in-place on the relation row, never a second row.
func (s *Store) UpdateConversation(ctx context.Context, id int64, name string, agentID int64) error {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if agentID == 0 {
		missing = append(missing, "agent")
	}
	if len(missing) > 0 {
		return &core.ValidationError{Fields: missing}
	}
	if _, err := s.GetAgent(ctx, agentID); err != nil {
		return err
	}

	return s.WithTx(ctx, func(tx *Tx) error {
		res, err := tx.tx.ExecContext(ctx, `UPDATE conversations SET name = ? WHERE id = ?`, name, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &core.NotFoundError{Kind: core.KindConversation, ID: id}
		}
		res, err = tx.tx.ExecContext(ctx,
			`UPDATE conversation_agent_relations SET agent_id = ? WHERE conversation_id = ?`, agentID, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &core.IntegrityError{Msg: fmt.Sprintf("conversation %d has no bound agent", id)}
		}
		return nil
	})
}

// GetBoundAgent resolves the single agent bound to a conversation. A missing
// binding violates the one-agent invariant and is reported as an integrity
// error, never as a normal empty case.
func (s *Store) GetBoundAgent(ctx context.Context, conversationID int64) (core.Agent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+`
		 FROM agents a
		 JOIN agent_models m ON m.id = a.model_id
		 JOIN conversation_agent_relations r ON r.agent_id = a.id
		 WHERE r.conversation_id = ?`, conversationID)
	a, err := scanAgentFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Agent{}, &core.IntegrityError{Msg: fmt.Sprintf("conversation %d has no bound agent", conversationID)}
		}
		return core.Agent{}, err
	}
	return a, nil
}

// AppendMessage appends a turn to a conversation. Messages are append-only;
// the only other mutation is bulk deletion with the conversation.
func (s *Store) AppendMessage(ctx context.Context, conversationID int64, content string, human bool) (core.Message, error) {
	if content == "" {
		return core.Message{}, &core.ValidationError{Fields: []string{"message"}}
	}
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return core.Message{}, err
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages(conversation_id, content, human, created_at_unix_ms) VALUES(?, ?, ?, ?)`,
		conversationID, content, boolToInt(human), now.UnixMilli())
	if err != nil {
		return core.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Message{}, err
	}
	return core.Message{ID: id, ConversationID: conversationID, Content: content, Human: human, Created: now}, nil
}

// GetMessage returns a single message by id.
func (s *Store) GetMessage(ctx context.Context, id int64) (core.Message, error) {
	var m core.Message
	var human int
	var createdMs int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, conversation_id, content, human, created_at_unix_ms FROM messages WHERE id = ?`, id).
		Scan(&m.ID, &m.ConversationID, &m.Content, &human, &createdMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Message{}, &core.NotFoundError{Kind: core.KindMessage, ID: id}
		}
		return core.Message{}, err
	}
	m.Human = human != 0
	m.Created = time.UnixMilli(createdMs)
	return m, nil
}

// ListMessages returns the full message history of a conversation in
// insertion order.
func (s *Store) ListMessages(ctx context.Context, conversationID int64) ([]core.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, content, human, created_at_unix_ms
		 FROM messages WHERE conversation_id = ? ORDER BY id`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Message
	for rows.Next() {
		var m core.Message
		var human int
		var createdMs int64
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Content, &human, &createdMs); err != nil {
			return nil, err
		}
		m.Human = human != 0
		m.Created = time.UnixMilli(createdMs)
		out = append(out, m)
	}
	return out, rows.Err()
}

func collectConversations(rows *sql.Rows) ([]core.Conversation, error) {
	var out []core.Conversation
	for rows.Next() {
		var c core.Conversation
		var createdMs int64
		if err := rows.Scan(&c.ID, &c.CreatorID, &createdMs, &c.Name, &c.AgentID); err != nil {
			return nil, err
		}
		c.Created = time.UnixMilli(createdMs)
		out = append(out, c)
	}
	return out, rows.Err()
}
