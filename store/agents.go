package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/joshkgarber/incontext/core"
)

const agentColumns = `a.id, a.creator_id, a.created_at_unix_ms, a.name, a.description,
  a.model_id, a.role, a.instructions, m.provider_code, m.model_code`

// ListAgentModels returns the read-only model catalog.
func (s *Store) ListAgentModels(ctx context.Context) ([]core.AgentModel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider_name, provider_code, model_name, model_code, model_description
		 FROM agent_models ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.AgentModel
	for rows.Next() {
		var m core.AgentModel
		if err := rows.Scan(&m.ID, &m.ProviderName, &m.ProviderCode, &m.ModelName, &m.ModelCode, &m.ModelDescription); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetAgentModel returns a single catalog entry.
func (s *Store) GetAgentModel(ctx context.Context, id int64) (core.AgentModel, error) {
	var m core.AgentModel
	err := s.db.QueryRowContext(ctx,
		`SELECT id, provider_name, provider_code, model_name, model_code, model_description
		 FROM agent_models WHERE id = ?`, id).
		Scan(&m.ID, &m.ProviderName, &m.ProviderCode, &m.ModelName, &m.ModelCode, &m.ModelDescription)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.AgentModel{}, &core.NotFoundError{Kind: core.KindAgentModel, ID: id}
		}
		return core.AgentModel{}, err
	}
	return m, nil
}

// CreateAgent inserts an agent owned by creatorID. The model reference must
// point at a catalog entry; an unknown model is reported the same way as a
// missing one.
func (s *Store) CreateAgent(ctx context.Context, creatorID int64, name, description string, modelID int64, role, instructions string) (core.Agent, error) {
	if err := s.validateAgentFields(ctx, name, modelID, role, instructions); err != nil {
		return core.Agent{}, err
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO agents(creator_id, created_at_unix_ms, name, description, model_id, role, instructions)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		creatorID, now.UnixMilli(), name, description, modelID, role, instructions,
	)
	if err != nil {
		return core.Agent{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Agent{}, err
	}
	return s.GetAgent(ctx, id)
}

// GetAgent returns the agent with the given id, with provider and model
// codes joined from the catalog.
func (s *Store) GetAgent(ctx context.Context, id int64) (core.Agent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+agentColumns+`
		 FROM agents a JOIN agent_models m ON m.id = a.model_id
		 WHERE a.id = ?`, id)
	return scanAgent(row, id)
}

// ListAgents returns the agents created by the given user, in creation order.
func (s *Store) ListAgents(ctx context.Context, creatorID int64) ([]core.Agent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+agentColumns+`
		 FROM agents a JOIN agent_models m ON m.id = a.model_id
		 WHERE a.creator_id = ? ORDER BY a.id`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Agent
	for rows.Next() {
		a, err := scanAgentRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAgent replaces the mutable fields of an agent. The creator never
// changes.
func (s *Store) UpdateAgent(ctx context.Context, id int64, name, description string, modelID int64, role, instructions string) error {
	if err := s.validateAgentFields(ctx, name, modelID, role, instructions); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE agents SET name = ?, description = ?, model_id = ?, role = ?, instructions = ? WHERE id = ?`,
		name, description, modelID, role, instructions, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &core.NotFoundError{Kind: core.KindAgent, ID: id}
	}
	return nil
}

func (s *Store) validateAgentFields(ctx context.Context, name string, modelID int64, role, instructions string) error {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if modelID == 0 {
		missing = append(missing, "model")
	} else if _, err := s.GetAgentModel(ctx, modelID); err != nil {
		if core.IsNotFound(err) {
			missing = append(missing, "model")
		} else {
			return err
		}
	}
	if role == "" {
		missing = append(missing, "role")
	}
	if instructions == "" {
		missing = append(missing, "instructions")
	}
	if len(missing) > 0 {
		return &core.ValidationError{Fields: missing}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgentFrom(sc rowScanner) (core.Agent, error) {
	var a core.Agent
	var createdMs int64
	if err := sc.Scan(&a.ID, &a.CreatorID, &createdMs, &a.Name, &a.Description,
		&a.ModelID, &a.Role, &a.Instructions, &a.Provider, &a.ModelCode); err != nil {
		return core.Agent{}, err
	}
	a.Created = time.UnixMilli(createdMs)
	return a, nil
}

func scanAgent(row *sql.Row, id int64) (core.Agent, error) {
	a, err := scanAgentFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Agent{}, &core.NotFoundError{Kind: core.KindAgent, ID: id}
		}
		return core.Agent{}, err
	}
	return a, nil
}

func scanAgentRows(rows *sql.Rows) (core.Agent, error) {
	return scanAgentFrom(rows)
}
