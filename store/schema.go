package store

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  admin INTEGER NOT NULL DEFAULT 0,
  created_at_unix_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS agent_models (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider_name TEXT NOT NULL,
  provider_code TEXT NOT NULL,
  model_name TEXT NOT NULL,
  model_code TEXT NOT NULL,
  model_description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS agents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  creator_id INTEGER NOT NULL,
  created_at_unix_ms INTEGER NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  model_id INTEGER NOT NULL,
  role TEXT NOT NULL,
  instructions TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_agents_creator ON agents(creator_id);

CREATE TABLE IF NOT EXISTS contexts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  creator_id INTEGER NOT NULL,
  created_at_unix_ms INTEGER NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_contexts_creator ON contexts(creator_id);

CREATE TABLE IF NOT EXISTS conversations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  creator_id INTEGER NOT NULL,
  created_at_unix_ms INTEGER NOT NULL,
  name TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversations_creator ON conversations(creator_id);

CREATE TABLE IF NOT EXISTS messages (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  conversation_id INTEGER NOT NULL,
  content TEXT NOT NULL,
  human INTEGER NOT NULL,
  created_at_unix_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);

CREATE TABLE IF NOT EXISTS lists (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  creator_id INTEGER NOT NULL,
  created_at_unix_ms INTEGER NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_lists_creator ON lists(creator_id);

CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS details (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS context_list_relations (
  context_id INTEGER NOT NULL,
  list_id INTEGER NOT NULL,
  UNIQUE(context_id, list_id)
);
CREATE INDEX IF NOT EXISTS idx_clr_list ON context_list_relations(list_id);

CREATE TABLE IF NOT EXISTS context_conversation_relations (
  context_id INTEGER NOT NULL,
  conversation_id INTEGER NOT NULL,
  UNIQUE(context_id, conversation_id)
);
CREATE INDEX IF NOT EXISTS idx_ccr_conversation ON context_conversation_relations(conversation_id);

CREATE TABLE IF NOT EXISTS conversation_agent_relations (
  conversation_id INTEGER NOT NULL UNIQUE,
  agent_id INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_car_agent ON conversation_agent_relations(agent_id);

CREATE TABLE IF NOT EXISTS list_item_relations (
  list_id INTEGER NOT NULL,
  item_id INTEGER NOT NULL,
  UNIQUE(list_id, item_id)
);
CREATE INDEX IF NOT EXISTS idx_lir_item ON list_item_relations(item_id);

CREATE TABLE IF NOT EXISTS list_detail_relations (
  list_id INTEGER NOT NULL,
  detail_id INTEGER NOT NULL,
  UNIQUE(list_id, detail_id)
);
CREATE INDEX IF NOT EXISTS idx_ldr_detail ON list_detail_relations(detail_id);

CREATE TABLE IF NOT EXISTS item_detail_relations (
  item_id INTEGER NOT NULL,
  detail_id INTEGER NOT NULL,
  content TEXT NOT NULL DEFAULT '',
  UNIQUE(item_id, detail_id)
);
CREATE INDEX IF NOT EXISTS idx_idr_detail ON item_detail_relations(detail_id);
`

// catalogSeed mirrors the shipped model catalog: one entry per supported
// provider/model pairing.
var catalogSeed = []struct {
	providerName, providerCode, modelName, modelCode, description string
}{
	{"OpenAI", "openai", "GPT-4o mini", "gpt-4o-mini", "Fast, affordable small model for focused tasks"},
	{"OpenAI", "openai", "GPT-4o", "gpt-4o", "Flagship multimodal model"},
	{"Anthropic", "anthropic", "Claude 3.5 Haiku", "claude-3-5-haiku-latest", "Fastest Claude model"},
	{"Anthropic", "anthropic", "Claude 3.5 Sonnet", "claude-3-5-sonnet-latest", "Balanced intelligence and speed"},
	{"Google", "google", "Gemini 2.0 Flash", "gemini-2.0-flash", "Low latency Gemini model"},
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=3000;`); err != nil {
		return fmt.Errorf("pragma busy_timeout: %w", err)
	}

	var v int
	if err := db.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return fmt.Errorf("pragma user_version: %w", err)
	}
	if v >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var catalogRows int
	if err := tx.QueryRow(`SELECT COUNT(1) FROM agent_models`).Scan(&catalogRows); err != nil {
		return err
	}
	if catalogRows == 0 {
		for _, m := range catalogSeed {
			if _, err := tx.Exec(
				`INSERT INTO agent_models(provider_name, provider_code, model_name, model_code, model_description) VALUES(?, ?, ?, ?, ?)`,
				m.providerName, m.providerCode, m.modelName, m.modelCode, m.description,
			); err != nil {
				return fmt.Errorf("seed model catalog: %w", err)
			}
		}
	}

	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version=%d;`, schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}
