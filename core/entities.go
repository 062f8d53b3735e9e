package core

import "time"

// Kind identifies an entity table for authorization and error reporting.
type Kind string

// Entity kinds known to the access resolver and cascade engine.
const (
	KindUser         Kind = "user"
	KindAgent        Kind = "agent"
	KindContext      Kind = "context"
	KindConversation Kind = "conversation"
	KindMessage      Kind = "message"
	KindList         Kind = "list"
	KindItem         Kind = "item"
	KindDetail       Kind = "detail"
	KindAgentModel   Kind = "agent model"
)

// Mode distinguishes read from write access. Current policy requires
// ownership for both; the split exists so a future sharing model can relax
// reads without touching call sites.
type Mode int

const (
	// ModeRead requests read access to an entity.
	ModeRead Mode = iota
	// ModeWrite requests write (mutate/delete) access to an entity.
	ModeWrite
)

// Vendor codes stored in the model catalog. Each selects one adapter variant.
const (
	VendorOpenAI    = "openai"
	VendorAnthropic = "anthropic"
	VendorGoogle    = "google"
)

// User is an account. Admin users bypass ownership checks.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Admin        bool
	Created      time.Time
}

// AgentModel is a row of the read-only model catalog. Agents reference a
// catalog entry instead of carrying raw vendor/model strings.
type AgentModel struct {
	ID               int64
	ProviderName     string
	ProviderCode     string
	ModelName        string
	ModelCode        string
	ModelDescription string
}

// Agent is a configured AI persona: a catalog model plus role and
// instructions. Provider and ModelCode are joined from the catalog on reads.
type Agent struct {
	ID           int64
	CreatorID    int64
	Created      time.Time
	Name         string
	Description  string
	ModelID      int64
	Role         string
	Instructions string

	Provider  string
	ModelCode string
}

// Context groups lists and conversations around a topic. Membership lives in
// relation rows; deleting a context only detaches.
type Context struct {
	ID          int64
	CreatorID   int64
	Created     time.Time
	Name        string
	Description string
}

// Conversation is an ordered message log bound to exactly one agent.
// AgentID is joined from the relation row on reads.
type Conversation struct {
	ID        int64
	CreatorID int64
	Created   time.Time
	Name      string

	AgentID int64
}

// Message is a single turn. Human marks user-authored turns; agent turns
// have Human false. Messages are append-only.
type Message struct {
	ID             int64
	ConversationID int64
	Content        string
	Human          bool
	Created        time.Time
}

// List is a named collection of items described by details.
type List struct {
	ID          int64
	CreatorID   int64
	Created     time.Time
	Name        string
	Description string
}

// Item is a row of a list. Its visible content lives in item/detail cells.
type Item struct {
	ID   int64
	Name string
}

// Detail is a named column applicable to the items of lists that include it.
type Detail struct {
	ID          int64
	Name        string
	Description string
}

// ContextListRelation links a context to a list (many-to-many).
type ContextListRelation struct {
	ContextID int64
	ListID    int64
}

// ContextConversationRelation links a context to a conversation.
type ContextConversationRelation struct {
	ContextID      int64
	ConversationID int64
}

// ConversationAgentRelation binds a conversation to its single agent.
// Rebinding updates this row in place; there is never a second row.
type ConversationAgentRelation struct {
	ConversationID int64
	AgentID        int64
}

// ListItemRelation places an item in a list.
type ListItemRelation struct {
	ListID int64
	ItemID int64
}

// ListDetailRelation applies a detail column to a list.
type ListDetailRelation struct {
	ListID   int64
	DetailID int64
}

// ItemDetailRelation is the content cell for an (item, detail) pair.
// Content defaults to the empty string when a pairing is first created.
type ItemDetailRelation struct {
	ItemID   int64
	DetailID int64
	Content  string
}
