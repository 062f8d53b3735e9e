package core

import "github.com/google/uuid"

// NewID returns a random identifier used to correlate an orchestrator
// invocation across log entries. Entity ids are store rowids; this is only
// for observability.
func NewID() string { return uuid.NewString() }
