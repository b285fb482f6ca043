package domain

import (
	"encoding/json"
	"time"
)

// Audit is an append-only log entry capturing who changed what and how.
// Rows are never updated or deleted once written.
type Audit struct {
	ID         string
	EntityType string
	EntityID   string
	Action     AuditAction
	ActorID    *string // nil when the mutation was unauthenticated
	Diff       json.RawMessage
	At         time.Time
}

// NewDiff marshals a structured before/after payload for an audit row.
// Marshalling of plain maps and strings cannot fail, so the error is dropped.
func NewDiff(payload map[string]any) json.RawMessage {
	b, _ := json.Marshal(payload)
	return b
}
