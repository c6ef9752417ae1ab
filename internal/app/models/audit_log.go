package models

import "time"

// AuditEntityType identifies which entity an audit entry refers to
type AuditEntityType string

const (
	AuditEntityRequest AuditEntityType = "request"
	AuditEntityStudent AuditEntityType = "student"
)

// AuditLog is one immutable entry in the 'admin_audit_logs' table.
// Entries are only ever inserted; there is no update or delete path.
type AuditLog struct {
	ID         string                 `json:"id" db:"id"`
	ActorEmail *string                `json:"actorEmail,omitempty" db:"actor_email"` // Null for system actions
	Action     string                 `json:"action" db:"action"`
	EntityType AuditEntityType        `json:"entityType" db:"entity_type"`
	EntityID   string                 `json:"entityId" db:"entity_id"`
	Reason     *string                `json:"reason,omitempty" db:"reason"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt  time.Time              `json:"createdAt" db:"created_at"`
}
