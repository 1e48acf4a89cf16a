package domain

import "time"

// AuditAction enumerates tracked mutation kinds.
type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionUpdate       AuditAction = "update"
	AuditActionDelete       AuditAction = "delete"
	AuditActionStatusChange AuditAction = "status_change"
)

// AuditLog is an append-only record of who changed what. Entries are written
// as a side effect of mutations and never updated or read back by the core.
type AuditLog struct {
	ID         string
	UserID     string
	Action     AuditAction
	EntityType string
	EntityID   string
	FieldName  *string
	OldValue   *string
	NewValue   *string
	IPAddress  *string
	CreatedAt  time.Time
}
