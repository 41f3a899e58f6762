package domain

import "time"

// AuditLog is one immutable entry in the change history. Seq is assigned by
// storage and orders entries; it is never used for addressing.
type AuditLog struct {
	Seq       int64
	TenantID  string
	TableName string
	RecordID  string
	Action    AuditAction
	UserID    string
	OldValues *string
	NewValues *string
	CreatedAt time.Time
}

// ActorActionCount aggregates audit entries per actor and action.
type ActorActionCount struct {
	UserID string
	Action AuditAction
	Count  int64
}

// AuditEntryWithActor joins a log entry with the identity of the acting user.
type AuditEntryWithActor struct {
	AuditLog
	ActorEmail       string
	ActorDisplayName string
}
