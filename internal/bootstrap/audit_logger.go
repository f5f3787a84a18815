package bootstrap

import "context"

// AuditLog is one operational audit entry (server lifecycle, not domain
// mutations; those go to the audit_trail table).
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
