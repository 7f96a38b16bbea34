package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	db "github.com/JonMunkholm/vendas/internal/database"
	"github.com/JonMunkholm/vendas/internal/logging"
	"github.com/JonMunkholm/vendas/internal/session"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionLogin           AuditAction = "login"
	ActionLoginFailed     AuditAction = "login_failed"
	ActionLogout          AuditAction = "logout"
	ActionPasswordUpgrade AuditAction = "password_upgrade"
	ActionProductCreate   AuditAction = "product_create"
	ActionProductUpdate   AuditAction = "product_update"
	ActionProductDelete   AuditAction = "product_delete"
	ActionSaleRecord      AuditAction = "sale_record"
)

// AuditActions lists every action in display order.
var AuditActions = []AuditAction{
	ActionLogin, ActionLoginFailed, ActionLogout, ActionPasswordUpgrade,
	ActionProductCreate, ActionProductUpdate, ActionProductDelete, ActionSaleRecord,
}

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID        string         `json:"id"`
	Action    AuditAction    `json:"action"`
	Severity  AuditSeverity  `json:"severity"`
	Username  string         `json:"username,omitempty"`
	EntityID  string         `json:"entityId,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	IPAddress string         `json:"ipAddress,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// AuditLogParams contains parameters for creating an audit log entry.
// Username defaults to the session user in ctx; IP and User-Agent always
// come from ctx.
type AuditLogParams struct {
	Action   AuditAction
	Username string
	EntityID string
	Detail   map[string]any
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionLoginFailed, ActionProductDelete, ActionPasswordUpgrade:
		return SeverityHigh
	case ActionProductCreate, ActionProductUpdate:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// LogAudit creates a new audit log entry on its own connection.
func (s *Service) LogAudit(ctx context.Context, params AuditLogParams) (*AuditEntry, error) {
	conn, q, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return insertAudit(ctx, q, params)
}

// audit records an entry on the caller's connection. Failures are logged
// and never fail the operation being audited.
func (s *Service) audit(ctx context.Context, q *db.Queries, params AuditLogParams) {
	if _, err := insertAudit(ctx, q, params); err != nil {
		logging.FromContext(ctx).Warn("audit log write failed",
			"action", params.Action,
			"entity_id", params.EntityID,
			"error", err,
		)
	}
}

func insertAudit(ctx context.Context, q *db.Queries, params AuditLogParams) (*AuditEntry, error) {
	if params.Username == "" {
		if sess := session.FromContext(ctx); sess.LoggedIn() {
			params.Username = sess.Username
		}
	}
	ip, ua := ClientInfo(ctx)

	var detail []byte
	if params.Detail != nil {
		var err error
		detail, err = json.Marshal(params.Detail)
		if err != nil {
			return nil, fmt.Errorf("encode audit detail: %w", err)
		}
	}

	row, err := q.InsertAuditLog(ctx, db.InsertAuditLogParams{
		ID:        ToPgUUID(uuid.New()),
		Action:    string(params.Action),
		Severity:  string(determineSeverity(params.Action)),
		Username:  ToPgText(params.Username),
		EntityID:  ToPgText(params.EntityID),
		Detail:    detail,
		IpAddress: ToPgText(ip),
		UserAgent: ToPgText(ua),
	})
	if err != nil {
		return nil, fmt.Errorf("insert audit log: %w", err)
	}

	entry := auditEntryFromRow(row)
	return &entry, nil
}

// defaultAuditLimit caps an audit query without an explicit limit.
const defaultAuditLimit = 100

// AuditFilter selects audit entries. Zero fields match everything.
type AuditFilter struct {
	Action   AuditAction
	Severity AuditSeverity
	Username string
	Limit    int
}

// QueryAudit returns the entries matching f, newest first.
func (s *Service) QueryAudit(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	query, args, err := auditQuery(f)
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	conn, _, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	entries := []AuditEntry{}
	for rows.Next() {
		var r db.AuditLog
		if err := rows.Scan(
			&r.ID, &r.Action, &r.Severity, &r.Username, &r.EntityID,
			&r.Detail, &r.IpAddress, &r.UserAgent, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, auditEntryFromRow(r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit rows: %w", err)
	}
	return entries, nil
}

func auditQuery(f AuditFilter) (string, []any, error) {
	if f.Limit <= 0 {
		f.Limit = defaultAuditLimit
	}

	q := psql.
		Select(
			"id", "action", "severity", "username", "entity_id",
			"detail", "ip_address", "user_agent", "created_at",
		).
		From("audit_log").
		OrderBy("created_at DESC", "id").
		Limit(uint64(f.Limit))

	if f.Action != "" {
		q = q.Where(sq.Eq{"action": string(f.Action)})
	}
	if f.Severity != "" {
		q = q.Where(sq.Eq{"severity": string(f.Severity)})
	}
	if f.Username != "" {
		q = q.Where(sq.Eq{"username": f.Username})
	}
	return q.ToSql()
}

func auditEntryFromRow(r db.AuditLog) AuditEntry {
	e := AuditEntry{
		ID:        PgUUIDToString(r.ID),
		Action:    AuditAction(r.Action),
		Severity:  AuditSeverity(r.Severity),
		Username:  pgTextString(r.Username),
		EntityID:  pgTextString(r.EntityID),
		IPAddress: pgTextString(r.IpAddress),
		UserAgent: pgTextString(r.UserAgent),
	}
	if r.CreatedAt.Valid {
		e.CreatedAt = r.CreatedAt.Time
	}
	if len(r.Detail) > 0 {
		_ = json.Unmarshal(r.Detail, &e.Detail)
	}
	return e
}
