package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertAuditLog = `-- name: InsertAuditLog :one
INSERT INTO audit_log (id, action, severity, username, entity_id, detail, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, action, severity, username, entity_id, detail, ip_address, user_agent, created_at
`

type InsertAuditLogParams struct {
	ID        pgtype.UUID
	Action    string
	Severity  string
	Username  pgtype.Text
	EntityID  pgtype.Text
	Detail    []byte
	IpAddress pgtype.Text
	UserAgent pgtype.Text
}

func (q *Queries) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) (AuditLog, error) {
	row := q.db.QueryRow(ctx, insertAuditLog,
		arg.ID,
		arg.Action,
		arg.Severity,
		arg.Username,
		arg.EntityID,
		arg.Detail,
		arg.IpAddress,
		arg.UserAgent,
	)
	var i AuditLog
	err := row.Scan(
		&i.ID,
		&i.Action,
		&i.Severity,
		&i.Username,
		&i.EntityID,
		&i.Detail,
		&i.IpAddress,
		&i.UserAgent,
		&i.CreatedAt,
	)
	return i, err
}
