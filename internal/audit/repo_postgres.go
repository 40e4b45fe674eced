package audit

import (
	"context"
	"database/sql"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS auth_audit_events (
  id         UUID PRIMARY KEY,
  type       TEXT NOT NULL,
  client_id  TEXT NOT NULL DEFAULT '',
  org        TEXT NOT NULL DEFAULT '',
  ip_address TEXT NOT NULL DEFAULT '',
  reason     TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL
)
`

// PostgresRepo appends events to auth_audit_events. INSERT only.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO auth_audit_events (id, type, client_id, org, ip_address, reason, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		string(e.Type),
		e.ClientID,
		e.Org,
		e.IPAddress,
		e.Reason,
		e.CreatedAt,
	)
	return err
}
