package credentials

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bdf-gateway/pkg/utils"
)

// NOTE: PostgresStore assumes the api_clients table created by EnsureSchema.
// client_id is the primary key, which is what enforces uniqueness.

const schemaSQL = `
CREATE TABLE IF NOT EXISTS api_clients (
  client_id   TEXT PRIMARY KEY,
  org         TEXT NOT NULL,
  secret_hash BYTEA NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)
`

// PostgresStore reads credential records from Postgres via database/sql (pgx stdlib driver).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

func (s *PostgresStore) Lookup(ctx context.Context, clientID string) (Record, bool, error) {
	const q = `
SELECT client_id, org, secret_hash
FROM api_clients
WHERE client_id = $1
`
	var r Record
	if err := s.db.QueryRowContext(ctx, q, clientID).Scan(
		&r.ClientID,
		&r.Org,
		&r.SecretHash,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return r, true, nil
}

// Seed inserts records that are not present yet. Existing rows are left untouched
// so rotated secrets are never reverted by a restart.
func (s *PostgresStore) Seed(ctx context.Context, records []Record) (int, error) {
	const q = `
INSERT INTO api_clients (client_id, org, secret_hash, created_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (client_id) DO NOTHING
`
	inserted := 0
	now := time.Now().UTC()
	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		for _, r := range records {
			if r.ClientID == "" || r.Org == "" || len(r.SecretHash) == 0 {
				return ErrInvalidSeed
			}
			res, err := tx.ExecContext(ctx, q, r.ClientID, r.Org, r.SecretHash, now)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
