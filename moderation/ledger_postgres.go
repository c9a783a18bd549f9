package moderation

import (
	"context"

	"emperror.dev/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const warningsSchema = `
CREATE TABLE IF NOT EXISTS warnings (
    guild_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    warning_id INTEGER NOT NULL,
    reason TEXT NOT NULL,
    moderator TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (guild_id, user_id, warning_id)
);`

// PostgresLedger keeps warnings across restarts. Same contract as MemoryLedger.
type PostgresLedger struct {
	db *sqlx.DB
}

var _ WarningStore = (*PostgresLedger)(nil)

func OpenPostgresLedger(ctx context.Context, dbURL string) (*PostgresLedger, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}

	if _, err := db.ExecContext(ctx, warningsSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create warnings schema")
	}

	return &PostgresLedger{db: db}, nil
}

func (l *PostgresLedger) Add(ctx context.Context, key LedgerKey, rec WarningRecord) (WarningRecord, int, error) {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return rec, 0, errors.WithStack(err)
	}
	defer tx.Rollback()

	// Serializes concurrent adds for the same key across bot processes
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key.String()); err != nil {
		return rec, 0, errors.WithStack(err)
	}

	var count int
	err = tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM warnings WHERE guild_id = $1 AND user_id = $2", key.GuildID, key.UserID)
	if err != nil {
		return rec, 0, errors.WithStack(err)
	}

	rec.ID = count + 1
	rec.GuildID = key.GuildID
	_, err = tx.ExecContext(ctx, `
		INSERT INTO warnings (guild_id, user_id, warning_id, reason, moderator, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, key.GuildID, key.UserID, rec.ID, rec.Reason, rec.Moderator, rec.Timestamp)
	if err != nil {
		return rec, 0, errors.WithStack(err)
	}

	if err := tx.Commit(); err != nil {
		return rec, 0, errors.WithStack(err)
	}

	return rec, rec.ID, nil
}

func (l *PostgresLedger) Count(ctx context.Context, key LedgerKey) (int, error) {
	var count int
	err := l.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM warnings WHERE guild_id = $1 AND user_id = $2", key.GuildID, key.UserID)
	return count, errors.WithStack(err)
}

func (l *PostgresLedger) List(ctx context.Context, key LedgerKey) ([]WarningRecord, error) {
	var records []WarningRecord
	err := l.db.SelectContext(ctx, &records, `
		SELECT warning_id, reason, moderator, created_at, guild_id
		FROM warnings
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY warning_id
	`, key.GuildID, key.UserID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return records, nil
}

func (l *PostgresLedger) Clear(ctx context.Context, key LedgerKey) error {
	_, err := l.db.ExecContext(ctx, "DELETE FROM warnings WHERE guild_id = $1 AND user_id = $2", key.GuildID, key.UserID)
	return errors.WithStack(err)
}

func (l *PostgresLedger) Close() error {
	return l.db.Close()
}
