package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// EnsureSchema cria as tabelas na subida do serviço, se ainda não existirem.
// O deploy alvo é um único Postgres pequeno; não há pipeline de migração.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		phone      TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS bets (
		id           TEXT PRIMARY KEY,
		proposition  TEXT NOT NULL,
		stake        TEXT NOT NULL,
		creator_id   TEXT NOT NULL REFERENCES users(id),
		creator_side TEXT NOT NULL CHECK (creator_side IN ('YES', 'NO')),
		acceptor_id  TEXT REFERENCES users(id),
		status       TEXT NOT NULL DEFAULT 'OPEN'
			CHECK (status IN ('OPEN', 'ACCEPTED', 'RESOLVED', 'COMPLETED', 'CANCELLED')),
		outcome      TEXT CHECK (outcome IN ('YES', 'NO')),
		winner_id    TEXT REFERENCES users(id),
		loser_id     TEXT REFERENCES users(id),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		accepted_at  TIMESTAMPTZ,
		resolved_at  TIMESTAMPTZ,
		completed_at TIMESTAMPTZ
	);

	CREATE INDEX IF NOT EXISTS idx_bets_status   ON bets(status);
	CREATE INDEX IF NOT EXISTS idx_bets_creator  ON bets(creator_id);
	CREATE INDEX IF NOT EXISTS idx_bets_acceptor ON bets(acceptor_id);

	CREATE TABLE IF NOT EXISTS bet_transitions (
		id         BIGSERIAL PRIMARY KEY,
		bet_id     TEXT NOT NULL,
		kind       TEXT NOT NULL,
		status     TEXT NOT NULL,
		payload    JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_bet_transitions_bet ON bet_transitions(bet_id);
	`

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
