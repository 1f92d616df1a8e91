package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// NewDB opens a Postgres connection pool and verifies it is reachable.
func NewDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	subject    text NOT NULL UNIQUE,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tasks (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id    text NOT NULL,
	title      text NOT NULL CHECK (length(title) BETWEEN 1 AND 240),
	notes      text NOT NULL DEFAULT '',
	priority   smallint NOT NULL DEFAULT 3 CHECK (priority BETWEEN 1 AND 5),
	kind       text NOT NULL,
	due_date   date,
	is_done    boolean NOT NULL DEFAULT false,
	rule       text,
	start_date date,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT tasks_temporal_mode CHECK (
		(kind = 'one_off' AND due_date IS NOT NULL AND rule IS NULL AND start_date IS NULL)
		OR (kind = 'recurring' AND due_date IS NULL AND rule IS NOT NULL AND start_date IS NOT NULL AND NOT is_done)
	)
);

CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id);

CREATE TABLE IF NOT EXISTS radar_items (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id    text NOT NULL,
	title      text NOT NULL CHECK (length(title) BETWEEN 1 AND 240),
	notes      text NOT NULL DEFAULT '',
	priority   smallint NOT NULL DEFAULT 3 CHECK (priority BETWEEN 1 AND 5),
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS radar_items_user_id_idx ON radar_items (user_id);
`

// Migrate creates the tables the Postgres repositories use. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// isRowID reports whether id can name a row in a uuid-keyed table. Other
// values are treated as missing rows instead of reaching Postgres as cast errors.
func isRowID(id string) bool {
	return uuid.Validate(id) == nil
}
