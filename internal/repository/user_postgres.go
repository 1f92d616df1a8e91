package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaekwang-park/agenda-api/internal/model"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUser(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetOrCreate(ctx context.Context, subject string) (model.User, error) {
	query := `
		INSERT INTO users (subject)
		VALUES ($1)
		ON CONFLICT (subject) DO UPDATE SET subject = EXCLUDED.subject
		RETURNING id, subject, created_at`

	row := r.db.QueryRowContext(ctx, query, subject)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetBySubject(ctx context.Context, subject string) (model.User, error) {
	query := `SELECT id, subject, created_at FROM users WHERE subject = $1`

	row := r.db.QueryRowContext(ctx, query, subject)
	return scanUser(row)
}

func scanUser(row scannable) (model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Subject, &u.CreatedAt); err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
