package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaekwang-park/agenda-api/internal/model"
)

const taskColumns = `id, user_id, title, notes, priority, kind, due_date, is_done,
		COALESCE(rule, ''), start_date, created_at, updated_at`

type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTask(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, notes, priority, kind, due_date, is_done, rule, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Notes, task.Priority, task.Kind,
		task.DueDate, task.IsDone, task.Rule, task.StartDate,
	)
	return scanTask(row)
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, userID, taskID string) (model.Task, error) {
	if !isRowID(taskID) {
		return model.Task{}, sql.ErrNoRows
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	row := r.db.QueryRowContext(ctx, query, taskID, userID)
	return scanTask(row)
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	if !isRowID(task.ID) {
		return model.Task{}, sql.ErrNoRows
	}
	query := `
		UPDATE tasks
		SET title = $1, notes = $2, priority = $3, kind = $4, due_date = $5,
			is_done = $6, rule = NULLIF($7, ''), start_date = $8, updated_at = now()
		WHERE id = $9 AND user_id = $10
		RETURNING ` + taskColumns

	row := r.db.QueryRowContext(ctx, query,
		task.Title, task.Notes, task.Priority, task.Kind, task.DueDate,
		task.IsDone, task.Rule, task.StartDate, task.ID, task.UserID,
	)
	return scanTask(row)
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if !isRowID(taskID) {
		return sql.ErrNoRows
	}
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresTaskRepository) List(ctx context.Context, params model.TaskListParams) ([]model.Task, error) {
	return listTasks(ctx, r.db, params)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listTasks(ctx context.Context, q queryer, params model.TaskListParams) ([]model.Task, error) {
	args := []any{params.UserID}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`

	if params.Kind != nil {
		args = append(args, string(*params.Kind))
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if params.IsDone != nil {
		args = append(args, *params.IsDone)
		query += fmt.Sprintf(" AND is_done = $%d", len(args))
	}
	query += " ORDER BY COALESCE(due_date, start_date), priority, created_at, id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Priority, &t.Kind,
		&t.DueDate, &t.IsDone, &t.Rule, &t.StartDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	return t, nil
}

var _ TaskRepository = (*PostgresTaskRepository)(nil)
