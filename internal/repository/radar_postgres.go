package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaekwang-park/agenda-api/internal/model"
)

const radarColumns = `id, user_id, title, notes, priority, created_at, updated_at`

type PostgresRadarRepository struct {
	db *sql.DB
}

func NewPostgresRadar(db *sql.DB) *PostgresRadarRepository {
	return &PostgresRadarRepository{db: db}
}

func (r *PostgresRadarRepository) Create(ctx context.Context, item model.RadarItem) (model.RadarItem, error) {
	query := `
		INSERT INTO radar_items (user_id, title, notes, priority)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + radarColumns

	row := r.db.QueryRowContext(ctx, query, item.UserID, item.Title, item.Notes, item.Priority)
	return scanRadarItem(row)
}

func (r *PostgresRadarRepository) GetByID(ctx context.Context, userID, itemID string) (model.RadarItem, error) {
	if !isRowID(itemID) {
		return model.RadarItem{}, sql.ErrNoRows
	}
	query := `SELECT ` + radarColumns + ` FROM radar_items WHERE id = $1 AND user_id = $2`

	row := r.db.QueryRowContext(ctx, query, itemID, userID)
	return scanRadarItem(row)
}

func (r *PostgresRadarRepository) Delete(ctx context.Context, userID, itemID string) error {
	if !isRowID(itemID) {
		return sql.ErrNoRows
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM radar_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete radar item: %w", err)
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

// List returns the user's radar items, most urgent first and newest first
// within a priority.
func (r *PostgresRadarRepository) List(ctx context.Context, userID string) ([]model.RadarItem, error) {
	return listRadarItems(ctx, r.db, userID)
}

func listRadarItems(ctx context.Context, q queryer, userID string) ([]model.RadarItem, error) {
	query := `SELECT ` + radarColumns + ` FROM radar_items
		WHERE user_id = $1
		ORDER BY priority, created_at DESC, id`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list radar items: %w", err)
	}
	defer rows.Close()

	items := []model.RadarItem{}
	for rows.Next() {
		item, err := scanRadarItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate radar items: %w", err)
	}
	return items, nil
}

func scanRadarItem(row scannable) (model.RadarItem, error) {
	var it model.RadarItem
	err := row.Scan(&it.ID, &it.UserID, &it.Title, &it.Notes, &it.Priority, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return model.RadarItem{}, fmt.Errorf("failed to scan radar item: %w", err)
	}
	return it, nil
}

var _ RadarRepository = (*PostgresRadarRepository)(nil)
