package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaekwang-park/agenda-api/internal/model"
)

// PostgresSnapshotReader reads tasks and radar items inside one read-only
// repeatable-read transaction so both lists reflect the same point in time.
type PostgresSnapshotReader struct {
	db *sql.DB
}

func NewPostgresSnapshot(db *sql.DB) *PostgresSnapshotReader {
	return &PostgresSnapshotReader{db: db}
}

func (r *PostgresSnapshotReader) Snapshot(ctx context.Context, userID string, withRadar bool) (model.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	var snap model.Snapshot
	snap.Tasks, err = listTasks(ctx, tx, model.TaskListParams{UserID: userID})
	if err != nil {
		return model.Snapshot{}, err
	}
	if withRadar {
		snap.RadarItems, err = listRadarItems(ctx, tx, userID)
		if err != nil {
			return model.Snapshot{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to close snapshot: %w", err)
	}
	return snap, nil
}

var _ SnapshotReader = (*PostgresSnapshotReader)(nil)
