package repository

import (
	"context"

	"github.com/jaekwang-park/agenda-api/internal/model"
)

type TaskRepository interface {
	Create(ctx context.Context, task model.Task) (model.Task, error)
	GetByID(ctx context.Context, userID, taskID string) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	List(ctx context.Context, params model.TaskListParams) ([]model.Task, error)
}

type RadarRepository interface {
	Create(ctx context.Context, item model.RadarItem) (model.RadarItem, error)
	GetByID(ctx context.Context, userID, itemID string) (model.RadarItem, error)
	Delete(ctx context.Context, userID, itemID string) error
	List(ctx context.Context, userID string) ([]model.RadarItem, error)
}

// SnapshotReader returns a user's tasks, and optionally radar items, as they
// were at a single point in time.
type SnapshotReader interface {
	Snapshot(ctx context.Context, userID string, withRadar bool) (model.Snapshot, error)
}
