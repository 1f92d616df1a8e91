package service_test

import (
	"context"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
	"github.com/jaekwang-park/agenda-api/internal/model"
)

// mockTaskRepo implements repository.TaskRepository for testing
type mockTaskRepo struct {
	createFn  func(ctx context.Context, task model.Task) (model.Task, error)
	getByIDFn func(ctx context.Context, userID, taskID string) (model.Task, error)
	updateFn  func(ctx context.Context, task model.Task) (model.Task, error)
	deleteFn  func(ctx context.Context, userID, taskID string) error
	listFn    func(ctx context.Context, params model.TaskListParams) ([]model.Task, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, task model.Task) (model.Task, error) {
	return m.createFn(ctx, task)
}
func (m *mockTaskRepo) GetByID(ctx context.Context, userID, taskID string) (model.Task, error) {
	return m.getByIDFn(ctx, userID, taskID)
}
func (m *mockTaskRepo) Update(ctx context.Context, task model.Task) (model.Task, error) {
	return m.updateFn(ctx, task)
}
func (m *mockTaskRepo) Delete(ctx context.Context, userID, taskID string) error {
	return m.deleteFn(ctx, userID, taskID)
}
func (m *mockTaskRepo) List(ctx context.Context, params model.TaskListParams) ([]model.Task, error) {
	return m.listFn(ctx, params)
}

type mockRadarRepo struct {
	createFn  func(ctx context.Context, item model.RadarItem) (model.RadarItem, error)
	getByIDFn func(ctx context.Context, userID, itemID string) (model.RadarItem, error)
	deleteFn  func(ctx context.Context, userID, itemID string) error
	listFn    func(ctx context.Context, userID string) ([]model.RadarItem, error)
}

func (m *mockRadarRepo) Create(ctx context.Context, item model.RadarItem) (model.RadarItem, error) {
	return m.createFn(ctx, item)
}
func (m *mockRadarRepo) GetByID(ctx context.Context, userID, itemID string) (model.RadarItem, error) {
	return m.getByIDFn(ctx, userID, itemID)
}
func (m *mockRadarRepo) Delete(ctx context.Context, userID, itemID string) error {
	return m.deleteFn(ctx, userID, itemID)
}
func (m *mockRadarRepo) List(ctx context.Context, userID string) ([]model.RadarItem, error) {
	return m.listFn(ctx, userID)
}

type mockSnapshotReader struct {
	snapshotFn func(ctx context.Context, userID string, withRadar bool) (model.Snapshot, error)
}

func (m *mockSnapshotReader) Snapshot(ctx context.Context, userID string, withRadar bool) (model.Snapshot, error) {
	return m.snapshotFn(ctx, userID, withRadar)
}

type mockUserRepo struct {
	getOrCreateFn  func(ctx context.Context, subject string) (model.User, error)
	getBySubjectFn func(ctx context.Context, subject string) (model.User, error)
}

func (m *mockUserRepo) GetOrCreate(ctx context.Context, subject string) (model.User, error) {
	return m.getOrCreateFn(ctx, subject)
}
func (m *mockUserRepo) GetBySubject(ctx context.Context, subject string) (model.User, error) {
	return m.getBySubjectFn(ctx, subject)
}

// recordingInvalidator counts cache evictions per user.
type recordingInvalidator struct {
	calls map[string]int
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID string) {
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[userID]++
}

var fixedToday = calendar.MustParse("2025-12-16")

func today() calendar.Date { return fixedToday }

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func datePtr(s string) *calendar.Date {
	d := calendar.MustParse(s)
	return &d
}

func containsStr(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
