package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
	"github.com/jaekwang-park/agenda-api/internal/http/handler"
	"github.com/jaekwang-park/agenda-api/internal/middleware"
	"github.com/jaekwang-park/agenda-api/internal/model"
)

// mockTaskRepo for handler tests
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
	createFn func(ctx context.Context, item model.RadarItem) (model.RadarItem, error)
	deleteFn func(ctx context.Context, userID, itemID string) error
	listFn   func(ctx context.Context, userID string) ([]model.RadarItem, error)
}

func (m *mockRadarRepo) Create(ctx context.Context, item model.RadarItem) (model.RadarItem, error) {
	return m.createFn(ctx, item)
}
func (m *mockRadarRepo) GetByID(ctx context.Context, userID, itemID string) (model.RadarItem, error) {
	return model.RadarItem{}, nil
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

var now = time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

func today() calendar.Date { return calendar.MustParse("2025-12-16") }

func datePtr(s string) *calendar.Date {
	d := calendar.MustParse(s)
	return &d
}

func sampleTask() model.Task {
	return model.Task{
		ID:        "task-1",
		UserID:    "user-1",
		Title:     "Pay rent",
		Priority:  2,
		Kind:      model.TaskKindOneOff,
		DueDate:   datePtr("2025-12-18"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleRecurringTask() model.Task {
	return model.Task{
		ID:        "task-2",
		UserID:    "user-1",
		Title:     "Bills",
		Priority:  3,
		Kind:      model.TaskKindRecurring,
		Rule:      "FREQ=MONTHLY;BYMONTHDAY=13",
		StartDate: datePtr("2025-12-16"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// serve runs h with user-1 already authenticated.
func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	}
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-1"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handler.ErrorBody {
	t.Helper()
	var result handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error body: %v (body: %s)", err, w.Body.String())
	}
	return result.Error
}
