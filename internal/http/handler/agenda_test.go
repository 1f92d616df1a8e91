package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jaekwang-park/agenda-api/internal/agenda"
	"github.com/jaekwang-park/agenda-api/internal/http/handler"
	"github.com/jaekwang-park/agenda-api/internal/model"
	"github.com/jaekwang-park/agenda-api/internal/recurrence"
	"github.com/jaekwang-park/agenda-api/internal/service"
)

func agendaSnapshot() model.Snapshot {
	return model.Snapshot{
		Tasks:      []model.Task{sampleTask(), sampleRecurringTask()},
		RadarItems: []model.RadarItem{{ID: "radar-1", UserID: "user-1", Title: "Someday", Priority: 3, CreatedAt: now}},
	}
}

func newAgendaHandler(reader *mockSnapshotReader, expander *recurrence.Expander) *handler.AgendaHandler {
	svc := service.NewAgendaService(reader, agenda.NewAssembler(expander), today, 14)
	return handler.NewAgendaHandler(svc)
}

func snapshotOf(snap model.Snapshot) *mockSnapshotReader {
	return &mockSnapshotReader{
		snapshotFn: func(ctx context.Context, userID string, withRadar bool) (model.Snapshot, error) {
			if userID != "user-1" {
				return model.Snapshot{}, errors.New("wrong user")
			}
			out := snap
			if !withRadar {
				out.RadarItems = nil
			}
			return out, nil
		},
	}
}

func TestAgendaHandler_Shapes(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantFrom    string
		wantTo      string
		wantEntries int
	}{
		{name: "today", target: "/api/v1/agenda/today?date=2025-12-18", wantFrom: "2025-12-18", wantTo: "2025-12-18", wantEntries: 1},
		{name: "next default days", target: "/api/v1/agenda/next", wantFrom: "2025-12-16", wantTo: "2025-12-29", wantEntries: 1},
		{name: "next 60 days", target: "/api/v1/agenda/next?days=60", wantFrom: "2025-12-16", wantTo: "2026-02-13", wantEntries: 3},
		{name: "week", target: "/api/v1/agenda/week?date=2025-12-18", wantFrom: "2025-12-15", wantTo: "2025-12-21", wantEntries: 1},
		{name: "week with radar", target: "/api/v1/agenda/week?date=2025-12-18&radar=true", wantFrom: "2025-12-15", wantTo: "2025-12-21", wantEntries: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newAgendaHandler(snapshotOf(agendaSnapshot()), nil), http.MethodGet, tt.target, "")

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
			}
			var result struct {
				Shape   string              `json:"shape"`
				From    string              `json:"from"`
				To      string              `json:"to"`
				Entries []model.AgendaEntry `json:"entries"`
			}
			if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if result.From != tt.wantFrom || result.To != tt.wantTo {
				t.Errorf("window %s..%s, want %s..%s", result.From, result.To, tt.wantFrom, tt.wantTo)
			}
			if len(result.Entries) != tt.wantEntries {
				t.Errorf("expected %d entries, got %d", tt.wantEntries, len(result.Entries))
			}
		})
	}
}

func TestAgendaHandler_RadarEntryHasNullDate(t *testing.T) {
	w := serve(newAgendaHandler(snapshotOf(agendaSnapshot()), nil), http.MethodGet, "/api/v1/agenda/today?radar=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var raw struct {
		Entries []map[string]any `json:"entries"`
	}
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	last := raw.Entries[len(raw.Entries)-1]
	if last["kind"] != "radar" {
		t.Fatalf("expected radar entry last, got %v", last)
	}
	if v, ok := last["date"]; !ok || v != nil {
		t.Errorf("expected explicit null date, got %v", v)
	}
}

func TestAgendaHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		expander   *recurrence.Expander
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{name: "days too large", method: http.MethodGet, target: "/api/v1/agenda/next?days=366", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "days"},
		{name: "days not a number", method: http.MethodGet, target: "/api/v1/agenda/next?days=two", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "days"},
		{name: "bad date", method: http.MethodGet, target: "/api/v1/agenda/today?date=2025-13-01", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "date"},
		{name: "unknown shape", method: http.MethodGet, target: "/api/v1/agenda/month", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "shape"},
		{name: "bad radar flag", method: http.MethodGet, target: "/api/v1/agenda/today?radar=sure", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "radar"},
		{name: "missing shape", method: http.MethodGet, target: "/api/v1/agenda", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "wrong method", method: http.MethodPost, target: "/api/v1/agenda/today", wantStatus: http.StatusMethodNotAllowed, wantCode: "METHOD_NOT_ALLOWED"},
		{name: "rule explosion", method: http.MethodGet, target: "/api/v1/agenda/next?days=365", expander: recurrence.NewExpander(3), wantStatus: http.StatusUnprocessableEntity, wantCode: "RULE_EXPLOSION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newAgendaHandler(snapshotOf(agendaSnapshot()), tt.expander), tt.method, tt.target, "")

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			body := decodeError(t, w)
			if body.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, body.Code)
			}
			if body.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, body.Field)
			}
		})
	}
}

func TestAgendaHandler_Overview(t *testing.T) {
	var reads int
	reader := snapshotOf(agendaSnapshot())
	inner := reader.snapshotFn
	reader.snapshotFn = func(ctx context.Context, userID string, withRadar bool) (model.Snapshot, error) {
		reads++
		return inner(ctx, userID, withRadar)
	}

	w := serve(newAgendaHandler(reader, nil), http.MethodGet, "/api/v1/agenda/overview?date=2025-12-18&days=30", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var result struct {
		DateRef string              `json:"date_ref"`
		Days    int                 `json:"days"`
		Today   []model.AgendaEntry `json:"today"`
		Next    []model.AgendaEntry `json:"next"`
		Radar   []model.AgendaEntry `json:"radar"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if result.DateRef != "2025-12-18" || result.Days != 30 {
		t.Errorf("unexpected header %s/%d", result.DateRef, result.Days)
	}
	if len(result.Today) != 1 || len(result.Next) != 2 || len(result.Radar) != 1 {
		t.Errorf("unexpected sizes today=%d next=%d radar=%d", len(result.Today), len(result.Next), len(result.Radar))
	}
	if reads != 1 {
		t.Errorf("expected one snapshot read, got %d", reads)
	}
}
