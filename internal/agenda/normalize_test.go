package agenda_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jaekwang-park/agenda-api/internal/agenda"
	"github.com/jaekwang-park/agenda-api/internal/calendar"
	"github.com/jaekwang-park/agenda-api/internal/model"
	"github.com/jaekwang-park/agenda-api/internal/recurrence"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func datePtr(s string) *calendar.Date {
	d := calendar.MustParse(s)
	return &d
}

func TestNormalizeTask_OneOff(t *testing.T) {
	task, err := agenda.NormalizeTask(agenda.TaskPayload{
		UserID:   "user-1",
		Title:    "  Pay rent  ",
		Notes:    " transfer ",
		Priority: intPtr(2),
		DueDate:  datePtr("2025-12-18"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Kind != model.TaskKindOneOff {
		t.Errorf("expected one_off, got %s", task.Kind)
	}
	if task.Title != "Pay rent" || task.Notes != "transfer" {
		t.Errorf("expected trimmed text, got %q / %q", task.Title, task.Notes)
	}
	if task.Priority != 2 {
		t.Errorf("expected priority 2, got %d", task.Priority)
	}
	if task.DueDate == nil || task.DueDate.String() != "2025-12-18" {
		t.Errorf("unexpected due date %v", task.DueDate)
	}
	if task.Rule != "" || task.StartDate != nil {
		t.Errorf("one-off task carries recurring fields: %+v", task)
	}
}

func TestNormalizeTask_Recurring(t *testing.T) {
	task, err := agenda.NormalizeTask(agenda.TaskPayload{
		UserID:    "user-1",
		Title:     "Water plants",
		Rule:      strPtr("rrule:freq=monthly;bymonthday=13"),
		StartDate: datePtr("2025-12-16"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Kind != model.TaskKindRecurring {
		t.Errorf("expected recurring, got %s", task.Kind)
	}
	if task.Rule != "FREQ=MONTHLY;BYMONTHDAY=13" {
		t.Errorf("expected canonical rule, got %q", task.Rule)
	}
	if task.Priority != model.PriorityDefault {
		t.Errorf("expected default priority, got %d", task.Priority)
	}
	if task.DueDate != nil || task.IsDone {
		t.Errorf("recurring task carries one-off fields: %+v", task)
	}
}

func TestNormalizeTask_Rejects(t *testing.T) {
	due := datePtr("2025-12-18")
	start := datePtr("2025-12-16")
	rule := strPtr("FREQ=DAILY")

	tests := []struct {
		name      string
		payload   agenda.TaskPayload
		wantField string
	}{
		{"priority above range", agenda.TaskPayload{UserID: "u", Title: "x", Priority: intPtr(6), DueDate: due}, "priority"},
		{"priority zero", agenda.TaskPayload{UserID: "u", Title: "x", Priority: intPtr(0), DueDate: due}, "priority"},
		{"empty title", agenda.TaskPayload{UserID: "u", Title: "   ", DueDate: due}, "title"},
		{"long title", agenda.TaskPayload{UserID: "u", Title: strings.Repeat("a", 241), DueDate: due}, "title"},
		{"both modes", agenda.TaskPayload{UserID: "u", Title: "x", DueDate: due, Rule: rule, StartDate: start}, "rule"},
		{"neither mode", agenda.TaskPayload{UserID: "u", Title: "x"}, "due_date"},
		{"blank rule only", agenda.TaskPayload{UserID: "u", Title: "x", Rule: strPtr(" ")}, "due_date"},
		{"one-off with start date", agenda.TaskPayload{UserID: "u", Title: "x", DueDate: due, StartDate: start}, "start_date"},
		{"recurring without start date", agenda.TaskPayload{UserID: "u", Title: "x", Rule: rule}, "start_date"},
		{"missing user", agenda.TaskPayload{Title: "x", DueDate: due}, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := agenda.NormalizeTask(tt.payload)
			var vErr *agenda.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, vErr.Field)
			}
		})
	}
}

func TestNormalizeTask_InvalidRule(t *testing.T) {
	_, err := agenda.NormalizeTask(agenda.TaskPayload{
		UserID:    "u",
		Title:     "x",
		Rule:      strPtr("every 13th of the month"),
		StartDate: datePtr("2025-12-16"),
	})
	var ruleErr *recurrence.InvalidRuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected InvalidRuleError, got %v", err)
	}
}

func TestNormalizeTitle_CountsCharacters(t *testing.T) {
	title := strings.Repeat("é", agenda.MaxTitleLength)
	if _, err := agenda.NormalizeTitle(title); err != nil {
		t.Errorf("expected %d multi-byte characters to be accepted: %v", agenda.MaxTitleLength, err)
	}
}

func TestNormalizeRadarItem(t *testing.T) {
	item, err := agenda.NormalizeRadarItem(agenda.RadarPayload{UserID: "u", Title: " Read book "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Title != "Read book" || item.Priority != model.PriorityDefault {
		t.Errorf("unexpected item %+v", item)
	}

	_, err = agenda.NormalizeRadarItem(agenda.RadarPayload{UserID: "u", Title: "x", Priority: intPtr(9)})
	var vErr *agenda.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "priority" {
		t.Errorf("expected priority ValidationError, got %v", err)
	}
}
