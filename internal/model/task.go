package model

import (
	"time"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
)

type TaskKind string

const (
	TaskKindOneOff    TaskKind = "one_off"
	TaskKindRecurring TaskKind = "recurring"
)

func (k TaskKind) IsValid() bool {
	return k == TaskKindOneOff || k == TaskKindRecurring
}

const (
	PriorityHighest = 1
	PriorityLowest  = 5
	PriorityDefault = 3
)

// Task is either one-off (DueDate, IsDone) or recurring (Rule, StartDate).
type Task struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Notes     string         `json:"notes,omitempty"`
	Priority  int            `json:"priority"`
	Kind      TaskKind       `json:"kind"`
	DueDate   *calendar.Date `json:"due_date,omitempty"`
	IsDone    bool           `json:"is_done"`
	Rule      string         `json:"rule,omitempty"`
	StartDate *calendar.Date `json:"start_date,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (t Task) IsRecurring() bool {
	return t.Kind == TaskKindRecurring
}

type TaskListParams struct {
	UserID string
	Kind   *TaskKind
	IsDone *bool
}
