package model

import (
	"time"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
)

type EntryKind string

const (
	EntryKindOneOff     EntryKind = "one_off"
	EntryKindOccurrence EntryKind = "occurrence"
	EntryKindRadar      EntryKind = "radar"
)

// AgendaEntry is the uniform view of a one-off task, an occurrence of a
// recurring task or a radar item. Date is nil only for radar entries.
type AgendaEntry struct {
	Kind        EntryKind      `json:"kind"`
	TaskID      string         `json:"task_id,omitempty"`
	RadarItemID string         `json:"radar_item_id,omitempty"`
	Title       string         `json:"title"`
	Notes       string         `json:"notes,omitempty"`
	Priority    int            `json:"priority"`
	Date        *calendar.Date `json:"date"`
	Rule        string         `json:"rule,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Snapshot holds one user's tasks and radar items read at a single point in time.
type Snapshot struct {
	Tasks      []Task      `json:"tasks"`
	RadarItems []RadarItem `json:"radar_items,omitempty"`
}
