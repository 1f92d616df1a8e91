package agenda

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
	"github.com/jaekwang-park/agenda-api/internal/model"
	"github.com/jaekwang-park/agenda-api/internal/recurrence"
)

// Assembler merges one-off tasks, recurring occurrences and radar items into
// a single ordered agenda. It keeps no state between calls.
type Assembler struct {
	expander *recurrence.Expander
}

func NewAssembler(expander *recurrence.Expander) *Assembler {
	if expander == nil {
		expander = recurrence.NewExpander(recurrence.DefaultMaxCandidates)
	}
	return &Assembler{expander: expander}
}

// Assemble builds the agenda for w. Completed one-off tasks are left out and
// every in-window occurrence of a recurring task is included. Radar items are
// appended undated; pass nil when radar was not requested.
//
// A recurring task whose rule fails to parse or expand fails the whole call;
// no partial agenda is returned.
func (a *Assembler) Assemble(tasks []model.Task, radar []model.RadarItem, w Window) ([]model.AgendaEntry, error) {
	entries := make([]model.AgendaEntry, 0, len(tasks)+len(radar))

	for _, t := range tasks {
		switch t.Kind {
		case model.TaskKindOneOff:
			if t.IsDone || t.DueDate == nil || !w.Contains(*t.DueDate) {
				continue
			}
			due := *t.DueDate
			entries = append(entries, taskEntry(t, model.EntryKindOneOff, &due))

		case model.TaskKindRecurring:
			if t.StartDate == nil {
				return nil, fmt.Errorf("recurring task %s has no start date", t.ID)
			}
			rule, err := recurrence.Parse(t.Rule)
			if err != nil {
				return nil, fmt.Errorf("task %s: %w", t.ID, err)
			}
			dates, err := a.expander.Expand(rule, *t.StartDate, w.From, w.To)
			if err != nil {
				return nil, fmt.Errorf("task %s: %w", t.ID, err)
			}
			for _, d := range dates {
				entry := taskEntry(t, model.EntryKindOccurrence, &d)
				entry.Rule = t.Rule
				entries = append(entries, entry)
			}

		default:
			return nil, fmt.Errorf("task %s has unknown kind %q", t.ID, t.Kind)
		}
	}

	for _, r := range radar {
		entries = append(entries, model.AgendaEntry{
			Kind:        model.EntryKindRadar,
			RadarItemID: r.ID,
			Title:       r.Title,
			Notes:       r.Notes,
			Priority:    r.Priority,
			CreatedAt:   r.CreatedAt,
		})
	}

	SortEntries(entries)
	return entries, nil
}

func taskEntry(t model.Task, kind model.EntryKind, date *calendar.Date) model.AgendaEntry {
	return model.AgendaEntry{
		Kind:      kind,
		TaskID:    t.ID,
		Title:     t.Title,
		Notes:     t.Notes,
		Priority:  t.Priority,
		Date:      date,
		CreatedAt: t.CreatedAt,
	}
}

// SortEntries orders entries by date (undated radar last), priority, title,
// then created_at descending for radar items and task id for everything else.
func SortEntries(entries []model.AgendaEntry) {
	slices.SortFunc(entries, CompareEntries)
}

func CompareEntries(a, b model.AgendaEntry) int {
	switch {
	case a.Date == nil && b.Date != nil:
		return 1
	case a.Date != nil && b.Date == nil:
		return -1
	case a.Date != nil && b.Date != nil:
		if c := a.Date.Compare(*b.Date); c != 0 {
			return c
		}
	}

	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}

	if a.Kind == model.EntryKindRadar && b.Kind == model.EntryKindRadar {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.RadarItemID, b.RadarItemID)
	}
	if c := strings.Compare(a.TaskID, b.TaskID); c != 0 {
		return c
	}
	return strings.Compare(string(a.Kind), string(b.Kind))
}
