package agenda

import (
	"strings"
	"unicode/utf8"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
	"github.com/jaekwang-park/agenda-api/internal/model"
	"github.com/jaekwang-park/agenda-api/internal/recurrence"
)

const MaxTitleLength = 240

// TaskPayload is a raw create request. Exactly one of DueDate and Rule must be set.
type TaskPayload struct {
	UserID    string
	Title     string
	Notes     string
	Priority  *int
	DueDate   *calendar.Date
	Rule      *string
	StartDate *calendar.Date
}

type RadarPayload struct {
	UserID   string
	Title    string
	Notes    string
	Priority *int
}

// NormalizeTask validates p and classifies it as a one-off or recurring task.
// Recurring rules are stored in their canonical form. It performs no I/O.
func NormalizeTask(p TaskPayload) (model.Task, error) {
	if p.UserID == "" {
		return model.Task{}, invalid("user_id", "is required")
	}
	title, err := NormalizeTitle(p.Title)
	if err != nil {
		return model.Task{}, err
	}
	priority, err := resolvePriority(p.Priority)
	if err != nil {
		return model.Task{}, err
	}

	hasDue := p.DueDate != nil && !p.DueDate.IsZero()
	hasRule := p.Rule != nil && strings.TrimSpace(*p.Rule) != ""
	switch {
	case hasDue && hasRule:
		return model.Task{}, invalid("rule", "a task has either a due_date or a rule, not both")
	case !hasDue && !hasRule:
		return model.Task{}, invalid("due_date", "either a due_date or a rule is required")
	}

	task := model.Task{
		UserID:   p.UserID,
		Title:    title,
		Notes:    strings.TrimSpace(p.Notes),
		Priority: priority,
	}

	if hasDue {
		if p.StartDate != nil {
			return model.Task{}, invalid("start_date", "only recurring tasks have a start_date")
		}
		due := *p.DueDate
		task.Kind = model.TaskKindOneOff
		task.DueDate = &due
		return task, nil
	}

	if p.StartDate == nil || p.StartDate.IsZero() {
		return model.Task{}, invalid("start_date", "recurring tasks need a start_date")
	}
	rule, err := recurrence.Parse(*p.Rule)
	if err != nil {
		return model.Task{}, err
	}
	start := *p.StartDate
	task.Kind = model.TaskKindRecurring
	task.Rule = rule.String()
	task.StartDate = &start
	return task, nil
}

func NormalizeRadarItem(p RadarPayload) (model.RadarItem, error) {
	if p.UserID == "" {
		return model.RadarItem{}, invalid("user_id", "is required")
	}
	title, err := NormalizeTitle(p.Title)
	if err != nil {
		return model.RadarItem{}, err
	}
	priority, err := resolvePriority(p.Priority)
	if err != nil {
		return model.RadarItem{}, err
	}
	return model.RadarItem{
		UserID:   p.UserID,
		Title:    title,
		Notes:    strings.TrimSpace(p.Notes),
		Priority: priority,
	}, nil
}

// NormalizeTitle trims title and enforces 1..MaxTitleLength characters.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", invalid("title", "must be at most %d characters", MaxTitleLength)
	}
	return title, nil
}

// ValidatePriority rejects priorities outside 1..5. Values are never clamped.
func ValidatePriority(priority int) error {
	if priority < model.PriorityHighest || priority > model.PriorityLowest {
		return invalid("priority", "must be between %d and %d, got %d",
			model.PriorityHighest, model.PriorityLowest, priority)
	}
	return nil
}

func resolvePriority(p *int) (int, error) {
	if p == nil {
		return model.PriorityDefault, nil
	}
	if err := ValidatePriority(*p); err != nil {
		return 0, err
	}
	return *p, nil
}
