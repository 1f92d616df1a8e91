package agenda

import (
	"github.com/jaekwang-park/agenda-api/internal/calendar"
)

type Shape string

const (
	ShapeToday Shape = "today"
	ShapeNext  Shape = "next"
	ShapeWeek  Shape = "week"
)

const (
	MinDays     = 1
	MaxDays     = 365
	DefaultDays = 14
)

func ParseShape(s string) (Shape, error) {
	switch sh := Shape(s); sh {
	case ShapeToday, ShapeNext, ShapeWeek:
		return sh, nil
	default:
		return "", invalid("shape", "must be one of today, next, week")
	}
}

// Window is an inclusive range of calendar dates.
type Window struct {
	From calendar.Date `json:"from"`
	To   calendar.Date `json:"to"`
}

func (w Window) Contains(d calendar.Date) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

// ResolveWindow computes the window a query shape covers around ref.
// days is only consulted for ShapeNext and must be within MinDays..MaxDays.
func ResolveWindow(shape Shape, ref calendar.Date, days int) (Window, error) {
	if ref.IsZero() {
		return Window{}, invalid("date", "reference date is required")
	}

	switch shape {
	case ShapeToday:
		return Window{From: ref, To: ref}, nil
	case ShapeNext:
		if days < MinDays || days > MaxDays {
			return Window{}, invalid("days", "must be between %d and %d, got %d", MinDays, MaxDays, days)
		}
		return Window{From: ref, To: ref.AddDays(days - 1)}, nil
	case ShapeWeek:
		monday := ref.MondayOnOrBefore()
		return Window{From: monday, To: monday.AddDays(6)}, nil
	default:
		return Window{}, invalid("shape", "unknown shape %q", shape)
	}
}
