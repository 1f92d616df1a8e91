package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jaekwang-park/agenda-api/internal/agenda"
	"github.com/jaekwang-park/agenda-api/internal/calendar"
)

// TodayFunc reports the current calendar date. It is only consulted when a
// request leaves its reference date out.
type TodayFunc func() calendar.Date

// SystemToday reads the wall clock in loc.
func SystemToday(loc *time.Location) TodayFunc {
	return func() calendar.Date {
		return calendar.Today(time.Now(), loc)
	}
}

// SnapshotInvalidator drops cached reads for a user after a write.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, string) {}

func parseDate(field string, s *string) (*calendar.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := calendar.Parse(*s)
	if err != nil {
		return nil, &agenda.ValidationError{Field: field, Message: fmt.Sprintf("expected YYYY-MM-DD, got %q", *s)}
	}
	return &d, nil
}
