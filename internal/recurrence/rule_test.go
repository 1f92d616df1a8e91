package recurrence_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jaekwang-park/agenda-api/internal/recurrence"
)

func TestParse_Canonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"monthly day", "FREQ=MONTHLY;BYMONTHDAY=13", "FREQ=MONTHLY;BYMONTHDAY=13"},
		{"prefix and lower case", "rrule:freq=monthly;bymonthday=13", "FREQ=MONTHLY;BYMONTHDAY=13"},
		{"interval one dropped", "FREQ=DAILY;INTERVAL=1", "FREQ=DAILY"},
		{"weekdays sorted from monday", "FREQ=WEEKLY;BYDAY=FR,MO,MO", "FREQ=WEEKLY;BYDAY=MO,FR"},
		{"ordinal weekday", "FREQ=MONTHLY;BYDAY=-1FR", "FREQ=MONTHLY;BYDAY=-1FR"},
		{"months sorted", "FREQ=YEARLY;BYMONTH=12,3;BYMONTHDAY=1", "FREQ=YEARLY;BYMONTH=3,12;BYMONTHDAY=1"},
		{"until date", "FREQ=WEEKLY;INTERVAL=2;UNTIL=20261231", "FREQ=WEEKLY;INTERVAL=2;UNTIL=20261231"},
		{"until timestamp truncated", "FREQ=DAILY;UNTIL=20261231T235959Z", "FREQ=DAILY;UNTIL=20261231"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := recurrence.Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rule.String(); got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.input, got, tt.want)
			}

			again, err := recurrence.Parse(rule.String())
			if err != nil {
				t.Fatalf("canonical form does not parse: %v", err)
			}
			if again.String() != rule.String() {
				t.Errorf("canonical form is not stable: %q vs %q", again.String(), rule.String())
			}
		})
	}
}

func TestParse_Fields(t *testing.T) {
	rule, err := recurrence.Parse("FREQ=MONTHLY;INTERVAL=2;BYDAY=2TU")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.Freq != recurrence.Monthly {
		t.Errorf("expected monthly, got %s", rule.Freq)
	}
	if rule.Interval != 2 {
		t.Errorf("expected interval 2, got %d", rule.Interval)
	}
	if len(rule.ByWeekday) != 1 || rule.ByWeekday[0] != (recurrence.WeekdayRule{Weekday: time.Tuesday, N: 2}) {
		t.Errorf("unexpected weekdays: %+v", rule.ByWeekday)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "every 13th of the month"},
		{"missing freq", "BYMONTHDAY=13"},
		{"hourly", "FREQ=HOURLY"},
		{"count", "FREQ=DAILY;COUNT=10"},
		{"bysetpos", "FREQ=MONTHLY;BYDAY=MO,TU;BYSETPOS=1"},
		{"byyearday", "FREQ=YEARLY;BYYEARDAY=100"},
		{"byhour", "FREQ=DAILY;BYHOUR=9"},
		{"month out of range", "FREQ=YEARLY;BYMONTH=13"},
		{"month day out of range", "FREQ=MONTHLY;BYMONTHDAY=32"},
		{"weekly with month day", "FREQ=WEEKLY;BYMONTHDAY=1"},
		{"weekly ordinal", "FREQ=WEEKLY;BYDAY=2MO"},
		{"yearly ordinal without month", "FREQ=YEARLY;BYDAY=1MO"},
		{"huge interval", "FREQ=DAILY;INTERVAL=100000"},
		{"sunday week start", "FREQ=WEEKLY;WKST=SU"},
		{"multi line", "DTSTART:20250101T000000Z\nRRULE:FREQ=DAILY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := recurrence.Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			var ruleErr *recurrence.InvalidRuleError
			if !errors.As(err, &ruleErr) {
				t.Fatalf("expected InvalidRuleError, got %T: %v", err, err)
			}
			if ruleErr.Rule != tt.input {
				t.Errorf("expected error to carry rule %q, got %q", tt.input, ruleErr.Rule)
			}
		})
	}
}
