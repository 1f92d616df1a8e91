package recurrence

import (
	"slices"
	"time"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
)

// DefaultMaxCandidates bounds the candidate dates a single expansion may
// consider. Every visited period counts at least once, so rules whose
// qualifiers never match still terminate.
const DefaultMaxCandidates = 2000

// Expander turns a Rule into concrete dates inside a window.
// It holds only configuration and is safe for concurrent use.
type Expander struct {
	maxCandidates int
}

func NewExpander(maxCandidates int) *Expander {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Expander{maxCandidates: maxCandidates}
}

func (e *Expander) MaxCandidates() int {
	return e.maxCandidates
}

// Expand returns the dates produced by rule anchored at anchor that fall in
// [from, to], in strictly ascending order. Dates before anchor or after the
// rule's UNTIL are never returned. Expansion starts at the first period that
// can intersect the window rather than at the anchor.
func (e *Expander) Expand(rule Rule, anchor, from, to calendar.Date) ([]calendar.Date, error) {
	if err := rule.validate(rule.String()); err != nil {
		return nil, err
	}

	lo := calendar.Max(from, anchor)
	hi := to
	if rule.Until != nil {
		hi = calendar.Min(hi, *rule.Until)
	}
	if hi.Before(lo) {
		return []calendar.Date{}, nil
	}

	r := rule.withDefaults(anchor)
	step := r.interval()
	origin := r.periodStart(anchor)
	first := ceilDiv(r.periodsBetween(origin, lo), step)
	last := r.periodsBetween(origin, hi) / step

	explosion := &RuleExplosionError{Rule: rule.String(), Limit: e.maxCandidates, From: from, To: to}
	if last-first+1 > e.maxCandidates {
		return nil, explosion
	}

	out := []calendar.Date{}
	considered := 0
	for k := first; k <= last; k++ {
		candidates := r.candidates(r.advance(origin, k*step))
		considered += max(1, len(candidates))
		if considered > e.maxCandidates {
			return nil, explosion
		}
		for _, d := range candidates {
			if d.Before(lo) || d.After(hi) {
				continue
			}
			out = append(out, d)
		}
	}
	return out, nil
}

var defaultExpander = NewExpander(DefaultMaxCandidates)

// Expand runs rule through an expander with the default candidate bound.
func Expand(rule Rule, anchor, from, to calendar.Date) ([]calendar.Date, error) {
	return defaultExpander.Expand(rule, anchor, from, to)
}

// withDefaults fills the qualifiers RRULE derives from the anchor date.
func (r Rule) withDefaults(anchor calendar.Date) Rule {
	out := r
	switch r.Freq {
	case Weekly:
		if len(r.ByWeekday) == 0 {
			out.ByWeekday = []WeekdayRule{{Weekday: anchor.Weekday()}}
		}
	case Monthly:
		if len(r.ByMonthDay) == 0 && len(r.ByWeekday) == 0 {
			out.ByMonthDay = []int{anchor.Day()}
		}
	case Yearly:
		if len(r.ByMonthDay) == 0 && len(r.ByWeekday) == 0 {
			if len(r.ByMonth) == 0 {
				out.ByMonth = []time.Month{anchor.Month()}
			}
			out.ByMonthDay = []int{anchor.Day()}
		}
	}
	return out
}

func (r Rule) interval() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

func (r Rule) periodStart(d calendar.Date) calendar.Date {
	switch r.Freq {
	case Weekly:
		return d.MondayOnOrBefore()
	case Monthly:
		return calendar.New(d.Year(), d.Month(), 1)
	case Yearly:
		return calendar.New(d.Year(), time.January, 1)
	default:
		return d
	}
}

// periodsBetween counts whole periods from origin (a period start) to the
// period containing d.
func (r Rule) periodsBetween(origin, d calendar.Date) int {
	switch r.Freq {
	case Weekly:
		return origin.DaysUntil(d.MondayOnOrBefore()) / 7
	case Monthly:
		return (d.Year()-origin.Year())*12 + int(d.Month()) - int(origin.Month())
	case Yearly:
		return d.Year() - origin.Year()
	default:
		return origin.DaysUntil(d)
	}
}

func (r Rule) advance(origin calendar.Date, n int) calendar.Date {
	switch r.Freq {
	case Weekly:
		return origin.AddDays(7 * n)
	case Monthly:
		return calendar.New(origin.Year(), origin.Month()+time.Month(n), 1)
	case Yearly:
		return calendar.New(origin.Year()+n, time.January, 1)
	default:
		return origin.AddDays(n)
	}
}

// candidates lists the dates of the period starting at start that satisfy
// every qualifier, ascending.
func (r Rule) candidates(start calendar.Date) []calendar.Date {
	switch r.Freq {
	case Daily:
		if r.monthAllowed(start.Month()) && r.monthDayAllowed(start) && r.weekdayAllowed(start) {
			return []calendar.Date{start}
		}
		return nil
	case Weekly:
		var out []calendar.Date
		for i := 0; i < 7; i++ {
			d := start.AddDays(i)
			if r.monthAllowed(d.Month()) && r.weekdayAllowed(d) {
				out = append(out, d)
			}
		}
		return out
	case Monthly:
		if !r.monthAllowed(start.Month()) {
			return nil
		}
		return r.monthDates(start.Year(), start.Month())
	default:
		var out []calendar.Date
		for m := time.January; m <= time.December; m++ {
			if r.monthAllowed(m) {
				out = append(out, r.monthDates(start.Year(), m)...)
			}
		}
		return out
	}
}

func (r Rule) monthDates(year int, month time.Month) []calendar.Date {
	n := calendar.DaysIn(year, month)
	var days []int

	switch {
	case len(r.ByMonthDay) > 0:
		for _, v := range r.ByMonthDay {
			day := v
			if v < 0 {
				day = n + 1 + v
			}
			if day < 1 || day > n {
				continue
			}
			if len(r.ByWeekday) > 0 && !r.weekdayInMonth(calendar.New(year, month, day), n) {
				continue
			}
			days = append(days, day)
		}
	case len(r.ByWeekday) > 0:
		for day := 1; day <= n; day++ {
			if r.weekdayInMonth(calendar.New(year, month, day), n) {
				days = append(days, day)
			}
		}
	}

	slices.Sort(days)
	days = slices.Compact(days)
	out := make([]calendar.Date, len(days))
	for i, day := range days {
		out[i] = calendar.New(year, month, day)
	}
	return out
}

func (r Rule) monthAllowed(m time.Month) bool {
	return len(r.ByMonth) == 0 || slices.Contains(r.ByMonth, m)
}

func (r Rule) monthDayAllowed(d calendar.Date) bool {
	if len(r.ByMonthDay) == 0 {
		return true
	}
	n := calendar.DaysIn(d.Year(), d.Month())
	for _, v := range r.ByMonthDay {
		if v == d.Day() || (v < 0 && n+1+v == d.Day()) {
			return true
		}
	}
	return false
}

// weekdayAllowed ignores ordinals; they are only valid inside months.
func (r Rule) weekdayAllowed(d calendar.Date) bool {
	if len(r.ByWeekday) == 0 {
		return true
	}
	for _, wd := range r.ByWeekday {
		if wd.Weekday == d.Weekday() {
			return true
		}
	}
	return false
}

func (r Rule) weekdayInMonth(d calendar.Date, daysInMonth int) bool {
	nth := (d.Day()-1)/7 + 1
	fromEnd := -((daysInMonth-d.Day())/7 + 1)
	for _, wd := range r.ByWeekday {
		if wd.Weekday != d.Weekday() {
			continue
		}
		if wd.N == 0 || wd.N == nth || wd.N == fromEnd {
			return true
		}
	}
	return false
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
