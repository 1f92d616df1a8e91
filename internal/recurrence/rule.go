package recurrence

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
)

const (
	maxInterval = 1000
	untilLayout = "20060102"
)

type Frequency int

const (
	Daily Frequency = iota + 1
	Weekly
	Monthly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case Monthly:
		return "MONTHLY"
	case Yearly:
		return "YEARLY"
	default:
		return "UNKNOWN"
	}
}

// WeekdayRule selects a weekday. A non-zero N restricts it to the Nth such
// weekday of the month, counting from the end when negative.
type WeekdayRule struct {
	Weekday time.Weekday
	N       int
}

var weekdayCodes = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

func (w WeekdayRule) String() string {
	if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
		return "?"
	}
	if w.N == 0 {
		return weekdayCodes[w.Weekday]
	}
	return strconv.Itoa(w.N) + weekdayCodes[w.Weekday]
}

// Rule is the closed subset of RRULE the expander understands:
// a frequency with optional month, day-of-month and weekday qualifiers.
type Rule struct {
	Freq       Frequency
	Interval   int
	ByMonth    []time.Month
	ByMonthDay []int
	ByWeekday  []WeekdayRule
	Until      *calendar.Date
}

// Parse reads RRULE text such as "FREQ=MONTHLY;BYMONTHDAY=13".
// The "RRULE:" prefix is optional and keys are case-insensitive.
func Parse(text string) (Rule, error) {
	raw := strings.ToUpper(strings.TrimSpace(text))
	raw = strings.TrimPrefix(raw, "RRULE:")
	if raw == "" {
		return Rule{}, invalidRule(text, "rule is empty", nil)
	}
	if strings.ContainsAny(raw, "\r\n") {
		return Rule{}, invalidRule(text, "rule must be a single RRULE line", nil)
	}

	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return Rule{}, invalidRule(text, "cannot parse", err)
	}

	r, err := fromOption(text, opt)
	if err != nil {
		return Rule{}, err
	}
	if err := r.validate(text); err != nil {
		return Rule{}, err
	}
	return r.normalized(), nil
}

func fromOption(text string, opt *rrule.ROption) (Rule, error) {
	var r Rule

	switch opt.Freq {
	case rrule.DAILY:
		r.Freq = Daily
	case rrule.WEEKLY:
		r.Freq = Weekly
	case rrule.MONTHLY:
		r.Freq = Monthly
	case rrule.YEARLY:
		r.Freq = Yearly
	default:
		return Rule{}, invalidRule(text, "frequency must be DAILY, WEEKLY, MONTHLY or YEARLY", nil)
	}

	switch {
	case opt.Count != 0:
		return Rule{}, invalidRule(text, "COUNT is not supported, use UNTIL", nil)
	case !opt.Dtstart.IsZero():
		return Rule{}, invalidRule(text, "DTSTART is not supported, the task start date anchors the rule", nil)
	case len(opt.Bysetpos) > 0, len(opt.Byyearday) > 0, len(opt.Byweekno) > 0, len(opt.Byeaster) > 0:
		return Rule{}, invalidRule(text, "only BYMONTH, BYMONTHDAY and BYDAY qualifiers are supported", nil)
	case len(opt.Byhour) > 0, len(opt.Byminute) > 0, len(opt.Bysecond) > 0:
		return Rule{}, invalidRule(text, "time-of-day qualifiers are not supported", nil)
	case opt.Wkst.Day() != rrule.MO.Day():
		return Rule{}, invalidRule(text, "weeks always start on Monday", nil)
	}

	if opt.Interval < 0 {
		return Rule{}, invalidRule(text, "INTERVAL must be positive", nil)
	}
	r.Interval = opt.Interval

	for _, m := range opt.Bymonth {
		if m < 1 || m > 12 {
			return Rule{}, invalidRule(text, "BYMONTH values must be 1..12", nil)
		}
		r.ByMonth = append(r.ByMonth, time.Month(m))
	}
	r.ByMonthDay = append(r.ByMonthDay, opt.Bymonthday...)
	for _, wd := range opt.Byweekday {
		// rrule-go numbers weekdays from Monday.
		r.ByWeekday = append(r.ByWeekday, WeekdayRule{
			Weekday: time.Weekday((wd.Day() + 1) % 7),
			N:       wd.N(),
		})
	}

	if !opt.Until.IsZero() {
		until := calendar.FromTime(opt.Until)
		r.Until = &until
	}

	return r, nil
}

// validate checks the invariants Parse guarantees so hand-built rules are held
// to the same grammar.
func (r Rule) validate(text string) error {
	if r.Freq < Daily || r.Freq > Yearly {
		return invalidRule(text, "frequency must be DAILY, WEEKLY, MONTHLY or YEARLY", nil)
	}
	if r.Interval < 0 || r.Interval > maxInterval {
		return invalidRule(text, "INTERVAL must be between 1 and "+strconv.Itoa(maxInterval), nil)
	}
	for _, m := range r.ByMonth {
		if m < time.January || m > time.December {
			return invalidRule(text, "BYMONTH values must be 1..12", nil)
		}
	}
	for _, d := range r.ByMonthDay {
		if d == 0 || d < -31 || d > 31 {
			return invalidRule(text, "BYMONTHDAY values must be 1..31 or -31..-1", nil)
		}
	}
	if r.Freq == Weekly && len(r.ByMonthDay) > 0 {
		return invalidRule(text, "BYMONTHDAY cannot be combined with FREQ=WEEKLY", nil)
	}
	for _, wd := range r.ByWeekday {
		if wd.Weekday < time.Sunday || wd.Weekday > time.Saturday {
			return invalidRule(text, "unknown weekday in BYDAY", nil)
		}
		if wd.N == 0 {
			continue
		}
		switch {
		case wd.N < -5 || wd.N > 5:
			return invalidRule(text, "BYDAY ordinals must be between -5 and 5", nil)
		case r.Freq == Monthly:
		case r.Freq == Yearly && len(r.ByMonth) > 0:
		default:
			return invalidRule(text, "BYDAY ordinals need FREQ=MONTHLY, or FREQ=YEARLY with BYMONTH", nil)
		}
	}
	return nil
}

// normalized sorts and de-duplicates qualifiers so equal rules print equally.
func (r Rule) normalized() Rule {
	out := r
	if out.Interval == 0 {
		out.Interval = 1
	}
	out.ByMonth = slices.Compact(slices.Sorted(slices.Values(r.ByMonth)))
	out.ByMonthDay = slices.Compact(slices.Sorted(slices.Values(r.ByMonthDay)))
	out.ByWeekday = slices.Clone(r.ByWeekday)
	slices.SortFunc(out.ByWeekday, func(a, b WeekdayRule) int {
		if a.N != b.N {
			return a.N - b.N
		}
		return weekdayIndex(a.Weekday) - weekdayIndex(b.Weekday)
	})
	out.ByWeekday = slices.Compact(out.ByWeekday)
	return out
}

// weekdayIndex orders weekdays Monday first.
func weekdayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// String renders the rule in canonical RRULE form, the representation stored
// alongside recurring tasks.
func (r Rule) String() string {
	var b strings.Builder
	b.WriteString("FREQ=")
	b.WriteString(r.Freq.String())
	if r.Interval > 1 {
		b.WriteString(";INTERVAL=")
		b.WriteString(strconv.Itoa(r.Interval))
	}
	if len(r.ByMonth) > 0 {
		b.WriteString(";BYMONTH=")
		b.WriteString(joinInts(r.ByMonth, func(m time.Month) int { return int(m) }))
	}
	if len(r.ByMonthDay) > 0 {
		b.WriteString(";BYMONTHDAY=")
		b.WriteString(joinInts(r.ByMonthDay, func(d int) int { return d }))
	}
	if len(r.ByWeekday) > 0 {
		parts := make([]string, len(r.ByWeekday))
		for i, wd := range r.ByWeekday {
			parts[i] = wd.String()
		}
		b.WriteString(";BYDAY=")
		b.WriteString(strings.Join(parts, ","))
	}
	if r.Until != nil {
		b.WriteString(";UNTIL=")
		b.WriteString(r.Until.Time().Format(untilLayout))
	}
	return b.String()
}

func joinInts[T any](vals []T, conv func(T) int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(conv(v))
	}
	return strings.Join(parts, ",")
}
