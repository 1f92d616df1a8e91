package recurrence

import (
	"fmt"

	"github.com/jaekwang-park/agenda-api/internal/calendar"
)

// InvalidRuleError reports a repetition rule that cannot be parsed or that
// uses parts of the RRULE grammar the expander does not support.
type InvalidRuleError struct {
	Rule   string
	Reason string
	Err    error
}

func (e *InvalidRuleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid repetition rule %q: %s: %v", e.Rule, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid repetition rule %q: %s", e.Rule, e.Reason)
}

func (e *InvalidRuleError) Unwrap() error {
	return e.Err
}

// RuleExplosionError is returned when expanding a rule over a window would
// consider more candidate dates than the expander allows.
type RuleExplosionError struct {
	Rule  string
	Limit int
	From  calendar.Date
	To    calendar.Date
}

func (e *RuleExplosionError) Error() string {
	return fmt.Sprintf("repetition rule %q exceeds %d candidate dates between %s and %s",
		e.Rule, e.Limit, e.From, e.To)
}

func invalidRule(rule, reason string, err error) *InvalidRuleError {
	return &InvalidRuleError{Rule: rule, Reason: reason, Err: err}
}
