// Package recurrence implements the calendar math and recurring-event
// expansion used by the everything event model: month-aware date shifting
// with end-of-month clamping, bounded occurrence generation, and
// conversion to and from RFC 5545 RRULE values.
package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// Frequency identifies the unit a recurring event repeats in.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// ParseFrequency maps a frequency name to its Frequency value. Matching is
// case-insensitive.
func ParseFrequency(name string) (Frequency, error) {
	f := Frequency(strings.ToLower(name))
	if !f.Valid() {
		return "", fmt.Errorf("unknown frequency %q", name)
	}
	return f, nil
}

func (f Frequency) String() string { return string(f) }

// Valid reports whether f is one of the four supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// unit returns the singular noun used in summaries.
func (f Frequency) unit() string {
	switch f {
	case Daily:
		return "day"
	case Weekly:
		return "week"
	case Monthly:
		return "month"
	case Yearly:
		return "year"
	}
	return string(f)
}

// Rule describes how an event repeats: a frequency, an interval counted in
// units of that frequency, and an optional inclusive end date.
type Rule struct {
	Frequency Frequency
	Interval  int
	Until     *time.Time
}

// New validates and builds a Rule. The interval must be at least 1; an
// interval of zero must never reach the occurrence generator.
func New(freq Frequency, interval int, until *time.Time) (Rule, error) {
	if !freq.Valid() {
		return Rule{}, fmt.Errorf("unknown frequency %q", freq)
	}
	if interval < 1 {
		return Rule{}, fmt.Errorf("interval must be at least 1, got %d", interval)
	}
	return Rule{Frequency: freq, Interval: interval, Until: until}, nil
}

// next returns the occurrence following prev under this rule.
func (r Rule) next(prev time.Time) time.Time {
	interval := r.Interval
	if interval < 1 {
		// A hand-built literal could carry a zero interval; stepping by
		// zero would stall the generator.
		interval = 1
	}
	switch r.Frequency {
	case Weekly:
		return prev.AddDate(0, 0, 7*interval)
	case Monthly:
		return AddMonths(prev, interval)
	case Yearly:
		return AddMonths(prev, 12*interval)
	default:
		return prev.AddDate(0, 0, interval)
	}
}

// Occurrences expands the rule from start, returning at most max dates in
// ascending order. The first element is always start itself. Each later
// element steps from the previous one, so a monthly rule anchored on
// Jan 31 drifts to the clamped day and stays there: Feb 28, Mar 28, and so
// on. A computed date strictly after Until ends the expansion and is not
// included.
func (r Rule) Occurrences(start time.Time, max int) []time.Time {
	if max < 1 {
		return nil
	}
	dates := []time.Time{start}
	current := start
	for len(dates) < max {
		current = r.next(current)
		if r.Until != nil && current.After(*r.Until) {
			break
		}
		dates = append(dates, current)
	}
	return dates
}

// Summary renders the rule for display, e.g. "Every 2 weeks until Mar 15, 2026".
func (r Rule) Summary() string {
	var b strings.Builder
	if r.Interval == 1 {
		fmt.Fprintf(&b, "Every %s", r.Frequency.unit())
	} else {
		fmt.Fprintf(&b, "Every %d %ss", r.Interval, r.Frequency.unit())
	}
	if r.Until != nil {
		fmt.Fprintf(&b, " until %s", r.Until.Format("Jan 2, 2006"))
	}
	return b.String()
}

// Equal reports structural equality: same frequency, same interval, and
// the same end instant (or none on both sides).
func (r Rule) Equal(other Rule) bool {
	if r.Frequency != other.Frequency || r.Interval != other.Interval {
		return false
	}
	if (r.Until == nil) != (other.Until == nil) {
		return false
	}
	return r.Until == nil || r.Until.Equal(*other.Until)
}
