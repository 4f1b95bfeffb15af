package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
)

// icalTimeLayout is the zone-less RFC 5545 local date-time form.
const icalTimeLayout = "20060102T150405"

// ICalFrequency returns the RFC 5545 FREQ name: DAILY, WEEKLY, MONTHLY or
// YEARLY.
func (f Frequency) ICalFrequency() string {
	return strings.ToUpper(string(f))
}

// RRule serializes the rule as an RFC 5545 RRULE value. The part order is
// fixed: FREQ always, INTERVAL only when greater than 1, UNTIL only when
// an end date is set (as local wall-clock time, matching DTSTART).
func (r Rule) RRule() string {
	var b strings.Builder
	b.WriteString("FREQ=")
	b.WriteString(r.Frequency.ICalFrequency())
	if r.Interval > 1 {
		fmt.Fprintf(&b, ";INTERVAL=%d", r.Interval)
	}
	if r.Until != nil {
		b.WriteString(";UNTIL=")
		b.WriteString(r.Until.Format(icalTimeLayout))
	}
	return b.String()
}

// ToRRule converts the rule into a teambition/rrule-go rule anchored at
// start, for callers that feed standard iCalendar engines. Note the edge
// semantics differ for monthly and yearly rules: RFC expansion skips
// months that lack the anchor day, while Occurrences clamps to the end of
// the month.
func (r Rule) ToRRule(start time.Time) (*rrule.RRule, error) {
	opt := rrule.ROption{
		Freq:     r.Frequency.rruleFreq(),
		Interval: r.Interval,
		Dtstart:  start,
	}
	if r.Until != nil {
		opt.Until = *r.Until
	}
	return rrule.NewRRule(opt)
}

func (f Frequency) rruleFreq() rrule.Frequency {
	switch f {
	case Weekly:
		return rrule.WEEKLY
	case Monthly:
		return rrule.MONTHLY
	case Yearly:
		return rrule.YEARLY
	default:
		return rrule.DAILY
	}
}

// FromRRuleString parses an RFC 5545 RRULE value into a Rule. Zone-less
// UNTIL values are interpreted as local time. Patterns this model cannot
// represent (COUNT, BY* parts, sub-daily frequencies) yield None rather
// than a lossy approximation.
func FromRRuleString(s string) mo.Option[Rule] {
	opt, err := rrule.StrToROptionInLocation(strings.TrimSpace(s), time.Local)
	if err != nil {
		return mo.None[Rule]()
	}
	var freq Frequency
	switch opt.Freq {
	case rrule.DAILY:
		freq = Daily
	case rrule.WEEKLY:
		freq = Weekly
	case rrule.MONTHLY:
		freq = Monthly
	case rrule.YEARLY:
		freq = Yearly
	default:
		return mo.None[Rule]()
	}
	if opt.Count > 0 || len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 0 ||
		len(opt.Bymonth) > 0 || len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 ||
		len(opt.Bysetpos) > 0 || len(opt.Byhour) > 0 || len(opt.Byminute) > 0 ||
		len(opt.Bysecond) > 0 || len(opt.Byeaster) > 0 {
		return mo.None[Rule]()
	}
	interval := opt.Interval
	if interval == 0 {
		interval = 1
	}
	var until *time.Time
	if !opt.Until.IsZero() {
		u := opt.Until
		until = &u
	}
	rule, err := New(freq, interval, until)
	if err != nil {
		return mo.None[Rule]()
	}
	return mo.Some(rule)
}
