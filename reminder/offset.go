// Package reminder models per-event reminder lead times: a fixed menu of
// offsets and the pure operations performed on an event's set of them.
package reminder

import (
	"fmt"
	"time"
)

// Offset is one of the fixed lead times a reminder can fire at, named the
// way event records store them.
type Offset string

const (
	AtTime         Offset = "atTime"
	FiveMinutes    Offset = "fiveMinutes"
	TenMinutes     Offset = "tenMinutes"
	FifteenMinutes Offset = "fifteenMinutes"
	ThirtyMinutes  Offset = "thirtyMinutes"
	OneHour        Offset = "oneHour"
	TwoHours       Offset = "twoHours"
	OneDay         Offset = "oneDay"
	OneWeek        Offset = "oneWeek"
)

// ordered lists every offset by increasing duration; pickers and summaries
// rely on this ordering.
var ordered = []Offset{
	AtTime, FiveMinutes, TenMinutes, FifteenMinutes, ThirtyMinutes,
	OneHour, TwoHours, OneDay, OneWeek,
}

var durations = map[Offset]time.Duration{
	AtTime:         0,
	FiveMinutes:    5 * time.Minute,
	TenMinutes:     10 * time.Minute,
	FifteenMinutes: 15 * time.Minute,
	ThirtyMinutes:  30 * time.Minute,
	OneHour:        time.Hour,
	TwoHours:       2 * time.Hour,
	OneDay:         24 * time.Hour,
	OneWeek:        7 * 24 * time.Hour,
}

var labels = map[Offset]string{
	AtTime:         "At time of event",
	FiveMinutes:    "5 minutes before",
	TenMinutes:     "10 minutes before",
	FifteenMinutes: "15 minutes before",
	ThirtyMinutes:  "30 minutes before",
	OneHour:        "1 hour before",
	TwoHours:       "2 hours before",
	OneDay:         "1 day before",
	OneWeek:        "1 week before",
}

// Offsets returns every known offset ordered by increasing duration.
func Offsets() []Offset {
	out := make([]Offset, len(ordered))
	copy(out, ordered)
	return out
}

// ParseOffset maps a stored offset name to its Offset value.
func ParseOffset(name string) (Offset, error) {
	o := Offset(name)
	if !o.Valid() {
		return "", fmt.Errorf("unknown reminder offset %q", name)
	}
	return o, nil
}

// Valid reports whether o is one of the nine known offsets.
func (o Offset) Valid() bool {
	_, ok := durations[o]
	return ok
}

// Duration returns how far ahead of the event the reminder fires.
func (o Offset) Duration() time.Duration {
	return durations[o]
}

// Label returns the display name, e.g. "30 minutes before".
func (o Offset) Label() string {
	if s, ok := labels[o]; ok {
		return s
	}
	return string(o)
}

func (o Offset) String() string { return string(o) }
