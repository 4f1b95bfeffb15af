// Package event defines the calendar entry model: a dated item with a
// priority, colored tags, an optional recurrence rule, and reminder
// settings, plus the JSON record shape it is persisted in.
package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/sauravbhattacharya001/everything/recurrence"
	"github.com/sauravbhattacharya001/everything/reminder"
)

// Priority is the urgency level attached to an event.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is assumed when a record carries no usable priority.
const DefaultPriority = PriorityMedium

// Priorities returns the four levels from least to most urgent.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// PriorityFromName maps a stored priority name to its value, falling back
// to DefaultPriority on anything unknown.
func PriorityFromName(name string) Priority {
	p := Priority(strings.ToLower(name))
	if !p.Valid() {
		return DefaultPriority
	}
	return p
}

// Valid reports whether p is one of the four levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Label returns the display form: "Low", "Medium", "High" or "Urgent".
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	default:
		return "Medium"
	}
}

func (p Priority) String() string { return string(p) }

// Tag is a user-defined label with a palette color index.
type Tag struct {
	Name       string `json:"name"`
	ColorIndex int    `json:"colorIndex"`
}

// Event is a calendar entry. Date is the anchor occurrence; recurring
// events derive their later occurrences from it on demand.
type Event struct {
	ID          string
	Date        time.Time
	Title       string
	Description string
	Priority    Priority
	Tags        []Tag
	Recurrence  *recurrence.Rule
	Reminders   reminder.Settings
}

// Occurrences derives the display copies of a recurring event: the rule is
// expanded from the anchor date into at most max occurrences, the anchor
// itself is dropped, and every remaining date yields a copy with
// ID "<anchor>_<n>" (n counting from 1) and the shifted date. All other
// fields are copied unchanged. Events without a recurrence rule have no
// derived occurrences. The copies are display artifacts, never persisted.
func (e Event) Occurrences(max int) []Event {
	if e.Recurrence == nil {
		return nil
	}
	dates := e.Recurrence.Occurrences(e.Date, max)
	if len(dates) < 2 {
		return nil
	}
	out := make([]Event, 0, len(dates)-1)
	for i, d := range dates[1:] {
		occ := e
		occ.ID = fmt.Sprintf("%s_%d", e.ID, i+1)
		occ.Date = d
		occ.Tags = append([]Tag(nil), e.Tags...)
		rule := *e.Recurrence
		occ.Recurrence = &rule
		out = append(out, occ)
	}
	return out
}

// Equal reports structural equality, comparing dates by instant.
func (e Event) Equal(other Event) bool {
	if e.ID != other.ID || !e.Date.Equal(other.Date) || e.Title != other.Title ||
		e.Description != other.Description || e.Priority != other.Priority {
		return false
	}
	if len(e.Tags) != len(other.Tags) {
		return false
	}
	for i := range e.Tags {
		if e.Tags[i] != other.Tags[i] {
			return false
		}
	}
	if (e.Recurrence == nil) != (other.Recurrence == nil) {
		return false
	}
	if e.Recurrence != nil && !e.Recurrence.Equal(*other.Recurrence) {
		return false
	}
	return e.Reminders.Equal(other.Reminders)
}
