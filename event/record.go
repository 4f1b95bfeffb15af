package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sauravbhattacharya001/everything/recurrence"
	"github.com/sauravbhattacharya001/everything/reminder"
)

// MarshalJSON serializes the event as its persisted record shape. An
// invalid priority is normalized to the default so stored records always
// carry a known level.
func (e Event) MarshalJSON() ([]byte, error) {
	priority := e.Priority
	if !priority.Valid() {
		priority = DefaultPriority
	}
	rec := struct {
		ID          string            `json:"id"`
		Title       string            `json:"title"`
		Description string            `json:"description,omitempty"`
		Date        string            `json:"date"`
		Priority    string            `json:"priority"`
		Tags        []Tag             `json:"tags,omitempty"`
		Recurrence  *recurrence.Rule  `json:"recurrence,omitempty"`
		Reminders   reminder.Settings `json:"reminders"`
	}{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.Format(time.RFC3339Nano),
		Priority:    string(priority),
		Tags:        e.Tags,
		Recurrence:  e.Recurrence,
		Reminders:   e.Reminders,
	}
	return json.Marshal(rec)
}

// UnmarshalJSON parses a persisted event record. Only a missing id or an
// unreadable date rejects the record; every other field degrades on its
// own: an unknown priority becomes the default, unreadable tag entries are
// skipped, a negative color index becomes 0, and malformed recurrence or
// reminder payloads decode to "none" and "empty" respectively.
func (e *Event) UnmarshalJSON(data []byte) error {
	var rec struct {
		ID          string            `json:"id"`
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Date        string            `json:"date"`
		Priority    string            `json:"priority"`
		Tags        []json.RawMessage `json:"tags"`
		Recurrence  json.RawMessage   `json:"recurrence"`
		Reminders   json.RawMessage   `json:"reminders"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.ID == "" {
		return fmt.Errorf("event record has no id")
	}
	date, err := recurrence.ParseDate(rec.Date)
	if err != nil {
		return fmt.Errorf("event %s: %w", rec.ID, err)
	}

	out := Event{
		ID:          rec.ID,
		Date:        date,
		Title:       rec.Title,
		Description: rec.Description,
		Priority:    PriorityFromName(rec.Priority),
	}
	for _, raw := range rec.Tags {
		var tag Tag
		if err := json.Unmarshal(raw, &tag); err != nil || tag.Name == "" {
			continue
		}
		if tag.ColorIndex < 0 {
			tag.ColorIndex = 0
		}
		out.Tags = append(out.Tags, tag)
	}
	if len(rec.Recurrence) > 0 {
		if rule, ok := recurrence.DecodeRule(rec.Recurrence).Get(); ok {
			out.Recurrence = &rule
		}
	}
	if len(rec.Reminders) > 0 {
		out.Reminders = reminder.DecodeSettings(rec.Reminders)
	}
	*e = out
	return nil
}
