package ics

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/sauravbhattacharya001/everything/event"
	"github.com/sauravbhattacharya001/everything/recurrence"
)

// Importer decodes iCalendar documents back into events. It is tolerant
// of foreign producers: whatever a VEVENT carries beyond the event model
// is ignored, and a VEVENT that cannot be read at all is logged and
// skipped rather than failing the batch.
type Importer struct {
	logger    *slog.Logger
	uidDomain string
}

// NewImporter creates an importer. A nil logger discards diagnostics.
func NewImporter(logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Importer{
		logger:    logger,
		uidDomain: DefaultExporterConfig().UIDDomain,
	}
}

// Import reads one iCalendar document and returns the events it could
// understand, in document order. A document-level decode failure is an
// error; a single unreadable VEVENT only drops that event.
func (im *Importer) Import(r io.Reader) ([]event.Event, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding calendar: %w", err)
	}

	var events []event.Event
	for _, comp := range cal.Events() {
		ev, err := im.eventFromComponent(comp)
		if err != nil {
			im.logger.Warn("skipping unreadable event",
				"uid", propValue(comp, ical.PropUID),
				"error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (im *Importer) eventFromComponent(comp ical.Event) (event.Event, error) {
	var ev event.Event

	date, err := comp.Props.DateTime(ical.PropDateTimeStart, time.Local)
	if err != nil {
		return ev, fmt.Errorf("unreadable DTSTART: %w", err)
	}
	if date.IsZero() {
		return ev, fmt.Errorf("event has no DTSTART")
	}
	ev.Date = date

	if uid := propValue(comp, ical.PropUID); uid != "" {
		ev.ID = strings.TrimSuffix(uid, "@"+im.uidDomain)
	} else {
		ev.ID = uuid.New().String()
	}

	if title, err := comp.Props.Text(ical.PropSummary); err == nil {
		ev.Title = title
	}

	ev.Priority = event.DefaultPriority
	if v := propValue(comp, ical.PropPriority); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			ev.Priority = priorityFromICal(n)
		}
	}

	if v := propValue(comp, ical.PropCategories); v != "" {
		for _, raw := range splitList(v) {
			name := unescapeText(raw)
			if name == "" {
				continue
			}
			ev.Tags = append(ev.Tags, event.Tag{Name: name})
		}
	}

	if desc, err := comp.Props.Text(ical.PropDescription); err == nil && desc != "" {
		ev.Description = stripGeneratedLines(desc)
	}

	if v := propValue(comp, ical.PropRecurrenceRule); v != "" {
		if rule, ok := recurrence.FromRRuleString(v).Get(); ok {
			ev.Recurrence = &rule
		} else {
			im.logger.Warn("dropping unsupported RRULE", "uid", ev.ID, "rrule", v)
		}
	}

	return ev, nil
}

func propValue(comp ical.Event, name string) string {
	if prop := comp.Props.Get(name); prop != nil {
		return prop.Value
	}
	return ""
}

// stripGeneratedLines removes the trailing "Tags:" and "Priority:" lines
// the exporter appends to DESCRIPTION, recovering the original free text.
func stripGeneratedLines(desc string) string {
	lines := strings.Split(desc, "\n")
	if n := len(lines); n > 0 && strings.HasPrefix(lines[n-1], "Priority: ") {
		lines = lines[:n-1]
	}
	if n := len(lines); n > 0 && strings.HasPrefix(lines[n-1], "Tags: ") {
		lines = lines[:n-1]
	}
	return strings.Join(lines, "\n")
}

// priorityFromICal maps the RFC 5545 0..9 scale back onto the four model
// levels. Zero means undefined and becomes the default.
func priorityFromICal(n int) event.Priority {
	switch {
	case n <= 0:
		return event.DefaultPriority
	case n <= 2:
		return event.PriorityUrgent
	case n <= 4:
		return event.PriorityHigh
	case n <= 6:
		return event.PriorityMedium
	default:
		return event.PriorityLow
	}
}
