package ics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sauravbhattacharya001/everything/event"
)

// MIMEType is the media type of exported calendar documents.
const MIMEType = "text/calendar"

const (
	icalVersion   = "2.0"
	dtstampLayout = "20060102T150405Z"
	localLayout   = "20060102T150405"
	dateLayout    = "20060102"
)

// ExporterConfig controls document identity and the clock that stamps
// generated output.
type ExporterConfig struct {
	// ProductID names the generator in the PRODID property.
	ProductID string
	// UIDDomain is appended to event ids to form globally unique UIDs.
	UIDDomain string
	// Now supplies the current time for DTSTAMP and bulk filenames.
	Now func() time.Time
}

// DefaultExporterConfig returns the production configuration.
func DefaultExporterConfig() ExporterConfig {
	return ExporterConfig{
		ProductID: "-//Everything//Everything Calendar//EN",
		UIDDomain: "everything.app",
		Now:       time.Now,
	}
}

// Exporter renders events as RFC 5545 documents. It performs no I/O and
// never fails: any event value yields a well-formed document.
type Exporter struct {
	cfg ExporterConfig
}

// NewExporter creates an exporter with the default configuration.
func NewExporter() *Exporter {
	return NewExporterWithConfig(DefaultExporterConfig())
}

// NewExporterWithConfig creates an exporter, filling unset fields from
// DefaultExporterConfig.
func NewExporterWithConfig(cfg ExporterConfig) *Exporter {
	def := DefaultExporterConfig()
	if cfg.ProductID == "" {
		cfg.ProductID = def.ProductID
	}
	if cfg.UIDDomain == "" {
		cfg.UIDDomain = def.UIDDomain
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	return &Exporter{cfg: cfg}
}

// ExportOne renders a single event as a complete VCALENDAR document.
func (x *Exporter) ExportOne(ev event.Event) string {
	return x.ExportMany([]event.Event{ev})
}

// ExportMany renders the events as one VCALENDAR document, one VEVENT per
// event, in the order given.
func (x *Exporter) ExportMany(events []event.Event) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:"+icalVersion)
	writeLine(&b, "PRODID:"+x.cfg.ProductID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")
	for _, ev := range events {
		x.writeEvent(&b, ev)
	}
	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// writeEvent emits one VEVENT block. The property order is fixed so that
// output is byte-stable for a fixed clock.
func (x *Exporter) writeEvent(b *strings.Builder, ev event.Event) {
	writeLine(b, "BEGIN:VEVENT")
	writeLine(b, "UID:"+ev.ID+"@"+x.cfg.UIDDomain)
	writeLine(b, "DTSTAMP:"+x.cfg.Now().UTC().Format(dtstampLayout))
	writeLine(b, "DTSTART:"+ev.Date.Format(localLayout))
	writeLine(b, "DTEND:"+ev.Date.Add(time.Hour).Format(localLayout))
	writeLine(b, "SUMMARY:"+escapeText(ev.Title))
	if desc := describeEvent(ev); desc != "" {
		writeLine(b, "DESCRIPTION:"+desc)
	}
	writeLine(b, fmt.Sprintf("PRIORITY:%d", icalPriority(ev.Priority)))
	if len(ev.Tags) > 0 {
		writeLine(b, "CATEGORIES:"+categories(ev.Tags))
	}
	if ev.Recurrence != nil {
		writeLine(b, "RRULE:"+ev.Recurrence.RRule())
	}
	writeLine(b, "END:VEVENT")
}

// describeEvent assembles the DESCRIPTION value: the free text, a
// "Tags: a, b" line when tags exist, and always a closing
// "Priority: <Label>" line, newline-joined and then escaped so the joins
// become literal \n sequences. An event with neither description nor tags
// yields "" and the property is omitted entirely.
func describeEvent(ev event.Event) string {
	if ev.Description == "" && len(ev.Tags) == 0 {
		return ""
	}
	parts := make([]string, 0, 3)
	if ev.Description != "" {
		parts = append(parts, ev.Description)
	}
	if len(ev.Tags) > 0 {
		names := make([]string, len(ev.Tags))
		for i, tag := range ev.Tags {
			names[i] = tag.Name
		}
		parts = append(parts, "Tags: "+strings.Join(names, ", "))
	}
	parts = append(parts, "Priority: "+ev.Priority.Label())
	return escapeText(strings.Join(parts, "\n"))
}

// categories renders the CATEGORIES value: names escaped one by one, then
// comma-joined, so the bare commas separate values instead of being data.
func categories(tags []event.Tag) string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = escapeText(tag.Name)
	}
	return strings.Join(names, ",")
}

// icalPriority maps the four model levels onto the RFC 5545 1..9 scale,
// 1 being the most urgent.
func icalPriority(p event.Priority) int {
	switch p {
	case event.PriorityUrgent:
		return 1
	case event.PriorityHigh:
		return 3
	case event.PriorityLow:
		return 9
	default:
		return 5
	}
}

// writeLine folds one logical line and terminates every physical segment
// with CRLF.
func writeLine(b *strings.Builder, line string) {
	for _, segment := range foldLine(line) {
		b.WriteString(segment)
		b.WriteString("\r\n")
	}
}

var (
	nonWordOrSpace = regexp.MustCompile(`[^\w\s]+`)
	whitespaceChar = regexp.MustCompile(`\s`)
)

// Filename derives a download name from an event title: lower-cased,
// stripped of everything that is neither a word character nor whitespace,
// every whitespace character replaced with an underscore, truncated to 50
// characters, with "event" as the fallback for an empty result.
func Filename(title string) string {
	name := strings.ToLower(title)
	name = nonWordOrSpace.ReplaceAllString(name, "")
	name = whitespaceChar.ReplaceAllString(name, "_")
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = "event"
	}
	return name + ".ics"
}

// BulkFilename names a whole-calendar export, stamped with the current
// date: everything_events_YYYYMMDD.ics.
func (x *Exporter) BulkFilename() string {
	return "everything_events_" + x.cfg.Now().Format(dateLayout) + ".ics"
}
