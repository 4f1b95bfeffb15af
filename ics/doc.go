// Package ics turns events into RFC 5545 iCalendar documents and reads
// them back.
//
// The Exporter is a pure serializer: it performs no I/O, never fails, and
// produces byte-stable output for a fixed clock. Every VEVENT carries the
// same property order (UID, DTSTAMP, DTSTART, DTEND, SUMMARY, DESCRIPTION,
// PRIORITY, CATEGORIES, RRULE), free-text values are escaped per RFC 5545
// §3.3.11, and every logical line is folded per §3.1 so no physical line
// exceeds 76 octets. DTSTART and DTEND are written as floating local
// times; only DTSTAMP is pinned to UTC.
//
// The Importer is the tolerant counterpart. It decodes documents with
// github.com/emersion/go-ical and keeps whatever it can understand:
// a VEVENT without a readable start time is logged and skipped, an RRULE
// pattern the recurrence model cannot represent is dropped from the event,
// and foreign UIDs are kept verbatim.
//
// Filename and (*Exporter).BulkFilename derive download names for single
// and whole-calendar exports; MIMEType is the matching media type.
package ics
