package recurrence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/mo"
)

// MarshalJSON serializes the rule as the record shape stored with events:
// frequency name, interval, and an optional ISO 8601 endDate.
func (r Rule) MarshalJSON() ([]byte, error) {
	rec := struct {
		Frequency string `json:"frequency"`
		Interval  int    `json:"interval"`
		EndDate   string `json:"endDate,omitempty"`
	}{
		Frequency: string(r.Frequency),
		Interval:  r.Interval,
	}
	if r.Until != nil {
		rec.EndDate = r.Until.Format(time.RFC3339Nano)
	}
	return json.Marshal(rec)
}

// UnmarshalJSON parses and validates a rule record. A missing interval
// defaults to 1; an explicit interval below 1, an unknown frequency, or an
// unparsable endDate is an error.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var rec struct {
		Frequency string  `json:"frequency"`
		Interval  *int    `json:"interval"`
		EndDate   *string `json:"endDate"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	freq, err := ParseFrequency(rec.Frequency)
	if err != nil {
		return err
	}
	interval := 1
	if rec.Interval != nil {
		interval = *rec.Interval
	}
	var until *time.Time
	if rec.EndDate != nil && *rec.EndDate != "" {
		t, err := ParseDate(*rec.EndDate)
		if err != nil {
			return err
		}
		until = &t
	}
	rule, err := New(freq, interval, until)
	if err != nil {
		return err
	}
	*r = rule
	return nil
}

// DecodeRule parses a persisted recurrence payload. Any failure, from
// malformed JSON to an out-of-range interval, yields None: a record that
// cannot be understood is treated as having no rule.
func DecodeRule(data []byte) mo.Option[Rule] {
	var r Rule
	if err := json.Unmarshal(data, &r); err != nil {
		return mo.None[Rule]()
	}
	return mo.Some(r)
}

// ParseDate parses a record timestamp. RFC 3339 offsets are honored;
// zone-less forms written by the mobile client are interpreted in local
// time.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
