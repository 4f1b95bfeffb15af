package reminder

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/samber/mo"
)

// Settings is an event's set of reminder offsets. The zero value is the
// empty set. Settings values are immutable: Add, Remove and Toggle return
// a new value, always de-duplicated and sorted by increasing duration.
type Settings struct {
	offsets []Offset
}

// NewSettings builds a Settings from the given offsets, dropping
// duplicates and unknown values.
func NewSettings(offsets ...Offset) Settings {
	return normalize(offsets)
}

// DefaultSettings returns the settings a new event starts with: no
// reminders.
func DefaultSettings() Settings {
	return Settings{}
}

func normalize(offsets []Offset) Settings {
	seen := make(map[Offset]bool, len(offsets))
	out := make([]Offset, 0, len(offsets))
	for _, o := range offsets {
		if !o.Valid() || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Duration() < out[j].Duration()
	})
	return Settings{offsets: out}
}

// Offsets returns the configured offsets in duration order.
func (s Settings) Offsets() []Offset {
	out := make([]Offset, len(s.offsets))
	copy(out, s.offsets)
	return out
}

// Len returns the number of configured reminders.
func (s Settings) Len() int { return len(s.offsets) }

// Contains reports whether the offset is configured.
func (s Settings) Contains(o Offset) bool {
	for _, have := range s.offsets {
		if have == o {
			return true
		}
	}
	return false
}

// Add returns a Settings with the offset present.
func (s Settings) Add(o Offset) Settings {
	return normalize(append(s.Offsets(), o))
}

// Remove returns a Settings with the offset absent.
func (s Settings) Remove(o Offset) Settings {
	out := make([]Offset, 0, len(s.offsets))
	for _, have := range s.offsets {
		if have != o {
			out = append(out, have)
		}
	}
	return Settings{offsets: out}
}

// Toggle returns a Settings with the offset flipped.
func (s Settings) Toggle(o Offset) Settings {
	if s.Contains(o) {
		return s.Remove(o)
	}
	return s.Add(o)
}

// NotificationTimes returns the instants reminders fire for an event at
// eventDate, keeping only those strictly after now, in ascending order.
func (s Settings) NotificationTimes(eventDate, now time.Time) []time.Time {
	times := make([]time.Time, 0, len(s.offsets))
	for _, o := range s.offsets {
		at := eventDate.Add(-o.Duration())
		if at.After(now) {
			times = append(times, at)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

// NextNotificationTime returns the soonest pending reminder instant, or
// None when every reminder is already in the past.
func (s Settings) NextNotificationTime(eventDate, now time.Time) mo.Option[time.Time] {
	times := s.NotificationTimes(eventDate, now)
	if len(times) == 0 {
		return mo.None[time.Time]()
	}
	return mo.Some(times[0])
}

// Equal reports whether both settings hold the same offsets.
func (s Settings) Equal(other Settings) bool {
	if len(s.offsets) != len(other.offsets) {
		return false
	}
	for i := range s.offsets {
		if s.offsets[i] != other.offsets[i] {
			return false
		}
	}
	return true
}

// MarshalJSON serializes the settings as an array of offset names.
func (s Settings) MarshalJSON() ([]byte, error) {
	names := make([]string, len(s.offsets))
	for i, o := range s.offsets {
		names[i] = string(o)
	}
	return json.Marshal(names)
}

// UnmarshalJSON parses an array of offset names, rejecting unknown ones.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	offsets := make([]Offset, 0, len(names))
	for _, name := range names {
		o, err := ParseOffset(name)
		if err != nil {
			return err
		}
		offsets = append(offsets, o)
	}
	*s = normalize(offsets)
	return nil
}

// DecodeSettings parses a persisted reminder payload. Malformed JSON or an
// unknown offset name yields the empty settings.
func DecodeSettings(data []byte) Settings {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}
	}
	return s
}
