package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauravbhattacharya001/everything/recurrence"
	"github.com/sauravbhattacharya001/everything/reminder"
)

func weeklyRule(t *testing.T) *recurrence.Rule {
	t.Helper()
	rule, err := recurrence.New(recurrence.Weekly, 1, nil)
	require.NoError(t, err)
	return &rule
}

func TestEventOccurrences(t *testing.T) {
	anchor := Event{
		ID:          "evt-1",
		Date:        time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Title:       "Team Meeting",
		Description: "Weekly sync",
		Priority:    PriorityHigh,
		Tags:        []Tag{{Name: "work", ColorIndex: 2}},
		Recurrence:  weeklyRule(t),
		Reminders:   reminder.NewSettings(reminder.ThirtyMinutes),
	}

	got := anchor.Occurrences(4)
	require.Len(t, got, 3, "max counts the anchor, which is dropped")

	wantIDs := []string{"evt-1_1", "evt-1_2", "evt-1_3"}
	for i, occ := range got {
		assert.Equal(t, wantIDs[i], occ.ID)
		assert.True(t, occ.Date.Equal(anchor.Date.AddDate(0, 0, 7*(i+1))),
			"occurrence %d should be %d days after the anchor", i, 7*(i+1))
		assert.Equal(t, anchor.Title, occ.Title)
		assert.Equal(t, anchor.Description, occ.Description)
		assert.Equal(t, anchor.Priority, occ.Priority)
		assert.Equal(t, anchor.Tags, occ.Tags)
		assert.True(t, occ.Reminders.Equal(anchor.Reminders))
	}

	assert.Equal(t, "evt-1", anchor.ID, "the anchor itself never changes")
}

func TestEventOccurrencesWithoutRule(t *testing.T) {
	ev := Event{ID: "solo", Date: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	assert.Empty(t, ev.Occurrences(10))
}

func TestEventOccurrencesMaxOne(t *testing.T) {
	ev := Event{
		ID:         "evt-2",
		Date:       time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		Recurrence: weeklyRule(t),
	}
	assert.Empty(t, ev.Occurrences(1), "only the anchor fits, so nothing is derived")
	assert.Empty(t, ev.Occurrences(0))
}

func TestEventOccurrencesCopiesAreIndependent(t *testing.T) {
	ev := Event{
		ID:         "evt-3",
		Date:       time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		Tags:       []Tag{{Name: "home", ColorIndex: 1}},
		Recurrence: weeklyRule(t),
	}

	got := ev.Occurrences(2)
	require.Len(t, got, 1)

	got[0].Tags[0].Name = "changed"
	assert.Equal(t, "home", ev.Tags[0].Name, "tag slices must not be shared")
}

func TestEventOccurrencesRespectsEndDate(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	until := start.AddDate(0, 0, 14)
	rule, err := recurrence.New(recurrence.Weekly, 1, &until)
	require.NoError(t, err)

	ev := Event{ID: "evt-4", Date: start, Recurrence: &rule}

	got := ev.Occurrences(52)
	require.Len(t, got, 2)
	assert.True(t, got[1].Date.Equal(until))
}

func TestPriorityFromName(t *testing.T) {
	tests := []struct {
		input string
		want  Priority
	}{
		{"low", PriorityLow},
		{"medium", PriorityMedium},
		{"high", PriorityHigh},
		{"urgent", PriorityUrgent},
		{"HIGH", PriorityHigh},
		{"", DefaultPriority},
		{"critical", DefaultPriority},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PriorityFromName(tt.input), "input %q", tt.input)
	}
}

func TestPriorityLabel(t *testing.T) {
	assert.Equal(t, "Low", PriorityLow.Label())
	assert.Equal(t, "Medium", PriorityMedium.Label())
	assert.Equal(t, "High", PriorityHigh.Label())
	assert.Equal(t, "Urgent", PriorityUrgent.Label())
}

func TestEventEqual(t *testing.T) {
	date := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	base := Event{
		ID:       "evt-1",
		Date:     date,
		Title:    "Dentist",
		Priority: PriorityMedium,
		Tags:     []Tag{{Name: "health", ColorIndex: 3}},
	}

	same := base
	same.Date = date.In(time.FixedZone("UTC+1", 3600))
	same.Tags = []Tag{{Name: "health", ColorIndex: 3}}
	assert.True(t, base.Equal(same))

	different := base
	different.Title = "Dentist (moved)"
	assert.False(t, base.Equal(different))

	withRule := base
	withRule.Recurrence = weeklyRule(t)
	assert.False(t, base.Equal(withRule))
}
