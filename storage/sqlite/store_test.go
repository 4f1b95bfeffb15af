package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauravbhattacharya001/everything/event"
	"github.com/sauravbhattacharya001/everything/recurrence"
	"github.com/sauravbhattacharya001/everything/reminder"
	"github.com/sauravbhattacharya001/everything/storage"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "events.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fullEvent(t *testing.T) event.Event {
	t.Helper()
	until := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
	rule, err := recurrence.New(recurrence.Weekly, 2, &until)
	require.NoError(t, err)
	return event.Event{
		ID:          "evt-1",
		Date:        time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Title:       "Team Meeting",
		Description: "Weekly sync",
		Priority:    event.PriorityHigh,
		Tags:        []event.Tag{{Name: "work", ColorIndex: 2}, {Name: "recurring", ColorIndex: 0}},
		Recurrence:  &rule,
		Reminders:   reminder.NewSettings(reminder.FifteenMinutes, reminder.OneDay),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	ev := fullEvent(t)
	require.NoError(t, store.CreateEvent(ctx, &ev))

	got, err := store.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, got.Equal(ev), "got %+v, want %+v", got, ev)
}

func TestStoreCreateDuplicate(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	ev := fullEvent(t)
	require.NoError(t, store.CreateEvent(ctx, &ev))

	dup := fullEvent(t)
	err := store.CreateEvent(ctx, &dup)
	require.Error(t, err)
	assert.True(t, storage.IsAlreadyExists(err))
}

func TestStoreCreateAssignsID(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	ev := event.Event{Date: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, store.CreateEvent(ctx, &ev))
	require.NotEmpty(t, ev.ID)

	_, err := store.GetEvent(ctx, ev.ID)
	assert.NoError(t, err)
}

func TestStoreCreateRequiresDate(t *testing.T) {
	store := openTest(t)

	err := store.CreateEvent(context.Background(), &event.Event{Title: "no date"})
	require.Error(t, err)
	assert.True(t, storage.Is(err, storage.ErrInvalidInput))
}

func TestStoreGetMissing(t *testing.T) {
	store := openTest(t)

	_, err := store.GetEvent(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, storage.IsNotFound(err))
}

func TestStoreUpdate(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	ev := fullEvent(t)
	require.NoError(t, store.CreateEvent(ctx, &ev))

	ev.Title = "Moved Meeting"
	ev.Date = ev.Date.AddDate(0, 0, 3)
	require.NoError(t, store.UpdateEvent(ctx, ev))

	got, err := store.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Moved Meeting", got.Title)
	assert.True(t, got.Date.Equal(ev.Date))

	missing := ev
	missing.ID = "missing"
	err = store.UpdateEvent(ctx, missing)
	require.Error(t, err)
	assert.True(t, storage.IsNotFound(err))
}

func TestStoreDelete(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	ev := fullEvent(t)
	require.NoError(t, store.CreateEvent(ctx, &ev))
	require.NoError(t, store.DeleteEvent(ctx, ev.ID))

	_, err := store.GetEvent(ctx, ev.ID)
	assert.True(t, storage.IsNotFound(err))

	err = store.DeleteEvent(ctx, ev.ID)
	require.Error(t, err)
	assert.True(t, storage.IsNotFound(err))
}

func TestStoreListOrderAndRange(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	dates := map[string]time.Time{
		"c": time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC),
		"a": time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
		"b": time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
	}
	for id, d := range dates {
		ev := event.Event{ID: id, Date: d, Title: id}
		require.NoError(t, store.CreateEvent(ctx, &ev))
	}

	all, err := store.ListEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "c", all[2].ID)

	from := dates["b"]
	to := dates["c"]
	ranged, err := store.ListEvents(ctx, &storage.ListOptions{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1, "from is inclusive, to is exclusive")
	assert.Equal(t, "b", ranged[0].ID)
}

func TestStoreListSkipsCorruptRows(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	ev := fullEvent(t)
	require.NoError(t, store.CreateEvent(ctx, &ev))

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO events(id, date, data) VALUES (?, ?, ?)`,
		"corrupt", dateKey(ev.Date.Add(time.Hour)), `{"title": truncated`)
	require.NoError(t, err)

	events, err := store.ListEvents(ctx, nil)
	require.NoError(t, err, "one bad row must not fail the listing")
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)

	_, err = store.GetEvent(ctx, "corrupt")
	require.Error(t, err)
	assert.True(t, storage.Is(err, storage.ErrInvalidInput))
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	ctx := context.Background()

	store, err := Open(path, nil)
	require.NoError(t, err)
	ev := fullEvent(t)
	require.NoError(t, store.CreateEvent(ctx, &ev))
	require.NoError(t, store.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, got.Equal(ev))
}

func TestStoreKeepsInstantAcrossZones(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	zone := time.FixedZone("UTC+8", 8*3600)
	ev := event.Event{
		ID:    "zoned",
		Date:  time.Date(2026, 3, 15, 22, 30, 0, 0, zone),
		Title: "Evening call",
	}
	require.NoError(t, store.CreateEvent(ctx, &ev))

	got, err := store.GetEvent(ctx, "zoned")
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(ev.Date), "stored and loaded dates must be the same instant")
}
