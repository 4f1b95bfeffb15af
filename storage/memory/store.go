// memory based implementation for testing purposes
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sauravbhattacharya001/everything/event"
	"github.com/sauravbhattacharya001/everything/storage"
)

// Store implements storage.Store using an in-memory map
type Store struct {
	mu     sync.RWMutex
	events map[string]event.Event
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		events: make(map[string]event.Event),
	}
}

// cloneEvent copies the fields that would otherwise be shared through the
// map, so callers cannot mutate stored state in place.
func cloneEvent(ev event.Event) event.Event {
	out := ev
	out.Tags = append([]event.Tag(nil), ev.Tags...)
	if ev.Recurrence != nil {
		rule := *ev.Recurrence
		out.Recurrence = &rule
	}
	return out
}

func (s *Store) GetEvent(_ context.Context, id string) (event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return event.Event{}, &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "event not found",
		}
	}

	return cloneEvent(ev), nil
}

func (s *Store) ListEvents(_ context.Context, opts *storage.ListOptions) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []event.Event
	for _, ev := range s.events {
		if opts != nil {
			if opts.From != nil && ev.Date.Before(*opts.From) {
				continue
			}
			if opts.To != nil && !ev.Date.Before(*opts.To) {
				continue
			}
		}
		events = append(events, cloneEvent(ev))
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].ID < events[j].ID
	})

	return events, nil
}

func (s *Store) CreateEvent(_ context.Context, ev *event.Event) error {
	if ev == nil {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "event is nil",
		}
	}
	if ev.Date.IsZero() {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "event date is required",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if _, exists := s.events[ev.ID]; exists {
		return &storage.Error{
			Type:    storage.ErrAlreadyExists,
			Message: "event already exists",
		}
	}

	s.events[ev.ID] = cloneEvent(*ev)

	return nil
}

func (s *Store) UpdateEvent(_ context.Context, ev event.Event) error {
	if ev.Date.IsZero() {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "event date is required",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[ev.ID]; !exists {
		return &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "event not found",
		}
	}

	s.events[ev.ID] = cloneEvent(ev)

	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[id]; !exists {
		return &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "event not found",
		}
	}

	delete(s.events, id)

	return nil
}

func (s *Store) Close() error { return nil }
