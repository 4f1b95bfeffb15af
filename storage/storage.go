// Package storage defines the persistence contract for events and the
// error taxonomy shared by its backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sauravbhattacharya001/everything/event"
)

// Error types
type ErrorType string

const (
	ErrNotFound      ErrorType = "not_found"
	ErrAlreadyExists ErrorType = "already_exists"
	ErrInvalidInput  ErrorType = "invalid_input"
)

// Error represents a storage-related error
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err is a storage Error of the given type.
func Is(err error, t ErrorType) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.Type == t
}

// IsNotFound reports whether err marks a missing event.
func IsNotFound(err error) bool { return Is(err, ErrNotFound) }

// IsAlreadyExists reports whether err marks an id collision.
func IsAlreadyExists(err error) bool { return Is(err, ErrAlreadyExists) }

// ListOptions narrows ListEvents. A nil bound leaves that side open.
type ListOptions struct {
	// From keeps events starting at or after this instant.
	From *time.Time
	// To keeps events starting strictly before this instant.
	To *time.Time
}

// Store is the interface implemented by event storage backends.
//
// CreateEvent assigns a fresh id to an event whose ID field is empty and
// rejects an id that is already present. ListEvents returns events ordered
// by date, earliest first. All methods that name an id return an Error of
// type ErrNotFound when nothing carries it.
type Store interface {
	GetEvent(ctx context.Context, id string) (event.Event, error)
	ListEvents(ctx context.Context, opts *ListOptions) ([]event.Event, error)
	CreateEvent(ctx context.Context, ev *event.Event) error
	UpdateEvent(ctx context.Context, ev event.Event) error
	DeleteEvent(ctx context.Context, id string) error
	Close() error
}
