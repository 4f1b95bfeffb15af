// Package sqlite persists events in a single SQLite database file.
//
// Each event is stored as its JSON record in the data column; the date
// column repeats the start instant as a fixed-width UTC string so rows
// can be ordered and range-filtered without decoding every record.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sauravbhattacharya001/everything/event"
	"github.com/sauravbhattacharya001/everything/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id   TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
`

// dateLayout keeps a fixed fraction width so lexicographic order on the
// date column matches chronological order.
const dateLayout = "2006-01-02 15:04:05.000000000"

// Store implements storage.Store on a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the database at path, creating the file and schema when
// missing. A nil logger discards diagnostics.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "opening database",
			Err:     err,
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "creating schema",
			Err:     err,
		}
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func dateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func (s *Store) GetEvent(ctx context.Context, id string) (event.Event, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM events WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return event.Event{}, &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "event not found",
		}
	}
	if err != nil {
		return event.Event{}, &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "reading event",
			Err:     err,
		}
	}

	var ev event.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return event.Event{}, &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "decoding stored event",
			Err:     err,
		}
	}
	return ev, nil
}

func (s *Store) ListEvents(ctx context.Context, opts *storage.ListOptions) ([]event.Event, error) {
	query := `SELECT id, data FROM events`
	var (
		clauses []string
		args    []any
	)
	if opts != nil && opts.From != nil {
		clauses = append(clauses, `date >= ?`)
		args = append(args, dateKey(*opts.From))
	}
	if opts != nil && opts.To != nil {
		clauses = append(clauses, `date < ?`)
		args = append(args, dateKey(*opts.To))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "listing events",
			Err:     err,
		}
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, &storage.Error{
				Type:    storage.ErrInvalidInput,
				Message: "scanning event row",
				Err:     err,
			}
		}
		var ev event.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.Warn("skipping corrupt event row", "id", id, "error", err)
			continue
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "listing events",
			Err:     err,
		}
	}
	return events, nil
}

func (s *Store) CreateEvent(ctx context.Context, ev *event.Event) error {
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
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "encoding event",
			Err:     err,
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO events(id, date, data) VALUES (?, ?, ?)`,
		ev.ID, dateKey(ev.Date), data)
	if err != nil {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "inserting event",
			Err:     err,
		}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &storage.Error{
			Type:    storage.ErrAlreadyExists,
			Message: "event already exists",
		}
	}
	return nil
}

func (s *Store) UpdateEvent(ctx context.Context, ev event.Event) error {
	if ev.Date.IsZero() {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "event date is required",
		}
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "encoding event",
			Err:     err,
		}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET date = ?, data = ? WHERE id = ?`,
		dateKey(ev.Date), data, ev.ID)
	if err != nil {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "updating event",
			Err:     err,
		}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "event not found",
		}
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "deleting event",
			Err:     err,
		}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "event not found",
		}
	}
	return nil
}
