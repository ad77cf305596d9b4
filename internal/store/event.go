package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is a recognized gesture and the action it triggered.
type Event struct {
	ID        string    `json:"id"`
	Fingers   int       `json:"fingers"`
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository provides access to the gesture event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append records an event. An ID is assigned if empty.
func (r *EventRepository) Append(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, fingers, action, success, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Fingers, e.Action, success, e.CreatedAt,
	)
	return err
}

// Recent returns the most recent events, newest first.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, fingers, action, success, created_at
		 FROM events ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var success int

		if err := rows.Scan(&e.ID, &e.Fingers, &e.Action, &success, &e.CreatedAt); err != nil {
			return nil, err
		}

		e.Success = success != 0
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Prune deletes events older than the given age.
func (r *EventRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	result, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
