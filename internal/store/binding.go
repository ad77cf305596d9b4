package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Binding maps a finger count to a plugin action.
type Binding struct {
	ID         string          `json:"id"`
	Fingers    int             `json:"fingers"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Params     json.RawMessage `json:"params,omitempty"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Create inserts a new binding. An ID is assigned if empty.
func (r *BindingRepository) Create(b *Binding) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	params := b.Params
	if params == nil {
		params = json.RawMessage("{}")
	}

	enabled := 0
	if b.Enabled {
		enabled = 1
	}

	_, err := r.db.Exec(
		`INSERT INTO bindings (id, fingers, plugin_name, action_name, params, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Fingers, b.PluginName, b.ActionName, string(params), enabled, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	return r.get(`SELECT id, fingers, plugin_name, action_name, params, enabled, created_at, updated_at
		 FROM bindings WHERE id = ?`, id)
}

// GetByFingers retrieves the binding for a finger count.
// Returns nil, nil when no binding exists for the count.
func (r *BindingRepository) GetByFingers(fingers int) (*Binding, error) {
	b, err := r.get(`SELECT id, fingers, plugin_name, action_name, params, enabled, created_at, updated_at
		 FROM bindings WHERE fingers = ?`, fingers)
	if errors.Is(err, ErrNotFound) {
		return nil, nil // Silent skip - unbound count
	}
	return b, err
}

func (r *BindingRepository) get(query string, arg interface{}) (*Binding, error) {
	b := &Binding{}
	var params string
	var enabled int

	err := r.db.QueryRow(query, arg).Scan(
		&b.ID, &b.Fingers, &b.PluginName, &b.ActionName, &params, &enabled, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	b.Params = json.RawMessage(params)
	b.Enabled = enabled != 0
	return b, nil
}

// List retrieves all bindings ordered by finger count.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(
		`SELECT id, fingers, plugin_name, action_name, params, enabled, created_at, updated_at
		 FROM bindings ORDER BY fingers ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b := &Binding{}
		var params string
		var enabled int

		err := rows.Scan(&b.ID, &b.Fingers, &b.PluginName, &b.ActionName, &params, &enabled, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}

		b.Params = json.RawMessage(params)
		b.Enabled = enabled != 0
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}

// Update updates an existing binding.
func (r *BindingRepository) Update(b *Binding) error {
	params := b.Params
	if params == nil {
		params = json.RawMessage("{}")
	}

	enabled := 0
	if b.Enabled {
		enabled = 1
	}

	b.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE bindings SET fingers = ?, plugin_name = ?, action_name = ?, params = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		b.Fingers, b.PluginName, b.ActionName, string(params), enabled, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SeedDefaults inserts the default finger-count bindings when the
// bindings table is empty. Existing bindings are left untouched.
func (r *BindingRepository) SeedDefaults() error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM bindings`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []Binding{
		{Fingers: 0, PluginName: "mediakeys", ActionName: "pause", Enabled: true},
		{Fingers: 1, PluginName: "mediakeys", ActionName: "next", Enabled: true},
		{Fingers: 2, PluginName: "mediakeys", ActionName: "previous", Enabled: true},
		{Fingers: 3, PluginName: "volume", ActionName: "volume_up", Enabled: true},
		{Fingers: 4, PluginName: "volume", ActionName: "volume_down", Enabled: true},
		{Fingers: 5, PluginName: "mediakeys", ActionName: "play", Enabled: true},
	}

	for i := range defaults {
		if err := r.Create(&defaults[i]); err != nil {
			return err
		}
	}

	return nil
}
