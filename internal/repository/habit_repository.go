package repository

import (
	"context"
	"database/sql"
	"time"
)

// Habit represents a recurring practice tracked by a single user. Each
// habit belongs to exactly one owner; cross-user access is rejected by
// the ownership guard in the handler layer.
type Habit struct {
	ID          uint64    `json:"id"`
	OwnerID     uint64    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy satisfies auth.Owned.
func (h Habit) OwnedBy() uint64 { return h.OwnerID }

type HabitRepo struct{ DB *sql.DB }

func NewHabitRepo(db *sql.DB) *HabitRepo { return &HabitRepo{DB: db} }

// Create inserts a habit for the owner and fills in its new ID.
func (r *HabitRepo) Create(ctx context.Context, h *Habit) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO habits (owner_id, name, description) VALUES (?,?,?)",
		h.OwnerID, h.Name, h.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID fetches a habit regardless of owner. Callers must run the
// ownership guard on the result before acting on it.
func (r *HabitRepo) GetByID(ctx context.Context, id uint64) (Habit, error) {
	var h Habit
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,owner_id,name,description,created_at,updated_at FROM habits WHERE id=? LIMIT 1",
		id).
		Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return Habit{}, ErrNotFound
	}
	return h, err
}

// ListByOwner returns all habits belonging to the given user, newest
// first. The owner id always comes from the authenticated principal,
// never from request input.
func (r *HabitRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]Habit, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,owner_id,name,description,created_at,updated_at FROM habits WHERE owner_id=? ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []Habit{}
	for rows.Next() {
		var h Habit
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// Update rewrites the habit's name and description. The owner filter in
// the WHERE clause is a second line of defense behind the handler's
// ownership check.
func (r *HabitRepo) Update(ctx context.Context, id, ownerID uint64, name, description string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE habits SET name=?, description=? WHERE id=? AND owner_id=?",
		name, description, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the habit and, via FK cascade, its records and goals.
func (r *HabitRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM habits WHERE id=? AND owner_id=?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
