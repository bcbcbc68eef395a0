package repository

import (
	"context"
	"database/sql"
	"time"
)

// Goal is a per-habit target: how many completions per week the user is
// aiming for. Goals share their owner with the habit they target.
type Goal struct {
	ID            uint64    `json:"id"`
	OwnerID       uint64    `json:"-"`
	HabitID       uint64    `json:"habit_id"`
	TargetPerWeek int       `json:"target_per_week"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OwnedBy satisfies auth.Owned.
func (g Goal) OwnedBy() uint64 { return g.OwnerID }

type GoalRepo struct{ DB *sql.DB }

func NewGoalRepo(db *sql.DB) *GoalRepo { return &GoalRepo{DB: db} }

// Create inserts a goal and fills in its new ID.
func (r *GoalRepo) Create(ctx context.Context, g *Goal) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO goals (owner_id, habit_id, target_per_week, note) VALUES (?,?,?,?)",
		g.OwnerID, g.HabitID, g.TargetPerWeek, g.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// GetByID fetches a goal regardless of owner; callers run the ownership
// guard on the result.
func (r *GoalRepo) GetByID(ctx context.Context, id uint64) (Goal, error) {
	var g Goal
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,owner_id,habit_id,target_per_week,note,created_at,updated_at FROM goals WHERE id=? LIMIT 1",
		id).
		Scan(&g.ID, &g.OwnerID, &g.HabitID, &g.TargetPerWeek, &g.Note, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return Goal{}, ErrNotFound
	}
	return g, err
}

// ListByOwner returns all goals of the given user.
func (r *GoalRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]Goal, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,owner_id,habit_id,target_per_week,note,created_at,updated_at FROM goals WHERE owner_id=? ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []Goal{}
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.HabitID, &g.TargetPerWeek, &g.Note, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Update rewrites the target and note, filtered by owner.
func (r *GoalRepo) Update(ctx context.Context, id, ownerID uint64, target int, note string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE goals SET target_per_week=?, note=? WHERE id=? AND owner_id=?",
		target, note, id, ownerID)
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

// Delete removes the goal.
func (r *GoalRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM goals WHERE id=? AND owner_id=?", id, ownerID)
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
