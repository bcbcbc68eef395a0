package repository

import (
	"context"
	"database/sql"
	"time"
)

// DailyRecord marks one habit as completed on one calendar day. Day is
// stored as a DATE and carried as "2006-01-02"; at most one record
// exists per habit per day, enforced by a unique key.
type DailyRecord struct {
	ID        uint64    `json:"id"`
	OwnerID   uint64    `json:"-"`
	HabitID   uint64    `json:"habit_id"`
	Day       string    `json:"day"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy satisfies auth.Owned.
func (d DailyRecord) OwnedBy() uint64 { return d.OwnerID }

type RecordRepo struct{ DB *sql.DB }

func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{DB: db} }

// Upsert logs a completion for the habit on the given day. Logging the
// same day twice updates the note instead of failing, so re-submitting
// a form is harmless.
func (r *RecordRepo) Upsert(ctx context.Context, rec *DailyRecord) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO daily_records (owner_id, habit_id, day, note) VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE note=VALUES(note), id=LAST_INSERT_ID(id)`,
		rec.OwnerID, rec.HabitID, rec.Day, rec.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// ListByHabit returns the completion records of one habit, newest day
// first.
func (r *RecordRepo) ListByHabit(ctx context.Context, habitID uint64) ([]DailyRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,owner_id,habit_id,DATE_FORMAT(day,'%Y-%m-%d'),note,created_at FROM daily_records WHERE habit_id=? ORDER BY day DESC",
		habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []DailyRecord{}
	for rows.Next() {
		var d DailyRecord
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.HabitID, &d.Day, &d.Note, &d.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, d)
	}
	return records, rows.Err()
}
