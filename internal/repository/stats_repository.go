package repository

import (
	"context"
	"database/sql"
)

// HabitSummary aggregates one habit's completion counts for the
// dashboard: total completions and completions over the last seven
// days. Aggregation is always scoped by the acting user's ID.
type HabitSummary struct {
	HabitID   uint64 `json:"habit_id"`
	Name      string `json:"name"`
	Total     int    `json:"total_completions"`
	LastSeven int    `json:"last_7_days"`
}

type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// Summary returns the per-habit completion counts for one user. The
// owner filter comes from the authenticated principal; the query never
// accepts a caller-supplied user id.
func (r *StatsRepo) Summary(ctx context.Context, ownerID uint64) ([]HabitSummary, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT h.id, h.name,
		        COUNT(d.id),
		        COALESCE(SUM(d.day >= CURDATE() - INTERVAL 7 DAY), 0)
		 FROM habits h
		 LEFT JOIN daily_records d ON d.habit_id = h.id
		 WHERE h.owner_id = ?
		 GROUP BY h.id, h.name
		 ORDER BY h.created_at DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []HabitSummary{}
	for rows.Next() {
		var s HabitSummary
		if err := rows.Scan(&s.HabitID, &s.Name, &s.Total, &s.LastSeven); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
