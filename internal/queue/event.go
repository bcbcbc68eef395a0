// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// RecordCompletedEvent is published when a user logs a habit as
// completed for a day. It carries enough for downstream consumers to
// log or aggregate without querying the primary database.
type RecordCompletedEvent struct {
	RecordID    uint64 `json:"record_id"`
	HabitID     uint64 `json:"habit_id"`
	HabitName   string `json:"habit_name"`
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	Day         string `json:"day"`
	CompletedAt string `json:"completed_at"`
}
