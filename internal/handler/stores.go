package handler

import (
	"context"

	"github.com/aferreira/habitloop/internal/repository"
)

// The store interfaces below name exactly what each handler needs from
// the persistence layer. The concrete repositories implement them;
// tests substitute in-memory fakes, which is how the ownership checks
// in the handlers themselves stay testable without a database.

// HabitStore is implemented by *repository.HabitRepo.
type HabitStore interface {
	Create(ctx context.Context, h *repository.Habit) error
	GetByID(ctx context.Context, id uint64) (repository.Habit, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]repository.Habit, error)
	Update(ctx context.Context, id, ownerID uint64, name, description string) error
	Delete(ctx context.Context, id, ownerID uint64) error
}

// GoalStore is implemented by *repository.GoalRepo.
type GoalStore interface {
	Create(ctx context.Context, g *repository.Goal) error
	GetByID(ctx context.Context, id uint64) (repository.Goal, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]repository.Goal, error)
	Update(ctx context.Context, id, ownerID uint64, target int, note string) error
	Delete(ctx context.Context, id, ownerID uint64) error
}

// RecordStore is implemented by *repository.RecordRepo.
type RecordStore interface {
	Upsert(ctx context.Context, rec *repository.DailyRecord) error
	ListByHabit(ctx context.Context, habitID uint64) ([]repository.DailyRecord, error)
}

// StatsSource is implemented by *repository.StatsRepo.
type StatsSource interface {
	Summary(ctx context.Context, ownerID uint64) ([]repository.HabitSummary, error)
}
