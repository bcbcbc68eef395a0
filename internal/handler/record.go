package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aferreira/habitloop/internal/auth"
	"github.com/aferreira/habitloop/internal/queue"
	"github.com/aferreira/habitloop/internal/repository"
	publisher "github.com/aferreira/habitloop/internal/service"
)

// RecordHandler serves daily completion records, nested under a habit:
// /api/v1/habits/:id/records. Every operation first checks that the
// habit belongs to the acting principal.
type RecordHandler struct {
	Habits  HabitStore
	Records RecordStore
}

func NewRecordHandler(habits HabitStore, records RecordStore) *RecordHandler {
	return &RecordHandler{Habits: habits, Records: records}
}

type recordReq struct {
	Day  string `json:"day"` // YYYY-MM-DD; empty means today (UTC)
	Note string `json:"note"`
}

// ownedHabit loads the habit from the path and runs the ownership
// guard, translating failures into responses. The bool reports whether
// the caller may proceed.
func (h *RecordHandler) ownedHabit(c echo.Context, p auth.Principal) (repository.Habit, bool, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return repository.Habit{}, false, err
	}
	habit, err := h.Habits.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return repository.Habit{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		return repository.Habit{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.AssertOwned(p, habit); err != nil {
		return repository.Habit{}, false, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return habit, true, nil
}

// Create handles POST /api/v1/habits/:id/records: log the habit as
// completed for a day. Re-logging the same day updates the note. On
// success a record.completed event is published; publish failures are
// logged and ignored so the broker cannot take the API down.
func (h *RecordHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	habit, ok, err := h.ownedHabit(c, p)
	if !ok {
		return err
	}
	var req recordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	day := strings.TrimSpace(req.Day)
	if day == "" {
		day = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be YYYY-MM-DD"})
	}

	rec := &repository.DailyRecord{
		OwnerID: p.UserID,
		HabitID: habit.ID,
		Day:     day,
		Note:    strings.TrimSpace(req.Note),
	}
	if err := h.Records.Upsert(c.Request().Context(), rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save record"})
	}

	event := queue.RecordCompletedEvent{
		RecordID:    rec.ID,
		HabitID:     habit.ID,
		HabitName:   habit.Name,
		UserID:      p.UserID,
		Username:    p.Username,
		Day:         day,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publisher.PublishRecordCompleted(ctx, event); err != nil {
			log.Printf("record handler: publish record.completed failed: %v", err)
		}
	}()

	return c.JSON(http.StatusCreated, rec)
}

// List handles GET /api/v1/habits/:id/records.
func (h *RecordHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	habit, ok, err := h.ownedHabit(c, p)
	if !ok {
		return err
	}
	records, err := h.Records.ListByHabit(c.Request().Context(), habit.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, records)
}
