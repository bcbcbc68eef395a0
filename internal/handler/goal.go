package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aferreira/habitloop/internal/auth"
	"github.com/aferreira/habitloop/internal/repository"
)

// GoalHandler serves goal CRUD under /api/v1/goals. A goal targets a
// habit, so creation verifies the habit's ownership too: a user cannot
// attach a goal to somebody else's habit.
type GoalHandler struct {
	Goals  GoalStore
	Habits HabitStore
}

func NewGoalHandler(goals GoalStore, habits HabitStore) *GoalHandler {
	return &GoalHandler{Goals: goals, Habits: habits}
}

type goalReq struct {
	HabitID       uint64 `json:"habit_id"`
	TargetPerWeek int    `json:"target_per_week"`
	Note          string `json:"note"`
}

// Create handles POST /api/v1/goals.
func (h *GoalHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req goalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HabitID == 0 || req.TargetPerWeek < 1 || req.TargetPerWeek > 7 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "habit_id and target_per_week (1-7) required"})
	}
	habit, err := h.Habits.GetByID(c.Request().Context(), req.HabitID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.AssertOwned(p, habit); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	goal := &repository.Goal{
		OwnerID:       p.UserID,
		HabitID:       habit.ID,
		TargetPerWeek: req.TargetPerWeek,
		Note:          strings.TrimSpace(req.Note),
	}
	if err := h.Goals.Create(c.Request().Context(), goal); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create goal"})
	}
	return c.JSON(http.StatusCreated, goal)
}

// List handles GET /api/v1/goals, scoped to the principal.
func (h *GoalHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	goals, err := h.Goals.ListByOwner(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, goals)
}

// Get handles GET /api/v1/goals/:id.
func (h *GoalHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	goal, err := h.Goals.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.AssertOwned(p, goal); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, goal)
}

// Update handles PUT /api/v1/goals/:id.
func (h *GoalHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req goalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TargetPerWeek < 1 || req.TargetPerWeek > 7 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "target_per_week (1-7) required"})
	}
	goal, err := h.Goals.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.AssertOwned(p, goal); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Goals.Update(c.Request().Context(), id, p.UserID, req.TargetPerWeek, strings.TrimSpace(req.Note)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Goals.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/goals/:id.
func (h *GoalHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	goal, err := h.Goals.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.AssertOwned(p, goal); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Goals.Delete(c.Request().Context(), id, p.UserID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
