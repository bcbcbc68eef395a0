package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aferreira/habitloop/internal/auth"
	"github.com/aferreira/habitloop/internal/repository"
)

// HabitHandler serves the owner-scoped habit CRUD under /api/v1/habits.
type HabitHandler struct {
	Habits HabitStore
}

func NewHabitHandler(habits HabitStore) *HabitHandler {
	return &HabitHandler{Habits: habits}
}

type habitReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/v1/habits. The owner is always the acting
// principal; the request cannot designate another user.
func (h *HabitHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req habitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	habit := &repository.Habit{OwnerID: p.UserID, Name: name, Description: strings.TrimSpace(req.Description)}
	if err := h.Habits.Create(c.Request().Context(), habit); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create habit"})
	}
	return c.JSON(http.StatusCreated, habit)
}

// List handles GET /api/v1/habits. The collection is derived from the
// principal's user ID, never from a caller-supplied one.
func (h *HabitHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	habits, err := h.Habits.ListByOwner(c.Request().Context(), p.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, habits)
}

// Get handles GET /api/v1/habits/:id with the ownership check.
func (h *HabitHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	habit, err := h.Habits.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.AssertOwned(p, habit); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, habit)
}

// Update handles PUT /api/v1/habits/:id.
func (h *HabitHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req habitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	habit, err := h.Habits.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.AssertOwned(p, habit); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Habits.Update(c.Request().Context(), id, p.UserID, name, strings.TrimSpace(req.Description)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Habits.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/habits/:id.
func (h *HabitHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	habit, err := h.Habits.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.AssertOwned(p, habit); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Habits.Delete(c.Request().Context(), id, p.UserID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
