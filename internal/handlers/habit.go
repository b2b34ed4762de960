package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/focusbuddy/backend/internal/middleware/auth"
	"github.com/focusbuddy/backend/internal/models"
	habitsvc "github.com/focusbuddy/backend/internal/service/habit"
)

type HabitHandler struct {
	Habits *habitsvc.Service
}

func (h *HabitHandler) GetHabits(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	habits, err := h.Habits.ForUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, habits)
}

func (h *HabitHandler) GetGood(c echo.Context) error {
	return h.byType(c, models.HabitGood)
}

func (h *HabitHandler) GetBad(c echo.Context) error {
	return h.byType(c, models.HabitBad)
}

func (h *HabitHandler) byType(c echo.Context, habitType string) error {
	user := mwauth.CurrentUser(c)
	habits, err := h.Habits.ByType(c.Request().Context(), user.ID, habitType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, habits)
}

func (h *HabitHandler) CreateHabit(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if req.Type != models.HabitGood && req.Type != models.HabitBad {
		return echo.NewHTTPError(http.StatusBadRequest, "habit type must be good or bad")
	}

	habit := models.Habit{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	}
	if err := h.Habits.Create(c.Request().Context(), &habit); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, habit)
}
