package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	mwauth "github.com/focusbuddy/backend/internal/middleware/auth"
	"github.com/focusbuddy/backend/internal/models"
	tasksvc "github.com/focusbuddy/backend/internal/service/task"
)

type TaskHandler struct {
	Tasks *tasksvc.Service
}

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	IsCompleted *bool  `json:"is_completed"`
}

const dueDateLayout = "2006-01-02"

func (h *TaskHandler) GetTasks(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	tasks, err := h.Tasks.ForUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetCurrent(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	tasks, err := h.Tasks.Current(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetPlanned(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	tasks, err := h.Tasks.Planned(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTomorrow(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	tasks, err := h.Tasks.TomorrowDeadline(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetCompleted(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	tasks, err := h.Tasks.Completed(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// CreateCurrent makes a task due today.
func (h *TaskHandler) CreateCurrent(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	task := models.Task{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     today(),
		IsCompleted: false,
		IsCurrent:   true,
	}
	if err := h.Tasks.Create(c.Request().Context(), &task); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// CreatePlanned requires a due date strictly in the future.
func (h *TaskHandler) CreatePlanned(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	due, err := time.ParseInLocation(dueDateLayout, req.DueDate, time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid due_date")
	}
	if !due.After(today()) {
		return echo.NewHTTPError(http.StatusBadRequest, "for planned tasks the due date must be in the future")
	}

	task := models.Task{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		IsCompleted: false,
		IsCurrent:   false,
	}
	if err := h.Tasks.Create(c.Request().Context(), &task); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	task, err := h.Tasks.ByIDAndUser(c.Request().Context(), uint(id), user.ID)
	if err != nil {
		if errors.Is(err, tasksvc.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		return err
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.DueDate != "" {
		due, err := time.ParseInLocation(dueDateLayout, req.DueDate, time.Local)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid due_date")
		}
		if task.IsCurrent {
			task.DueDate = today()
		} else if due.After(today()) {
			task.DueDate = due
		} else {
			return echo.NewHTTPError(http.StatusBadRequest, "for planned tasks the due date must be in the future")
		}
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}

	if err := h.Tasks.Update(c.Request().Context(), task); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CompleteTask(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	task, err := h.Tasks.ByIDAndUser(c.Request().Context(), uint(id), user.ID)
	if err != nil {
		if errors.Is(err, tasksvc.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		return err
	}

	task.IsCompleted = true
	if err := h.Tasks.Update(c.Request().Context(), task); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	if err := h.Tasks.Delete(c.Request().Context(), uint(id), user.ID); err != nil {
		if errors.Is(err, tasksvc.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "task deleted"})
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
