package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/web/internal/domain/entities"
	"github.com/taskmanager/web/internal/infrastructure/logger"
	"github.com/taskmanager/web/internal/ports"
)

// taskFormLimitsMessage covers the form-level length limits; the database
// columns enforce the same bounds.
const taskFormLimitsMessage = "Title must be 1-200 characters and the description at most 2000."

// TaskHandler handles the task list and task CRUD pages. Every route runs
// behind RequireUser.
type TaskHandler struct {
	tasks  ports.TaskService
	logger *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// List renders the current user's tasks with their overdue annotations.
func (h *TaskHandler) List(c echo.Context) error {
	user := CurrentUser(c)

	views, err := h.tasks.List(c.Request().Context(), user.ID)
	if err != nil {
		h.logger.Errorw("List tasks failed", "error", err, "user_id", user.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load tasks")
	}

	return c.Render(http.StatusOK, "tasks.html", echo.Map{
		"Title": "Your Tasks",
		"User":  user,
		"Tasks": views,
		"Flash": popFlash(c),
	})
}

// NewForm renders the task creation form.
func (h *TaskHandler) NewForm(c echo.Context) error {
	return h.renderForm(c, "New Task", "/tasks/new", ports.TaskForm{}, "")
}

// Create handles task creation form submission.
func (h *TaskHandler) Create(c echo.Context) error {
	user := CurrentUser(c)

	var form ports.TaskForm
	if err := c.Bind(&form); err != nil {
		return h.renderForm(c, "New Task", "/tasks/new", form, "Please check the form and try again.")
	}

	if err := c.Validate(&form); err != nil {
		return h.renderForm(c, "New Task", "/tasks/new", form, taskFormLimitsMessage)
	}

	if _, err := h.tasks.Create(c.Request().Context(), user.ID, form); err != nil {
		if msg, ok := formErrorMessage(err); ok {
			return h.renderForm(c, "New Task", "/tasks/new", form, msg)
		}
		h.logger.Errorw("Create task failed", "error", err, "user_id", user.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create task")
	}

	setFlash(c, "Task created.")
	return c.Redirect(http.StatusSeeOther, "/")
}

// EditForm renders the edit form for an owned task.
func (h *TaskHandler) EditForm(c echo.Context) error {
	user := CurrentUser(c)

	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return taskError(err)
	}

	form := ports.TaskForm{Title: task.Title}
	if task.Description != nil {
		form.Description = *task.Description
	}
	if task.DueDate != nil {
		form.DueDate = task.DueDate.Format(entities.DueDateLayout)
	}

	action := fmt.Sprintf("/tasks/%d/edit", task.ID)
	return h.renderForm(c, "Edit Task", action, form, "")
}

// Edit handles edit form submission for an owned task.
func (h *TaskHandler) Edit(c echo.Context) error {
	user := CurrentUser(c)

	id, err := taskID(c)
	if err != nil {
		return err
	}

	action := fmt.Sprintf("/tasks/%d/edit", id)

	var form ports.TaskForm
	if err := c.Bind(&form); err != nil {
		return h.renderForm(c, "Edit Task", action, form, "Please check the form and try again.")
	}

	if err := c.Validate(&form); err != nil {
		return h.renderForm(c, "Edit Task", action, form, taskFormLimitsMessage)
	}

	if _, err := h.tasks.Update(c.Request().Context(), user.ID, id, form); err != nil {
		if msg, ok := formErrorMessage(err); ok {
			return h.renderForm(c, "Edit Task", action, form, msg)
		}
		return taskError(err)
	}

	setFlash(c, "Task updated.")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Toggle flips the completion flag of an owned task.
func (h *TaskHandler) Toggle(c echo.Context) error {
	user := CurrentUser(c)

	id, err := taskID(c)
	if err != nil {
		return err
	}

	if _, err := h.tasks.Toggle(c.Request().Context(), user.ID, id); err != nil {
		return taskError(err)
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// Delete removes an owned task.
func (h *TaskHandler) Delete(c echo.Context) error {
	user := CurrentUser(c)

	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.tasks.Delete(c.Request().Context(), user.ID, id); err != nil {
		return taskError(err)
	}

	setFlash(c, "Task deleted.")
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *TaskHandler) renderForm(c echo.Context, heading, action string, form ports.TaskForm, errMsg string) error {
	return c.Render(http.StatusOK, "task_form.html", echo.Map{
		"Title":   heading,
		"Heading": heading,
		"Action":  action,
		"User":    CurrentUser(c),
		"Form":    form,
		"Error":   errMsg,
		"Flash":   popFlash(c),
	})
}

func taskID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return id, nil
}

// taskError maps service errors to responses. Not-found and foreign-owner
// tasks produce the same response so the existence of other users' tasks is
// not leaked; the service has already logged the forbidden case.
func taskError(err error) error {
	if errors.Is(err, entities.ErrTaskNotFound) || errors.Is(err, entities.ErrTaskForbidden) {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return err
}

// formErrorMessage translates validation errors into inline form messages.
func formErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, entities.ErrEmptyTitle):
		return "Title is required.", true
	case errors.Is(err, entities.ErrInvalidDueDate):
		return "Due date must use the YYYY-MM-DD format.", true
	default:
		return "", false
	}
}
