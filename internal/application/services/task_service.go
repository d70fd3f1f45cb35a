package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskmanager/web/internal/domain/entities"
	"github.com/taskmanager/web/internal/infrastructure/logger"
	"github.com/taskmanager/web/internal/ports"
)

// TaskService handles task CRUD, always scoped to the owning user. A task
// belonging to another user is reported as ErrTaskForbidden, distinct from
// ErrTaskNotFound; the HTTP layer collapses the two into one response.
type TaskService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// Create creates a new task owned by the given user.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, form ports.TaskForm) (*entities.Task, error) {
	description, dueDate, err := parseTaskForm(form)
	if err != nil {
		return nil, err
	}

	task, err := entities.NewTask(ownerID, form.Title, description, dueDate)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", task.ID, "user_id", ownerID)

	return task, nil
}

// List returns the owner's tasks in insertion order, each annotated with
// its derived overdue status.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID) ([]ports.TaskView, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	views := make([]ports.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, ports.TaskView{Task: task, Overdue: task.IsOverdue()})
	}

	return views, nil
}

// Get returns a task if it exists and belongs to the owner.
func (s *TaskService) Get(ctx context.Context, ownerID uuid.UUID, taskID int) (*entities.Task, error) {
	return s.getOwned(ctx, ownerID, taskID)
}

// Update replaces a task's title, description, and due date.
func (s *TaskService) Update(ctx context.Context, ownerID uuid.UUID, taskID int, form ports.TaskForm) (*entities.Task, error) {
	task, err := s.getOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	description, dueDate, err := parseTaskForm(form)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(form.Title)
	if title == "" {
		return nil, entities.ErrEmptyTitle
	}

	task.Title = title
	task.Description = description
	task.DueDate = dueDate

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Infow("Task updated", "task_id", task.ID, "user_id", ownerID)

	return task, nil
}

// Toggle flips the completion flag of an owned task.
func (s *TaskService) Toggle(ctx context.Context, ownerID uuid.UUID, taskID int) (*entities.Task, error) {
	task, err := s.getOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	s.logger.Infow("Task toggled", "task_id", task.ID, "user_id", ownerID, "is_completed", task.IsCompleted)

	return task, nil
}

// Delete removes an owned task.
func (s *TaskService) Delete(ctx context.Context, ownerID uuid.UUID, taskID int) error {
	task, err := s.getOwned(ctx, ownerID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted", "task_id", task.ID, "user_id", ownerID)

	return nil
}

// getOwned loads a task and enforces the ownership boundary.
func (s *TaskService) getOwned(ctx context.Context, ownerID uuid.UUID, taskID int) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, entities.ErrTaskNotFound) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if !task.OwnedBy(ownerID) {
		s.logger.LogSecurityEvent("task_ownership_violation", ownerID.String(), "", map[string]interface{}{
			"task_id":  taskID,
			"owner_id": task.UserID.String(),
		})
		return nil, entities.ErrTaskForbidden
	}

	return task, nil
}

// parseTaskForm normalizes the optional description and due date fields.
func parseTaskForm(form ports.TaskForm) (*string, *time.Time, error) {
	var description *string
	if d := strings.TrimSpace(form.Description); d != "" {
		description = &d
	}

	var dueDate *time.Time
	if raw := strings.TrimSpace(form.DueDate); raw != "" {
		parsed, err := time.ParseInLocation(entities.DueDateLayout, raw, time.Local)
		if err != nil {
			return nil, nil, entities.ErrInvalidDueDate
		}
		dueDate = &parsed
	}

	return description, dueDate, nil
}
