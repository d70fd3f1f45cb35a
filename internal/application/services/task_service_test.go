package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskmanager/web/internal/adapters/repository/memory"
	"github.com/taskmanager/web/internal/domain/entities"
	"github.com/taskmanager/web/internal/infrastructure/logger"
	"github.com/taskmanager/web/internal/ports"
)

func newTaskService() (*TaskService, *memory.TaskRepository) {
	tasks := memory.NewTaskRepository()
	return NewTaskService(tasks, logger.NewNop()), tasks
}

func TestCreateTask(t *testing.T) {
	svc, _ := newTaskService()
	owner := uuid.New()
	due := time.Now().AddDate(0, 0, 10).Format(entities.DueDateLayout)

	task, err := svc.Create(context.Background(), owner, ports.TaskForm{
		Title:       "Test task",
		Description: "hello",
		DueDate:     due,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if task.ID == 0 {
		t.Error("task ID not assigned")
	}
	if task.Title != "Test task" {
		t.Errorf("title = %q", task.Title)
	}
	if task.Description == nil || *task.Description != "hello" {
		t.Errorf("description = %v", task.Description)
	}
	if task.DueDate == nil || task.DueDate.Format(entities.DueDateLayout) != due {
		t.Errorf("due date = %v, want %s", task.DueDate, due)
	}
	if task.IsCompleted {
		t.Error("new task marked completed")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc, _ := newTaskService()
	owner := uuid.New()
	ctx := context.Background()

	if _, err := svc.Create(ctx, owner, ports.TaskForm{Title: "   "}); !errors.Is(err, entities.ErrEmptyTitle) {
		t.Errorf("blank title: expected ErrEmptyTitle, got %v", err)
	}

	_, err := svc.Create(ctx, owner, ports.TaskForm{Title: "t", DueDate: "31-12-2026"})
	if !errors.Is(err, entities.ErrInvalidDueDate) {
		t.Errorf("malformed date: expected ErrInvalidDueDate, got %v", err)
	}

	// Optional fields may simply be absent.
	task, err := svc.Create(ctx, owner, ports.TaskForm{Title: "bare"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Description != nil || task.DueDate != nil {
		t.Error("empty optional fields should stay nil")
	}
}

func TestListAnnotatesOverdue(t *testing.T) {
	svc, _ := newTaskService()
	owner := uuid.New()
	ctx := context.Background()

	past := time.Now().AddDate(0, 0, -1).Format(entities.DueDateLayout)
	future := time.Now().AddDate(0, 0, 1).Format(entities.DueDateLayout)

	if _, err := svc.Create(ctx, owner, ports.TaskForm{Title: "late", DueDate: past}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, owner, ports.TaskForm{Title: "on time", DueDate: future}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	views, err := svc.List(ctx, owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d tasks, want 2", len(views))
	}

	// Insertion order.
	if views[0].Title != "late" || views[1].Title != "on time" {
		t.Errorf("unexpected order: %q, %q", views[0].Title, views[1].Title)
	}
	if !views[0].Overdue {
		t.Error("past-due task not annotated overdue")
	}
	if views[1].Overdue {
		t.Error("future task annotated overdue")
	}
}

func TestListScopedToOwner(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	if _, err := svc.Create(ctx, alice, ports.TaskForm{Title: "alice's"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	views, err := svc.List(ctx, bob)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("bob sees %d of alice's tasks", len(views))
	}
}

func TestToggleFlipsCompletion(t *testing.T) {
	svc, tasks := newTaskService()
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, ports.TaskForm{Title: "Toggle me"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	toggled, err := svc.Toggle(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !toggled.IsCompleted {
		t.Error("toggle did not complete the task")
	}

	stored, err := tasks.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.IsCompleted {
		t.Error("completion flag not persisted")
	}

	if _, err := svc.Toggle(ctx, owner, created.ID); err != nil {
		t.Fatalf("Toggle back: %v", err)
	}
	stored, _ = tasks.GetByID(ctx, created.ID)
	if stored.IsCompleted {
		t.Error("second toggle did not flip back")
	}
}

func TestOwnershipBoundary(t *testing.T) {
	svc, tasks := newTaskService()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, alice, ports.TaskForm{Title: "alice's"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Toggle(ctx, bob, created.ID); !errors.Is(err, entities.ErrTaskForbidden) {
		t.Errorf("foreign toggle: expected ErrTaskForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, bob, created.ID); !errors.Is(err, entities.ErrTaskForbidden) {
		t.Errorf("foreign delete: expected ErrTaskForbidden, got %v", err)
	}

	// The row must be untouched.
	stored, err := tasks.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("task vanished after forbidden attempts: %v", err)
	}
	if stored.IsCompleted {
		t.Error("forbidden toggle mutated the row")
	}

	if _, err := svc.Toggle(ctx, bob, 99999); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("missing task: expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpdateTask(t *testing.T) {
	svc, _ := newTaskService()
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, ports.TaskForm{Title: "before", Description: "old"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	due := time.Now().AddDate(0, 0, 3).Format(entities.DueDateLayout)
	updated, err := svc.Update(ctx, owner, created.ID, ports.TaskForm{Title: "after", DueDate: due})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Title != "after" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Description != nil {
		t.Error("cleared description should be nil")
	}
	if updated.DueDate == nil {
		t.Error("due date not set")
	}

	if _, err := svc.Update(ctx, uuid.New(), created.ID, ports.TaskForm{Title: "x"}); !errors.Is(err, entities.ErrTaskForbidden) {
		t.Errorf("foreign update: expected ErrTaskForbidden, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	svc, tasks := newTaskService()
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, ports.TaskForm{Title: "doomed"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, owner, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := tasks.GetByID(ctx, created.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Error("task still present after delete")
	}

	views, err := svc.List(ctx, owner)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("deleted task still listed (%d entries)", len(views))
	}

	if err := svc.Delete(ctx, owner, created.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Errorf("double delete: expected ErrTaskNotFound, got %v", err)
	}
}
