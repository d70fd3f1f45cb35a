package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskmanager/web/internal/domain/entities"
)

// RegisterRequest carries the registration form fields. The confirm field
// is canonically named "confirm".
type RegisterRequest struct {
	Username string `form:"username" validate:"required,min=3,max=50"`
	Password string `form:"password" validate:"required,min=8,max=128"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// TaskForm carries the task create/edit form fields. DueDate is an optional
// ISO date (2006-01-02).
type TaskForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=2000"`
	DueDate     string `form:"due_date"`
}

// TaskView is a task annotated with its derived overdue status for display.
type TaskView struct {
	*entities.Task
	Overdue bool
}

// AuthService defines authentication and session operations.
type AuthService interface {
	// Register creates a new account. Duplicate usernames yield
	// entities.ErrUsernameTaken.
	Register(ctx context.Context, req RegisterRequest) (*entities.User, error)
	// Login verifies credentials and returns the user together with a
	// signed session token. Bad credentials yield
	// entities.ErrInvalidCredentials.
	Login(ctx context.Context, req LoginRequest) (*entities.User, string, error)
	// ResolveSession validates a session token and returns its user.
	ResolveSession(ctx context.Context, token string) (*entities.User, error)
	// Logout invalidates the session behind the token.
	Logout(ctx context.Context, token string) error
}

// TaskService defines task CRUD operations, all scoped to an owner.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, form TaskForm) (*entities.Task, error)
	// List returns the owner's tasks in insertion order, annotated with
	// overdue status.
	List(ctx context.Context, ownerID uuid.UUID) ([]TaskView, error)
	// Get returns a single task if it exists and belongs to the owner;
	// entities.ErrTaskNotFound or entities.ErrTaskForbidden otherwise.
	Get(ctx context.Context, ownerID uuid.UUID, taskID int) (*entities.Task, error)
	Update(ctx context.Context, ownerID uuid.UUID, taskID int, form TaskForm) (*entities.Task, error)
	Toggle(ctx context.Context, ownerID uuid.UUID, taskID int) (*entities.Task, error)
	Delete(ctx context.Context, ownerID uuid.UUID, taskID int) error
}
