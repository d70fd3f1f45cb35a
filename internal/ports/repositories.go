package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskmanager/web/internal/domain/entities"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create inserts a new user. A duplicate username yields
	// entities.ErrUsernameTaken.
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
}

// TaskRepository defines the interface for task persistence.
type TaskRepository interface {
	// Create inserts the task and fills in its generated ID.
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id int) (*entities.Task, error)
	// ListByOwner returns the user's tasks in insertion order.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id int) error
}

// SessionRepository defines the interface for server-side session storage.
type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes sessions past their expiry and returns the
	// number removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
