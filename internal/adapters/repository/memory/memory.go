// Package memory provides in-memory repository implementations. They back
// the test suites and are handy for running the app without PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmanager/web/internal/domain/entities"
	"github.com/taskmanager/web/internal/ports"
)

// UserRepository is a map-backed ports.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*entities.User
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]*entities.User)}
}

func (r *UserRepository) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return entities.ErrUsernameTaken
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}

	return nil, entities.ErrUserNotFound
}

// TaskRepository is a map-backed ports.TaskRepository.
type TaskRepository struct {
	mu     sync.RWMutex
	nextID int
	tasks  map[int]*entities.Task
}

// NewTaskRepository creates an empty in-memory task repository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[int]*entities.Task)}
}

func (r *TaskRepository) Create(_ context.Context, task *entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	task.ID = r.nextID

	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *TaskRepository) GetByID(_ context.Context, id int) (*entities.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}

	clone := *task
	return &clone, nil
}

func (r *TaskRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*entities.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := []*entities.Task{}
	for _, task := range r.tasks {
		if task.UserID == ownerID {
			clone := *task
			tasks = append(tasks, &clone)
		}
	}

	// Insertion order.
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	return tasks, nil
}

func (r *TaskRepository) Update(_ context.Context, task *entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return entities.ErrTaskNotFound
	}

	task.UpdatedAt = time.Now()
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}

	delete(r.tasks, id)
	return nil
}

// SessionRepository is a map-backed ports.SessionRepository.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entities.Session
}

// NewSessionRepository creates an empty in-memory session repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[uuid.UUID]*entities.Session)}
}

func (r *SessionRepository) Create(_ context.Context, session *entities.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, id uuid.UUID) (*entities.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}

	clone := *session
	return &clone, nil
}

func (r *SessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, session := range r.sessions {
		if session.IsExpired() {
			delete(r.sessions, id)
			removed++
		}
	}

	return removed, nil
}

var (
	_ ports.UserRepository    = (*UserRepository)(nil)
	_ ports.TaskRepository    = (*TaskRepository)(nil)
	_ ports.SessionRepository = (*SessionRepository)(nil)
)
