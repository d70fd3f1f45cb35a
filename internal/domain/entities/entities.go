package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskForbidden      = errors.New("task belongs to another user")
	ErrEmptyTitle         = errors.New("title must not be empty")
	ErrInvalidDueDate     = errors.New("due date must use the 2006-01-02 format")
)

// DueDateLayout is the wire format for due dates. Due dates carry no time
// component.
const DueDateLayout = "2006-01-02"

// User represents an account in the system. The password is only ever held
// as a bcrypt hash.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// NewUser creates a user with a freshly hashed password.
func NewUser(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username must not be empty")
	}

	u := &User{
		ID:        uuid.New(),
		Username:  username,
		CreatedAt: time.Now(),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}

	return u, nil
}

// SetPassword hashes the plaintext and stores the hash, overwriting any
// prior value. The plaintext itself is never retained.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the candidate matches the stored hash.
// bcrypt performs the comparison in constant time.
func (u *User) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// Task represents a to-do item owned by exactly one user.
type Task struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	IsCompleted bool       `json:"is_completed" db:"is_completed"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// NewTask creates a task for the given owner. The title is required; the
// description and due date are optional.
func NewTask(ownerID uuid.UUID, title string, description *string, dueDate *time.Time) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	now := time.Now()
	return &Task{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		IsCompleted: false,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsOverdue reports whether the task's due date has passed. A task is
// overdue iff the due date is set, is strictly before the current date, and
// the task is not completed. The comparison is date-only.
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil || t.IsCompleted {
		return false
	}
	return dateBefore(*t.DueDate, time.Now())
}

// OwnedBy reports whether the task belongs to the given user.
func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID
}

// dateBefore compares calendar dates, each read in its own location. Due
// dates scanned from a DATE column arrive as midnight UTC while the clock
// runs in the server's zone; comparing the instants would shift the date
// whenever the two locations disagree.
func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// Session is a server-side login record backing the signed session cookie.
type Session struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// NewSession creates a session for the user with the given lifetime.
func NewSession(userID uuid.UUID, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session lifetime has elapsed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
