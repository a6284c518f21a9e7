package store

import (
	"context"
	"time"

	"github.com/nhle/todo/internal/model"
)

// TaskFilter narrows ListTasks. UserID is required; a nil Date means all days.
type TaskFilter struct {
	UserID string
	Date   *time.Time
}

// Store hands out units of work over the users, tasks and sessions tables.
type Store interface {
	// RunInTx runs fn inside one transaction. The transaction commits only
	// when fn returns nil; otherwise it is rolled back and fn's error is
	// returned unchanged.
	RunInTx(ctx context.Context, fn func(tx Tx) error) error

	// Migrate creates or upgrades the schema.
	Migrate(ctx context.Context) error

	Close() error
}

// Tx is a single unit of work. It must not be used after the RunInTx
// callback that received it returns.
type Tx interface {
	// === Users ===

	CreateUser(ctx context.Context, user *model.User) error
	// FindUserByCredentials returns nil and no error when nothing matches.
	FindUserByCredentials(ctx context.Context, username, password string) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, password string) error

	// === Session (at most one row) ===

	// CurrentSession returns nil and no error when nobody is logged in.
	CurrentSession(ctx context.Context) (*model.Session, error)
	CreateSession(ctx context.Context, session *model.Session) error
	TouchSession(ctx context.Context, id string, at time.Time) error
	DeleteSessions(ctx context.Context) (int64, error)

	// === Tasks ===

	CreateTask(ctx context.Context, task *model.Task) error
	// TasksForDay returns a user's tasks for one date ordered by creation.
	TasksForDay(ctx context.Context, userID string, date time.Time) ([]model.Task, error)
	// ListTasks returns matching tasks ordered by date, then creation.
	ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	// UpdateTask writes changes to the task with id. A non-nil restampAt
	// replaces created_at, moving the task to the end of its day.
	UpdateTask(ctx context.Context, id string, changes model.TaskChanges, restampAt *time.Time) error
	DeleteTask(ctx context.Context, id string) error
}
