package model

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared by the store, the services and the CLI. Each kind
// is rendered with its own message, so callers match them with errors.Is.
var (
	// ErrUserNotLoggedIn is returned when no session row exists.
	ErrUserNotLoggedIn = errors.New("user not logged in")

	// ErrSessionExpired is returned once for a session that outlived its
	// TTL. The session row is deleted when this is reported.
	ErrSessionExpired = errors.New("session has expired")

	// ErrUserAlreadyExists matches any *UserAlreadyExistsError.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTaskNotFound matches any *TaskNotFoundError.
	ErrTaskNotFound = errors.New("task not found")

	// ErrStorageUninitialized is returned when the schema is missing.
	ErrStorageUninitialized = errors.New("storage is not initialized")

	// ErrStorageUnavailable is returned when the database cannot be reached.
	ErrStorageUnavailable = errors.New("storage is unavailable")

	// ErrDescriptionTooLong is returned for descriptions over
	// MaxDescriptionLength characters.
	ErrDescriptionTooLong = fmt.Errorf("description exceeds %d characters", MaxDescriptionLength)
)

// UserAlreadyExistsError reports a username collision on create.
type UserAlreadyExistsError struct {
	Username string
	Err      error
}

func (e *UserAlreadyExistsError) Error() string {
	return fmt.Sprintf("user %q already exists", e.Username)
}

// Is lets errors.Is(err, ErrUserAlreadyExists) match.
func (e *UserAlreadyExistsError) Is(target error) bool {
	return target == ErrUserAlreadyExists
}

// Unwrap exposes the driver error that triggered the collision, if any.
func (e *UserAlreadyExistsError) Unwrap() error { return e.Err }

// TaskNotFoundError reports that no task sits at Rank on Date for the caller.
type TaskNotFoundError struct {
	Rank int
	Date time.Time
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %d for %s not found", e.Rank, FormatDate(e.Date))
}

// Is lets errors.Is(err, ErrTaskNotFound) match.
func (e *TaskNotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}
