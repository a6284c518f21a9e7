package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todo/internal/model"
)

const userColumns = "id, username, password, created_at"

// CreateUser inserts a new user. Generates a UUID if ID is empty.
// A taken username yields *model.UserAlreadyExistsError.
func (t *sqlTx) CreateUser(ctx context.Context, user *model.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("username must not be empty")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := t.tx.ExecContext(ctx, t.tx.Rebind(`
		INSERT INTO users (id, username, password, created_at)
		VALUES (?, ?, ?, ?)`),
		user.ID, user.Username, user.Password, user.CreatedAt.UTC(),
	)
	if err != nil {
		err = t.dialect.classify(err)
		if errors.Is(err, errUniqueViolation) {
			return &model.UserAlreadyExistsError{Username: user.Username, Err: err}
		}
		return fmt.Errorf("creating user %q: %w", user.Username, err)
	}
	return nil
}

// FindUserByCredentials looks up a user by exact username and password.
func (t *sqlTx) FindUserByCredentials(
	ctx context.Context,
	username, password string,
) (*model.User, error) {
	var user model.User
	err := t.tx.GetContext(ctx, &user, t.tx.Rebind(
		"SELECT "+userColumns+" FROM users WHERE username = ? AND password = ?"),
		username, password,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, t.wrap(err, "finding user %q", username)
	}
	return &user, nil
}

// GetUser retrieves a single user by ID.
func (t *sqlTx) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := t.tx.GetContext(ctx, &user, t.tx.Rebind(
		"SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	if err != nil {
		return nil, t.wrap(err, "getting user %s", id)
	}
	return &user, nil
}

// UpdateUserPassword replaces a user's password.
func (t *sqlTx) UpdateUserPassword(ctx context.Context, id, password string) error {
	result, err := t.tx.ExecContext(ctx, t.tx.Rebind(
		"UPDATE users SET password = ? WHERE id = ?"), password, id)
	if err != nil {
		return t.wrap(err, "updating password for user %s", id)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}
