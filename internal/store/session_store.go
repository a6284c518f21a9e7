package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todo/internal/model"
)

// CurrentSession returns the single session row, if any.
func (t *sqlTx) CurrentSession(ctx context.Context) (*model.Session, error) {
	var session model.Session
	err := t.tx.GetContext(ctx, &session,
		"SELECT id, user_id, last_activity FROM sessions WHERE slot = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, t.wrap(err, "reading current session")
	}
	return &session, nil
}

// CreateSession inserts the session row. The slot column's unique
// constraint rejects a second row, so callers delete the old one first.
func (t *sqlTx) CreateSession(ctx context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	_, err := t.tx.ExecContext(ctx, t.tx.Rebind(`
		INSERT INTO sessions (id, slot, user_id, last_activity)
		VALUES (?, 1, ?, ?)`),
		session.ID, session.UserID, session.LastActivity.UTC(),
	)
	if err != nil {
		return t.wrap(err, "creating session for user %s", session.UserID)
	}
	return nil
}

// TouchSession moves last_activity forward to at.
func (t *sqlTx) TouchSession(ctx context.Context, id string, at time.Time) error {
	result, err := t.tx.ExecContext(ctx, t.tx.Rebind(
		"UPDATE sessions SET last_activity = ? WHERE id = ?"), at.UTC(), id)
	if err != nil {
		return t.wrap(err, "touching session %s", id)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// DeleteSessions removes the session row and reports how many rows went.
func (t *sqlTx) DeleteSessions(ctx context.Context) (int64, error) {
	result, err := t.tx.ExecContext(ctx, "DELETE FROM sessions")
	if err != nil {
		return 0, t.wrap(err, "deleting sessions")
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
