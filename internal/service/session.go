// Package service holds the session and task logic the CLI drives. Each
// exported operation runs in its own storage transaction.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/store"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// SessionManager owns login, logout and the lazily checked, sliding
// session expiry. There is one session for the whole installation:
// logging in replaces whoever was logged in before.
type SessionManager struct {
	store  store.Store
	logger *zap.Logger
	ttl    time.Duration
	now    Clock
}

// NewSessionManager creates a SessionManager. A zero ttl means
// model.DefaultSessionTTL, a nil logger discards logs, and a nil clock
// uses the system time.
func NewSessionManager(s store.Store, logger *zap.Logger, ttl time.Duration, now Clock) *SessionManager {
	if ttl <= 0 {
		ttl = model.DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &SessionManager{store: s, logger: logger, ttl: ttl, now: now}
}

// CreateUser registers a new account. A taken username yields
// *model.UserAlreadyExistsError.
func (m *SessionManager) CreateUser(ctx context.Context, username, password string) error {
	user := &model.User{Username: username, Password: password, CreatedAt: m.now()}
	err := m.store.RunInTx(ctx, func(tx store.Tx) error {
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return err
	}
	m.logger.Info("user created", zap.String("username", username), zap.String("user_id", user.ID))
	return nil
}

// Login replaces any existing session with a fresh one for the user whose
// credentials match exactly. Bad credentials are reported as false, not
// as an error, and leave the existing session alone.
func (m *SessionManager) Login(ctx context.Context, username, password string) (bool, error) {
	var user *model.User
	err := m.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.FindUserByCredentials(ctx, username, password)
		if err != nil || user == nil {
			return err
		}
		if _, err := tx.DeleteSessions(ctx); err != nil {
			return err
		}
		return tx.CreateSession(ctx, &model.Session{UserID: user.ID, LastActivity: m.now()})
	})
	if err != nil {
		return false, err
	}

	if user == nil {
		m.logger.Warn("login failed", zap.String("username", username))
		return false, nil
	}
	m.logger.Info("logged in", zap.String("username", username), zap.String("user_id", user.ID))
	return true, nil
}

// Logout removes the session. It is a no-op when nobody is logged in.
func (m *SessionManager) Logout(ctx context.Context) error {
	var removed int64
	err := m.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		removed, err = tx.DeleteSessions(ctx)
		return err
	})
	if err != nil {
		return err
	}
	if removed > 0 {
		m.logger.Info("logged out")
	}
	return nil
}

// CurrentUserID returns the id of the logged-in user and slides the
// session's expiry forward. It fails with model.ErrUserNotLoggedIn when
// there is no session and with model.ErrSessionExpired, exactly once, when
// the session has been idle longer than the TTL.
func (m *SessionManager) CurrentUserID(ctx context.Context) (string, error) {
	var userID string
	err := m.withSession(ctx, func(_ store.Tx, session *model.Session) error {
		userID = session.UserID
		return nil
	})
	return userID, err
}

// CurrentUser is CurrentUserID followed by loading the user.
func (m *SessionManager) CurrentUser(ctx context.Context) (*model.User, error) {
	var user *model.User
	err := m.withSession(ctx, func(tx store.Tx, session *model.Session) error {
		var err error
		user, err = tx.GetUser(ctx, session.UserID)
		return err
	})
	return user, err
}

// ChangePassword sets a new password for the logged-in user.
func (m *SessionManager) ChangePassword(ctx context.Context, password string) error {
	var userID string
	err := m.withSession(ctx, func(tx store.Tx, session *model.Session) error {
		userID = session.UserID
		return tx.UpdateUserPassword(ctx, session.UserID, password)
	})
	if err != nil {
		return err
	}
	m.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

// withSession validates the session and runs fn in the same transaction.
// An expired session is deleted and that deletion is committed before
// model.ErrSessionExpired is returned, so the expiry is reported once and
// the next call sees model.ErrUserNotLoggedIn.
func (m *SessionManager) withSession(
	ctx context.Context,
	fn func(tx store.Tx, session *model.Session) error,
) error {
	var expired *model.Session

	err := m.store.RunInTx(ctx, func(tx store.Tx) error {
		session, err := tx.CurrentSession(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			return model.ErrUserNotLoggedIn
		}

		now := m.now()
		if session.Expired(now, m.ttl) {
			if _, err := tx.DeleteSessions(ctx); err != nil {
				return fmt.Errorf("removing expired session: %w", err)
			}
			expired = session
			return nil
		}

		if err := tx.TouchSession(ctx, session.ID, now); err != nil {
			return err
		}
		return fn(tx, session)
	})
	if err != nil {
		return err
	}

	if expired != nil {
		m.logger.Info("session expired",
			zap.String("user_id", expired.UserID),
			zap.Time("last_activity", expired.LastActivity),
		)
		return model.ErrSessionExpired
	}
	return nil
}
