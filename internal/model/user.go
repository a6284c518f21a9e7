package model

import "time"

// User is an account that owns tasks. Passwords are stored as entered.
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Session marks the single authenticated identity. At most one exists.
type Session struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	LastActivity time.Time `json:"last_activity" db:"last_activity"`
}

// Expired reports whether the session has been idle longer than ttl at now.
// A session idle for exactly ttl is still valid.
func (s Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivity) > ttl
}
