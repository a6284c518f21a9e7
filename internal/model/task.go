package model

import "time"

// DateLayout is the on-disk and user-facing format of a task date.
const DateLayout = "2006-01-02"

// MaxDescriptionLength is the longest description a task may carry.
const MaxDescriptionLength = 150

// Task is a dated item on a user's list.
type Task struct {
	// ID is the storage identifier. It is never shown to the user;
	// tasks are addressed by date and rank instead.
	ID string `json:"id" db:"id"`

	// UserID references the owning user.
	UserID string `json:"user_id" db:"user_id"`

	// TaskDate is the calendar day the task belongs to (UTC midnight).
	TaskDate time.Time `json:"task_date" db:"task_date"`

	// Description is the free text of the task, at most
	// MaxDescriptionLength characters.
	Description string `json:"description" db:"description"`

	Done      bool `json:"done" db:"done"`
	Important bool `json:"important" db:"important"`

	// CreatedAt orders tasks within a day. It is re-stamped when the
	// task moves to another date.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RankedTask pairs a task with its 1-based position inside its
// (user, date) group.
type RankedTask struct {
	Task
	Rank int `json:"rank"`
}

// TaskChanges lists the fields an update touches. Nil fields are left as is.
type TaskChanges struct {
	TaskDate    *time.Time
	Description *string
	Done        *bool
	Important   *bool
}

// IsEmpty reports whether no field is set.
func (c TaskChanges) IsEmpty() bool {
	return c.TaskDate == nil && c.Description == nil && c.Done == nil && c.Important == nil
}

// NormalizeDate truncates t to midnight UTC of its calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a task date using DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a DateLayout string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
