package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nhle/todo/internal/model"
)

const taskColumns = "id, user_id, task_date, description, done, important, created_at"

// Within a day, seq breaks ties between tasks stamped at the same instant.
const taskOrder = "task_date, created_at, seq"

// taskRow mirrors the tasks table. task_date is kept as text so every
// backend stores and compares it the same way.
type taskRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	TaskDate    string    `db:"task_date"`
	Description string    `db:"description"`
	Done        bool      `db:"done"`
	Important   bool      `db:"important"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r taskRow) toModel() (model.Task, error) {
	date, err := model.ParseDate(r.TaskDate)
	if err != nil {
		return model.Task{}, fmt.Errorf("parsing task_date of task %s: %w", r.ID, err)
	}
	return model.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		TaskDate:    date,
		Description: r.Description,
		Done:        r.Done,
		Important:   r.Important,
		CreatedAt:   r.CreatedAt,
	}, nil
}

// CreateTask inserts a new task. Generates a UUID if ID is empty and
// stamps CreatedAt with the current time if it is zero. The description
// checks repeat the service's as a last line of defence for direct callers.
func (t *sqlTx) CreateTask(ctx context.Context, task *model.Task) error {
	if utf8.RuneCountInString(task.Description) > model.MaxDescriptionLength {
		return model.ErrDescriptionTooLong
	}
	if strings.TrimSpace(task.Description) == "" {
		return fmt.Errorf("task description must not be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	task.TaskDate = model.NormalizeDate(task.TaskDate)

	_, err := t.tx.ExecContext(ctx, t.tx.Rebind(`
		INSERT INTO tasks (
			id, user_id, task_date, description,
			done, important, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		task.ID, task.UserID, model.FormatDate(task.TaskDate), task.Description,
		task.Done, task.Important, task.CreatedAt.UTC(),
	)
	if err != nil {
		return t.wrap(err, "creating task")
	}
	return nil
}

// TasksForDay returns one user's tasks for date in rank order.
func (t *sqlTx) TasksForDay(
	ctx context.Context,
	userID string,
	date time.Time,
) ([]model.Task, error) {
	return t.ListTasks(ctx, TaskFilter{UserID: userID, Date: &date})
}

// ListTasks retrieves tasks matching the filter, ordered by date and then
// by creation time.
func (t *sqlTx) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	if filter.UserID == "" {
		return nil, fmt.Errorf("listing tasks: user id must not be empty")
	}

	conditions := []string{"user_id = ?"}
	args := []any{filter.UserID}

	if filter.Date != nil {
		conditions = append(conditions, "task_date = ?")
		args = append(args, model.FormatDate(*filter.Date))
	}

	query := "SELECT " + taskColumns + " FROM tasks WHERE " +
		strings.Join(conditions, " AND ") + " ORDER BY " + taskOrder

	var rows []taskRow
	if err := t.tx.SelectContext(ctx, &rows, t.tx.Rebind(query), args...); err != nil {
		return nil, t.wrap(err, "querying tasks")
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		task, err := r.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// UpdateTask writes the set fields of changes to the task with id.
func (t *sqlTx) UpdateTask(
	ctx context.Context,
	id string,
	changes model.TaskChanges,
	restampAt *time.Time,
) error {
	var (
		sets []string
		args []any
	)

	if changes.TaskDate != nil {
		sets = append(sets, "task_date = ?")
		args = append(args, model.FormatDate(*changes.TaskDate))
	}
	if changes.Description != nil {
		if utf8.RuneCountInString(*changes.Description) > model.MaxDescriptionLength {
			return model.ErrDescriptionTooLong
		}
		sets = append(sets, "description = ?")
		args = append(args, *changes.Description)
	}
	if changes.Done != nil {
		sets = append(sets, "done = ?")
		args = append(args, *changes.Done)
	}
	if changes.Important != nil {
		sets = append(sets, "important = ?")
		args = append(args, *changes.Important)
	}
	if restampAt != nil {
		sets = append(sets, "created_at = ?")
		args = append(args, restampAt.UTC())
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	result, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...)
	if err != nil {
		return t.wrap(err, "updating task %s", id)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

// DeleteTask removes a task by ID.
func (t *sqlTx) DeleteTask(ctx context.Context, id string) error {
	result, err := t.tx.ExecContext(ctx, t.tx.Rebind("DELETE FROM tasks WHERE id = ?"), id)
	if err != nil {
		return t.wrap(err, "deleting task %s", id)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}
