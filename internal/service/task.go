package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/rank"
	"github.com/nhle/todo/internal/store"
)

// ListFilter selects tasks for TaskManager.List. Nil fields match anything.
type ListFilter struct {
	UserID    string
	Date      *time.Time
	Done      *bool
	Important *bool
}

// TaskManager creates, lists, updates and deletes tasks. Callers resolve
// the acting user through SessionManager first; TaskManager only checks
// that the addressed task belongs to that user.
type TaskManager struct {
	store  store.Store
	logger *zap.Logger
	now    Clock
}

// NewTaskManager creates a TaskManager. A nil logger discards logs and a
// nil clock uses the system time.
func NewTaskManager(s store.Store, logger *zap.Logger, now Clock) *TaskManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &TaskManager{store: s, logger: logger, now: now}
}

// Create validates and stores a new task, stamping its creation time.
// Descriptions longer than model.MaxDescriptionLength are rejected, never
// truncated.
func (m *TaskManager) Create(ctx context.Context, task *model.Task) error {
	if err := validateDescription(task.Description); err != nil {
		return err
	}
	if task.UserID == "" {
		return fmt.Errorf("creating task: user id must not be empty")
	}
	task.TaskDate = model.NormalizeDate(task.TaskDate)
	task.CreatedAt = m.now()

	err := m.store.RunInTx(ctx, func(tx store.Tx) error {
		return tx.CreateTask(ctx, task)
	})
	if err != nil {
		return err
	}

	m.logger.Info("task created",
		zap.String("user_id", task.UserID),
		zap.String("date", model.FormatDate(task.TaskDate)),
	)
	return nil
}

// List returns the user's tasks matching filter with their ranks. Ranks
// are computed over each full day before the done and important filters
// apply, so every listed rank can be passed to Update or Delete.
func (m *TaskManager) List(ctx context.Context, filter ListFilter) ([]model.RankedTask, error) {
	var tasks []model.Task
	err := m.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		tasks, err = tx.ListTasks(ctx, store.TaskFilter{UserID: filter.UserID, Date: filter.Date})
		return err
	})
	if err != nil {
		return nil, err
	}

	return rank.Filter(rank.Assign(tasks), func(t model.RankedTask) bool {
		if filter.Done != nil && t.Done != *filter.Done {
			return false
		}
		if filter.Important != nil && t.Important != *filter.Important {
			return false
		}
		return true
	}), nil
}

// Update applies changes to the task at taskRank on date for userID.
// Moving a task to another date re-stamps its creation time, placing it
// last on the new day. An empty change set resolves the task and does
// nothing else.
func (m *TaskManager) Update(
	ctx context.Context,
	date time.Time,
	taskRank int,
	userID string,
	changes model.TaskChanges,
) error {
	if changes.Description != nil {
		if err := validateDescription(*changes.Description); err != nil {
			return err
		}
	}

	err := m.store.RunInTx(ctx, func(tx store.Tx) error {
		task, err := resolve(ctx, tx, date, taskRank, userID)
		if err != nil {
			return err
		}

		var restampAt *time.Time
		if changes.TaskDate != nil {
			at, err := m.endOfDay(ctx, tx, task, *changes.TaskDate)
			if err != nil {
				return err
			}
			restampAt = &at
		}
		return tx.UpdateTask(ctx, task.ID, changes, restampAt)
	})
	if err != nil {
		return err
	}

	m.logger.Info("task updated",
		zap.String("user_id", userID),
		zap.String("date", model.FormatDate(date)),
		zap.Int("rank", taskRank),
	)
	return nil
}

// Delete removes the task at taskRank on date for userID. Later tasks of
// that day move up one rank.
func (m *TaskManager) Delete(ctx context.Context, date time.Time, taskRank int, userID string) error {
	err := m.store.RunInTx(ctx, func(tx store.Tx) error {
		task, err := resolve(ctx, tx, date, taskRank, userID)
		if err != nil {
			return err
		}
		return tx.DeleteTask(ctx, task.ID)
	})
	if err != nil {
		return err
	}

	m.logger.Info("task deleted",
		zap.String("user_id", userID),
		zap.String("date", model.FormatDate(date)),
		zap.Int("rank", taskRank),
	)
	return nil
}

// endOfDay returns a creation time that sorts task after every other task
// the user has on date: now, or one microsecond past the latest one when
// now does not exceed it. Microseconds are the finest precision every
// backend stores.
func (m *TaskManager) endOfDay(ctx context.Context, tx store.Tx, task model.Task, date time.Time) (time.Time, error) {
	day, err := tx.TasksForDay(ctx, task.UserID, model.NormalizeDate(date))
	if err != nil {
		return time.Time{}, err
	}

	at := m.now().Truncate(time.Microsecond)
	for _, other := range day {
		if other.ID == task.ID {
			continue
		}
		if !at.After(other.CreatedAt) {
			at = other.CreatedAt.Truncate(time.Microsecond).Add(time.Microsecond)
		}
	}
	return at, nil
}

// resolve maps (date, rank) to the caller's task inside tx. A task owned
// by someone else is reported as not found.
func resolve(ctx context.Context, tx store.Tx, date time.Time, taskRank int, userID string) (model.Task, error) {
	date = model.NormalizeDate(date)

	day, err := tx.TasksForDay(ctx, userID, date)
	if err != nil {
		return model.Task{}, err
	}

	task, err := rank.At(day, taskRank, date)
	if err != nil {
		return model.Task{}, err
	}
	if task.UserID != userID {
		return model.Task{}, &model.TaskNotFoundError{Rank: taskRank, Date: date}
	}
	return task, nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > model.MaxDescriptionLength {
		return model.ErrDescriptionTooLong
	}
	if strings.TrimSpace(desc) == "" {
		return fmt.Errorf("task description must not be empty")
	}
	return nil
}
