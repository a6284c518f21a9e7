// Package rank turns ordered task slices into the positional identifiers
// users type on the command line. A task's rank is its 1-based position
// among the tasks sharing its user and date, ordered by creation time. It
// is derived on every read and never stored.
package rank

import (
	"time"

	"github.com/nhle/todo/internal/model"
)

// Assign numbers tasks within each (user, date) group. The input must
// already be ordered by date and then by creation time, which is the
// order the store returns. Output order matches input order.
func Assign(tasks []model.Task) []model.RankedTask {
	type groupKey struct {
		userID string
		date   string
	}

	next := make(map[groupKey]int)
	ranked := make([]model.RankedTask, 0, len(tasks))
	for _, t := range tasks {
		k := groupKey{userID: t.UserID, date: model.FormatDate(t.TaskDate)}
		next[k]++
		ranked = append(ranked, model.RankedTask{Task: t, Rank: next[k]})
	}
	return ranked
}

// At returns the task at rank within a single day's tasks ordered by
// creation time. A rank outside 1..len(ordered) yields a
// *model.TaskNotFoundError for date.
func At(ordered []model.Task, rank int, date time.Time) (model.Task, error) {
	if rank < 1 || rank > len(ordered) {
		return model.Task{}, &model.TaskNotFoundError{Rank: rank, Date: model.NormalizeDate(date)}
	}
	return ordered[rank-1], nil
}

// Filter keeps the ranked tasks for which keep returns true. Ranks are
// left untouched so the survivors stay addressable.
func Filter(ranked []model.RankedTask, keep func(model.RankedTask) bool) []model.RankedTask {
	out := ranked[:0:0]
	for _, r := range ranked {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
