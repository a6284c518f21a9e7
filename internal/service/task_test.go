package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/service"
	"github.com/nhle/todo/internal/store"
)

var (
	today    = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tomorrow = today.AddDate(0, 0, 1)
)

func ptr[T any](v T) *T { return &v }

func (f *fixture) add(t *testing.T, userID, desc string, date time.Time) {
	t.Helper()
	require.NoError(t, f.tasks.Create(context.Background(), &model.Task{
		UserID: userID, Description: desc, TaskDate: date,
	}))
	f.clock.Advance(time.Second)
}

func (f *fixture) day(t *testing.T, userID string, date time.Time) []model.RankedTask {
	t.Helper()
	tasks, err := f.tasks.List(context.Background(), service.ListFilter{UserID: userID, Date: &date})
	require.NoError(t, err)
	return tasks
}

func summary(tasks []model.RankedTask) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Description)
	}
	return out
}

func TestRanksFollowCreationOrder(t *testing.T) {
	f := newFixture(t)
	user := f.loginAs(t, "alice")

	names := []string{"one", "two", "three", "four", "five"}
	for _, n := range names {
		f.add(t, user, n, today)
	}

	listed := f.day(t, user, today)
	require.Equal(t, names, summary(listed))
	for i, task := range listed {
		assert.Equal(t, i+1, task.Rank)
	}

	// Addressing by rank reaches the same tasks.
	for i, n := range names {
		require.NoError(t, f.tasks.Update(context.Background(), today, i+1, user,
			model.TaskChanges{Description: ptr(strings.ToUpper(n))}))
	}
	assert.Equal(t, []string{"ONE", "TWO", "THREE", "FOUR", "FIVE"}, summary(f.day(t, user, today)))
}

func TestDeleteShiftsLaterRanks(t *testing.T) {
	f := newFixture(t)
	user := f.loginAs(t, "alice")
	for _, n := range []string{"r1", "r2", "r3", "r4", "r5"} {
		f.add(t, user, n, today)
	}

	require.NoError(t, f.tasks.Delete(context.Background(), today, 3, user))

	listed := f.day(t, user, today)
	require.Equal(t, []string{"r1", "r2", "r4", "r5"}, summary(listed))
	for i, task := range listed {
		assert.Equal(t, i+1, task.Rank)
	}
}

func TestMovingDateRestampsToEndOfDay(t *testing.T) {
	f := newFixture(t)
	user := f.loginAs(t, "alice")

	f.add(t, user, "moving", today)
	f.add(t, user, "already there 1", tomorrow)
	f.add(t, user, "already there 2", tomorrow)

	require.NoError(t, f.tasks.Update(context.Background(), today, 1, user,
		model.TaskChanges{TaskDate: ptr(tomorrow)}))

	listed := f.day(t, user, tomorrow)
	assert.Equal(t, []string{"already there 1", "already there 2", "moving"}, summary(listed))
	assert.Equal(t, 3, listed[2].Rank)
	assert.Empty(t, f.day(t, user, today))
}

func TestMovingDateAtSameInstantStillLandsLast(t *testing.T) {
	f := newFixture(t)
	user := f.loginAs(t, "alice")
	ctx := context.Background()

	// The clock never moves, so every task shares one creation time.
	for _, tc := range []struct {
		desc string
		date time.Time
	}{
		{desc: "B", date: tomorrow},
		{desc: "A", date: today},
		{desc: "C", date: today},
	} {
		require.NoError(t, f.tasks.Create(ctx, &model.Task{UserID: user, Description: tc.desc, TaskDate: tc.date}))
	}

	require.NoError(t, f.tasks.Update(ctx, tomorrow, 1, user, model.TaskChanges{TaskDate: ptr(today)}))

	listed := f.day(t, user, today)
	assert.Equal(t, []string{"A", "C", "B"}, summary(listed))
	assert.Equal(t, 3, listed[2].Rank)

	// Moving again within the same instant keeps appending.
	require.NoError(t, f.tasks.Update(ctx, today, 1, user, model.TaskChanges{TaskDate: ptr(today)}))
	assert.Equal(t, []string{"C", "B", "A"}, summary(f.day(t, user, today)))
}

func TestMovingDateToEmptyDayIsRankOne(t *testing.T) {
	f := newFixture(t)
	user := f.loginAs(t, "alice")

	f.add(t, user, "a", today)
	f.add(t, user, "b", today)

	require.NoError(t, f.tasks.Update(context.Background(), today, 2, user,
		model.TaskChanges{TaskDate: ptr(tomorrow)}))

	listed := f.day(t, user, tomorrow)
	require.Len(t, listed, 1)
	assert.Equal(t, "b", listed[0].Description)
	assert.Equal(t, 1, listed[0].Rank)
}

func TestOwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.loginAs(t, "alice")
	f.add(t, alice, "alice's", today)
	bob := f.loginAs(t, "bob")
	f.add(t, bob, "bob's", today)

	require.NoError(t, f.tasks.Update(ctx, today, 1, alice, model.TaskChanges{Done: ptr(true)}))
	require.NoError(t, f.tasks.Delete(ctx, today, 1, alice))

	bobs := f.day(t, bob, today)
	require.Len(t, bobs, 1)
	assert.Equal(t, "bob's", bobs[0].Description)
	assert.False(t, bobs[0].Done)

	err := f.tasks.Delete(ctx, today, 1, alice)
	assert.ErrorIs(t, err, model.ErrTaskNotFound)
}

func TestTaskNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.loginAs(t, "alice")
	f.add(t, user, "only", today)

	err := f.tasks.Update(ctx, today, 2, user, model.TaskChanges{Done: ptr(true)})
	require.ErrorIs(t, err, model.ErrTaskNotFound)

	var nf *model.TaskNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 2, nf.Rank)
	assert.True(t, today.Equal(nf.Date))

	assert.ErrorIs(t, f.tasks.Delete(ctx, tomorrow, 1, user), model.ErrTaskNotFound)
	assert.ErrorIs(t, f.tasks.Delete(ctx, today, 0, user), model.ErrTaskNotFound)
}

func TestCreateRejectsLongDescription(t *testing.T) {
	f := newFixture(t)
	user := f.loginAs(t, "alice")

	err := f.tasks.Create(context.Background(), &model.Task{
		UserID: user, Description: strings.Repeat("x", 151), TaskDate: today,
	})
	assert.ErrorIs(t, err, model.ErrDescriptionTooLong)

	require.NoError(t, f.tasks.Create(context.Background(), &model.Task{
		UserID: user, Description: strings.Repeat("x", 150), TaskDate: today,
	}))
}

func TestUpdateRejectsLongDescription(t *testing.T) {
	f := newFixture(t)
	user := f.loginAs(t, "alice")
	f.add(t, user, "short", today)

	err := f.tasks.Update(context.Background(), today, 1, user,
		model.TaskChanges{Description: ptr(strings.Repeat("y", 151))})
	assert.ErrorIs(t, err, model.ErrDescriptionTooLong)
	assert.Equal(t, []string{"short"}, summary(f.day(t, user, today)))
}

func TestUpdateWithNoChangesIsNoop(t *testing.T) {
	f := newFixture(t)
	user := f.loginAs(t, "alice")
	f.add(t, user, "a", today)
	f.add(t, user, "b", today)

	require.NoError(t, f.tasks.Update(context.Background(), today, 1, user, model.TaskChanges{}))
	assert.Equal(t, []string{"a", "b"}, summary(f.day(t, user, today)))
}

func TestListFiltersKeepDayRanks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.loginAs(t, "alice")

	f.add(t, user, "plain", today)
	f.add(t, user, "urgent", today)
	f.add(t, user, "finished", today)
	f.add(t, user, "next day", tomorrow)

	require.NoError(t, f.tasks.Update(ctx, today, 2, user, model.TaskChanges{Important: ptr(true)}))
	require.NoError(t, f.tasks.Update(ctx, today, 3, user, model.TaskChanges{Done: ptr(true)}))

	important, err := f.tasks.List(ctx, service.ListFilter{UserID: user, Date: &today, Important: ptr(true)})
	require.NoError(t, err)
	require.Len(t, important, 1)
	assert.Equal(t, "urgent", important[0].Description)
	assert.Equal(t, 2, important[0].Rank)

	notDone, err := f.tasks.List(ctx, service.ListFilter{UserID: user, Date: &today, Done: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, []string{"plain", "urgent"}, summary(notDone))

	all, err := f.tasks.List(ctx, service.ListFilter{UserID: user})
	require.NoError(t, err)
	require.Equal(t, []string{"plain", "urgent", "finished", "next day"}, summary(all))
	assert.Equal(t, 1, all[3].Rank)
}

func TestBuyMilkScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.loginAs(t, "user1")

	f.add(t, user, "Buy milk", today)
	f.add(t, user, "Buy bread", today)

	require.NoError(t, f.tasks.Update(ctx, today, 1, user, model.TaskChanges{Done: ptr(true)}))
	listed := f.day(t, user, today)
	require.Len(t, listed, 2)
	assert.Equal(t, "Buy milk", listed[0].Description)
	assert.True(t, listed[0].Done)
	assert.Equal(t, 1, listed[0].Rank)
	assert.Equal(t, "Buy bread", listed[1].Description)
	assert.False(t, listed[1].Done)
	assert.Equal(t, 2, listed[1].Rank)

	require.NoError(t, f.tasks.Delete(ctx, today, 1, user))
	listed = f.day(t, user, today)
	require.Len(t, listed, 1)
	assert.Equal(t, "Buy bread", listed[0].Description)
	assert.Equal(t, 1, listed[0].Rank)
}

// foreignTx serves a day whose only task belongs to another user, which
// the SQL store never does. Mutations fail the test.
type foreignTx struct {
	store.Tx
	t *testing.T
}

func (f foreignTx) TasksForDay(context.Context, string, time.Time) ([]model.Task, error) {
	return []model.Task{{ID: "x", UserID: "someone-else", TaskDate: today}}, nil
}

func (f foreignTx) UpdateTask(context.Context, string, model.TaskChanges, *time.Time) error {
	f.t.Fatal("UpdateTask must not be reached for a foreign task")
	return nil
}

func (f foreignTx) DeleteTask(context.Context, string) error {
	f.t.Fatal("DeleteTask must not be reached for a foreign task")
	return nil
}

type foreignStore struct{ t *testing.T }

func (s foreignStore) RunInTx(_ context.Context, fn func(tx store.Tx) error) error {
	return fn(foreignTx{t: s.t})
}

func (foreignStore) Migrate(context.Context) error { return errors.New("not supported") }
func (foreignStore) Close() error                  { return nil }

func TestForeignTaskReportedAsNotFound(t *testing.T) {
	tasks := service.NewTaskManager(foreignStore{t: t}, nil, nil)
	ctx := context.Background()

	err := tasks.Update(ctx, today, 1, "me", model.TaskChanges{Done: ptr(true)})
	assert.ErrorIs(t, err, model.ErrTaskNotFound)

	err = tasks.Delete(ctx, today, 1, "me")
	assert.ErrorIs(t, err, model.ErrTaskNotFound)
}
