package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/nhle/todo/internal/model"
)

func TestDescribe(t *testing.T) {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		err      error
		message  string
		code     int
		toStderr bool
	}{
		{
			name:    "not logged in",
			err:     model.ErrUserNotLoggedIn,
			message: "You need to log in first",
		},
		{
			name:    "expired",
			err:     fmt.Errorf("checking session: %w", model.ErrSessionExpired),
			message: "Session has expired. Login again please.",
		},
		{
			name:    "user exists",
			err:     &model.UserAlreadyExistsError{Username: "alice"},
			message: "User 'alice' already exists",
		},
		{
			name:    "task not found",
			err:     &model.TaskNotFoundError{Rank: 4, Date: date},
			message: "Task 4 for 2024-02-01 not found",
		},
		{
			name:    "too long",
			err:     model.ErrDescriptionTooLong,
			message: "Too long task. It should contain no more than 150 symbols.",
		},
		{
			name:     "uninitialized",
			err:      fmt.Errorf("%w: no such table: sessions", model.ErrStorageUninitialized),
			message:  "Please initialize database first. Use command 'todo init'",
			code:     ExitFailure,
			toStderr: true,
		},
		{
			name:     "unavailable",
			err:      fmt.Errorf("pinging database: %w", model.ErrStorageUnavailable),
			message:  "Lost connection with database",
			code:     ExitFailure,
			toStderr: true,
		},
		{
			name:    "aborted",
			err:     errAborted,
			message: "Aborted!",
			code:    ExitFailure,
		},
		{
			name:     "usage",
			err:      usageErrorf("bad %s", "flag"),
			message:  "Error: bad flag",
			code:     ExitUsage,
			toStderr: true,
		},
		{
			name:     "unexpected",
			err:      errors.New("boom"),
			message:  "Unexpected error: boom",
			code:     ExitFailure,
			toStderr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describe(tt.err)
			assert.Equal(t, tt.message, got.message)
			assert.Equal(t, tt.code, got.code)
			assert.Equal(t, tt.toStderr, got.toStderr)
		})
	}
}

func TestReportRoutesOutput(t *testing.T) {
	var out, errOut bytes.Buffer

	code := report(&out, &errOut, zap.NewNop(), model.ErrUserNotLoggedIn)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "You need to log in first\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	code = report(&out, &errOut, zap.NewNop(), model.ErrStorageUnavailable)
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, out.String())
	assert.Equal(t, "Lost connection with database\n", errOut.String())
}
