package cli

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/theme"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// errAborted is returned when the user cancels a prompt.
var errAborted = errors.New("aborted")

// usageError marks bad arguments or flags.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// outcome is how a command error is shown to the user.
type outcome struct {
	message string
	code    int
	// toStderr sends the message to the error stream.
	toStderr bool
}

// describe maps err onto its user-facing message and exit code. Expected
// outcomes a user can act on exit 0; storage and unknown failures exit 1.
func describe(err error) outcome {
	var (
		usage    *usageError
		exists   *model.UserAlreadyExistsError
		notFound *model.TaskNotFoundError
	)

	switch {
	case errors.As(err, &usage):
		return outcome{message: "Error: " + usage.msg, code: ExitUsage, toStderr: true}
	case errors.Is(err, errAborted):
		return outcome{message: "Aborted!", code: ExitFailure}
	case errors.Is(err, model.ErrStorageUninitialized):
		return outcome{message: "Please initialize database first. Use command 'todo init'", code: ExitFailure, toStderr: true}
	case errors.Is(err, model.ErrStorageUnavailable):
		return outcome{message: "Lost connection with database", code: ExitFailure, toStderr: true}
	case errors.Is(err, model.ErrUserNotLoggedIn):
		return outcome{message: "You need to log in first"}
	case errors.Is(err, model.ErrSessionExpired):
		return outcome{message: "Session has expired. Login again please."}
	case errors.As(err, &exists):
		return outcome{message: fmt.Sprintf("User '%s' already exists", exists.Username)}
	case errors.As(err, &notFound):
		return outcome{message: fmt.Sprintf("Task %d for %s not found", notFound.Rank, model.FormatDate(notFound.Date))}
	case errors.Is(err, model.ErrDescriptionTooLong):
		return outcome{message: fmt.Sprintf("Too long task. It should contain no more than %d symbols.", model.MaxDescriptionLength)}
	}
	return outcome{message: fmt.Sprintf("Unexpected error: %v", err), code: ExitFailure, toStderr: true}
}

// report prints err and returns the process exit code.
func report(out, errOut io.Writer, logger *zap.Logger, err error) int {
	o := describe(err)

	if o.code == ExitOK {
		logger.Debug("command finished with expected error", zap.Error(err))
		fmt.Fprintln(out, theme.WarningStyle.Render(o.message))
		return o.code
	}

	logger.Error("command failed", zap.Error(err), zap.Int("exit_code", o.code))
	w := out
	if o.toStderr {
		w = errOut
	}
	fmt.Fprintln(w, theme.ErrorStyle.Render(o.message))
	return o.code
}
