// Package cli is the todo command line: a cobra command tree over the
// session and task services.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/todo/internal/credential"
	"github.com/nhle/todo/internal/logging"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/service"
	"github.com/nhle/todo/internal/store"
)

// skipSetup marks commands that run without config or storage.
const skipSetup = "skip-setup"

// Options replace the process environment, mainly for tests. Zero values
// select stdout, stderr, terminal prompts, the OS keyring and the system
// clock.
type Options struct {
	Out      io.Writer
	Err      io.Writer
	Prompter Prompter
	Vault    *credential.Vault
	Now      service.Clock
}

// app carries what commands share for one invocation.
type app struct {
	opts       Options
	configPath string

	cfg      *model.AppConfig
	logger   *zap.Logger
	store    store.Store
	sessions *service.SessionManager
	tasks    *service.TaskManager

	// started is set once cobra has accepted the arguments.
	started bool
	closers []func()
}

// Execute runs the command line with args and returns the exit code.
func Execute(ctx context.Context, version string, args []string, opts Options) int {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Prompter == nil {
		opts.Prompter = newHuhPrompter(opts.Err)
	}
	if opts.Vault == nil {
		opts.Vault = credential.New()
	}

	a := &app{opts: opts, logger: zap.NewNop()}
	defer a.close()

	root := newRootCmd(a, version)
	root.SetArgs(args)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	// Anything cobra rejects before the command starts is a usage problem.
	var usage *usageError
	if !a.started && !errors.As(err, &usage) {
		err = &usageError{msg: err.Error()}
	}
	return report(opts.Out, opts.Err, a.logger, err)
}

func newRootCmd(a *app, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "To-do list CLI app",
		Long: `todo keeps a personal list of dated tasks.

Tasks are addressed by day and rank: "todo update today 2 --done" marks the
second task created for today as done. Ranks follow creation order and are
recomputed on every command.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", model.DefaultConfigPath(), "path to config file")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	root.AddCommand(
		newInitCmd(a),
		newCreateUserCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newPasswdCmd(a),
		newAddCmd(a),
		newShowCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
	)
	return root
}

// setup loads config, builds the logger and opens storage.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.started = true
	if cmd.Annotations[skipSetup] == "true" || cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String("command", cmd.Name()))
	a.closers = append(a.closers, closeLog)

	st, err := store.Open(cmd.Context(), cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	a.store = st
	a.closers = append(a.closers, func() {
		if err := st.Close(); err != nil {
			a.logger.Warn("closing store", zap.Error(err))
		}
	})

	a.sessions = service.NewSessionManager(st, a.logger, cfg.Session.TTL, a.opts.Now)
	a.tasks = service.NewTaskManager(st, a.logger, a.opts.Now)
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// now is the invocation's clock.
func (a *app) now() time.Time {
	if a.opts.Now != nil {
		return a.opts.Now()
	}
	return time.Now()
}
