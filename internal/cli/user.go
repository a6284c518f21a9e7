package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/todo/internal/credential"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/theme"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize database",
		Long: `Create or upgrade the database schema.

Also writes the effective configuration to the config file when none
exists yet, so later edits have a starting point.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Migrate(cmd.Context()); err != nil {
				return err
			}

			if _, err := os.Stat(a.configPath); errors.Is(err, fs.ErrNotExist) {
				if err := model.SaveConfig(a.configPath, a.cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", a.configPath)
			}

			fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("Database initialized."))
			return nil
		},
	}
}

func newCreateUserCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create new user",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var err error
			if username == "" {
				if username, err = a.opts.Prompter.Input(ctx, "Username"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.opts.Prompter.Password(ctx, "Password", true); err != nil {
					return err
				}
			}

			if err := a.sessions.CreateUser(ctx, username, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("User successfully created!"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username of the new user")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password of the new user")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var (
		username, password string
		remember           bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in",
		Long: `Log in, replacing any session that is already open.

With --remember the credentials are kept in the system keyring, and a later
"todo login" without flags uses them instead of prompting.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if username == "" && password == "" {
				saved, ok, err := a.opts.Vault.LoadLogin()
				if err != nil {
					a.logger.Warn("reading remembered login", zap.Error(err))
				}
				if ok {
					username, password = saved.Username, saved.Password
					fmt.Fprintf(out, "Using remembered login for %s\n", username)
				}
			}

			var err error
			if username == "" {
				if username, err = a.opts.Prompter.Input(ctx, "Username"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.opts.Prompter.Password(ctx, "Password", false); err != nil {
					return err
				}
			}
			username, password = strings.TrimSpace(username), strings.TrimSpace(password)

			ok, err := a.sessions.Login(ctx, username, password)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, theme.WarningStyle.Render("Wrong username or password"))
				return nil
			}

			if remember {
				err := a.opts.Vault.SaveLogin(credential.Login{Username: username, Password: password})
				if err != nil {
					a.logger.Warn("remembering login", zap.Error(err))
					fmt.Fprintln(cmd.ErrOrStderr(), theme.HelpStyle.Render("Could not remember login: "+err.Error()))
				}
			}

			fmt.Fprintln(out, theme.SuccessStyle.Render(fmt.Sprintf("Welcome, %s!", username)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep credentials in the system keyring")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if _, err := a.sessions.CurrentUserID(ctx); err != nil {
				return err
			}

			if !yes {
				ok, err := a.opts.Prompter.Confirm(ctx, "Are you sure?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted!")
					return nil
				}
			}

			if err := a.sessions.Logout(ctx); err != nil {
				return err
			}
			if err := a.opts.Vault.ForgetLogin(); err != nil {
				a.logger.Warn("forgetting remembered login", zap.Error(err))
			}

			fmt.Fprintln(out, theme.SuccessStyle.Render("You successfully logged out."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.sessions.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), user.Username)
			return nil
		},
	}
}

func newPasswdCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of the logged-in user",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Check the session before prompting.
			if _, err := a.sessions.CurrentUserID(ctx); err != nil {
				return err
			}

			if password == "" {
				var err error
				if password, err = a.opts.Prompter.Password(ctx, "New password", true); err != nil {
					return err
				}
			}

			if err := a.sessions.ChangePassword(ctx, password); err != nil {
				return err
			}
			if err := a.opts.Vault.ForgetLogin(); err != nil {
				a.logger.Warn("forgetting remembered login", zap.Error(err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), theme.SuccessStyle.Render("Password changed."))
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	return cmd
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{msg: err.Error()}
	}
	return nil
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{msg: err.Error()}
		}
		return nil
	}
}
