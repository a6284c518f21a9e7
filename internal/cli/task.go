package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/service"
	"github.com/nhle/todo/internal/theme"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		day             string
		done, important bool
	)

	cmd := &cobra.Command{
		Use:   "add DESCRIPTION",
		Short: "Create a task",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			description := args[0]

			date, err := parseDay(day, a.now())
			if err != nil {
				return err
			}
			if utf8.RuneCountInString(description) > model.MaxDescriptionLength {
				return model.ErrDescriptionTooLong
			}

			userID, err := a.sessions.CurrentUserID(ctx)
			if err != nil {
				return err
			}

			task := &model.Task{
				UserID:      userID,
				TaskDate:    date,
				Description: description,
				Done:        done,
				Important:   important,
			}
			return a.tasks.Create(ctx, task)
		},
	}

	cmd.Flags().StringVarP(&day, "day", "d", "today", "day of the task: "+dayHelp)
	cmd.Flags().BoolVar(&done, "done", false, "mark the task as done")
	cmd.Flags().BoolVarP(&important, "important", "i", false, "mark the task as important")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a list of tasks for a particular day (for today by default)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			date, err := parseDay(day, a.now())
			if err != nil {
				return err
			}
			done, err := tristate(cmd, "done", "not-done")
			if err != nil {
				return err
			}
			important, err := tristate(cmd, "important", "not-important")
			if err != nil {
				return err
			}

			userID, err := a.sessions.CurrentUserID(ctx)
			if err != nil {
				return err
			}

			tasks, err := a.tasks.List(ctx, service.ListFilter{
				UserID:    userID,
				Date:      &date,
				Done:      done,
				Important: important,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, theme.HelpStyle.Render("No tasks found for "+model.FormatDate(date)))
				return nil
			}
			fmt.Fprintln(out, renderTasks(date, tasks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&day, "day", "d", "today", "day to show: "+dayHelp)
	cmd.Flags().Bool("done", false, "show only done tasks")
	cmd.Flags().Bool("not-done", false, "show only tasks not done")
	cmd.Flags().Bool("important", false, "show only important tasks")
	cmd.Flags().Bool("not-important", false, "show only tasks that are not important")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var newDay, desc string

	cmd := &cobra.Command{
		Use:   "update DAY RANK",
		Short: "Update a task by day and rank",
		Long: `Update the task at RANK on DAY. DAY is ` + dayHelp + `.

Moving a task to another day makes it the newest task of that day.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			now := a.now()

			date, taskRank, err := dayAndRank(args, now)
			if err != nil {
				return err
			}

			var changes model.TaskChanges
			if cmd.Flags().Changed("day") {
				d, err := parseDay(newDay, now)
				if err != nil {
					return err
				}
				changes.TaskDate = &d
			}
			if changes.Done, err = tristate(cmd, "done", "not-done"); err != nil {
				return err
			}
			if changes.Important, err = tristate(cmd, "important", "not-important"); err != nil {
				return err
			}
			if cmd.Flags().Changed("desc") {
				changes.Description = &desc
			}

			if changes.IsEmpty() {
				fmt.Fprintln(out, theme.WarningStyle.Render("Define at least one parameter to change"))
				return nil
			}
			if changes.Description != nil && utf8.RuneCountInString(desc) > model.MaxDescriptionLength {
				fmt.Fprintln(out, theme.WarningStyle.Render(fmt.Sprintf(
					"Too long description. It should contain no more than %d symbols.", model.MaxDescriptionLength)))
				return nil
			}

			userID, err := a.sessions.CurrentUserID(ctx)
			if err != nil {
				return err
			}
			return a.tasks.Update(ctx, date, taskRank, userID, changes)
		},
	}

	cmd.Flags().StringVarP(&newDay, "day", "d", "", "new day for the task: "+dayHelp)
	cmd.Flags().Bool("done", false, "mark the task as done")
	cmd.Flags().Bool("not-done", false, "mark the task as not done")
	cmd.Flags().Bool("important", false, "mark the task as important")
	cmd.Flags().Bool("not-important", false, "mark the task as not important")
	cmd.Flags().StringVar(&desc, "desc", "", "new description for the task")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete DAY RANK",
		Short: "Delete a task by day and rank",
		Long:  `Delete the task at RANK on DAY. DAY is ` + dayHelp + `. Later tasks of that day move up one rank.`,
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			date, taskRank, err := dayAndRank(args, a.now())
			if err != nil {
				return err
			}

			userID, err := a.sessions.CurrentUserID(ctx)
			if err != nil {
				return err
			}
			return a.tasks.Delete(ctx, date, taskRank, userID)
		},
	}
}
