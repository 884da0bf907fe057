package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"proyectos/internal/models"
	"proyectos/internal/tracker"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands for one sprint",
	}

	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksAddCmd())
	cmd.AddCommand(newTasksEditCmd())
	cmd.AddCommand(newTasksCompleteCmd())
	cmd.AddCommand(newTasksDeleteCmd())
	return cmd
}

// withDetail opens the task editor of the sprint named by sprintID.
func withDetail(cmd *cobra.Command, sprintID string, fn func(ctx context.Context, d *tracker.Detail) error) error {
	return withTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
		d, err := t.Detail(sprintID)
		if err != nil {
			return fmt.Errorf("sprint %s: %w", sprintID, err)
		}
		return fn(ctx, d)
	})
}

func taskFlags(flags *pflag.FlagSet, form *tracker.TaskForm, status *string) {
	flags.StringVar(&form.Name, "name", "", "task name")
	flags.StringVar(&form.Description, "description", "", "task description")
	flags.StringVar(&form.DueDate, "due", "", "due date (YYYY-MM-DD)")
	flags.StringVar(status, "status", "", "Pendiente, En progreso, Urgente or Finalizado")
	flags.StringVar(&form.Role, "role", "", "responsible role")
}

func newTasksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <sprint-id>",
		Short: "List a sprint's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDetail(cmd, args[0], func(ctx context.Context, d *tracker.Detail) error {
				tasks, err := d.Tasks()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(tasks) == 0 {
					fmt.Fprintln(out, "No tasks.")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tDUE\tSTATUS\tROLE\tDONE")
				for _, task := range tasks {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
						task.ID, task.Name, orDash(task.DueDate), task.Status, orDash(task.Role), task.Completed)
				}
				return w.Flush()
			})
		},
	}
}

func newTasksAddCmd() *cobra.Command {
	var (
		form   tracker.TaskForm
		status string
	)

	cmd := &cobra.Command{
		Use:   "add <sprint-id>",
		Short: "Add a task to a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Status, _ = models.ParseTaskStatus(status)
			return withDetail(cmd, args[0], func(ctx context.Context, d *tracker.Detail) error {
				task, err := d.Submit(ctx, form)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %s (%s)\n", task.ID, task.Status)
				return nil
			})
		},
	}

	taskFlags(cmd.Flags(), &form, &status)
	return cmd
}

func newTasksEditCmd() *cobra.Command {
	var (
		form   tracker.TaskForm
		status string
	)

	cmd := &cobra.Command{
		Use:   "edit <sprint-id> <task-id>",
		Short: "Change the fields of a task; unset flags keep their value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			return withDetail(cmd, args[0], func(ctx context.Context, d *tracker.Detail) error {
				current, err := d.BeginEdit(args[1])
				if err != nil {
					return err
				}
				if flags.Changed("name") {
					current.Name = form.Name
				}
				if flags.Changed("description") {
					current.Description = form.Description
				}
				if flags.Changed("due") {
					current.DueDate = form.DueDate
				}
				if flags.Changed("status") {
					current.Status, _ = models.ParseTaskStatus(status)
				}
				if flags.Changed("role") {
					current.Role = form.Role
				}
				task, err := d.Submit(ctx, current)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", task.ID)
				return nil
			})
		},
	}

	taskFlags(cmd.Flags(), &form, &status)
	return cmd
}

func newTasksCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <sprint-id> <task-id>",
		Short: "Mark a task finished",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDetail(cmd, args[0], func(ctx context.Context, d *tracker.Detail) error {
				if err := d.CompleteTask(ctx, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s\n", args[1])
				return nil
			})
		},
	}
}

func newTasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <sprint-id> <task-id>",
		Short: "Remove a task from a sprint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDetail(cmd, args[0], func(ctx context.Context, d *tracker.Detail) error {
				if err := d.DeleteTask(ctx, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[1])
				return nil
			})
		},
	}
}
