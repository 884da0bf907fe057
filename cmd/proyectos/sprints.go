package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"proyectos/internal/app"
	"proyectos/internal/tracker"
)

// withTracker opens the configured slot, loads the tracker and runs fn.
func withTracker(cmd *cobra.Command, fn func(ctx context.Context, t *tracker.Tracker) error) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, closer, err := app.OpenSlot(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Warn("close slot", slog.String("error", err.Error()))
		}
	}()

	t, err := tracker.Open(ctx, store, logger)
	if err != nil {
		return err
	}
	return fn(ctx, t)
}

func newSprintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprints",
		Short: "Sprint planning commands",
	}

	cmd.AddCommand(newSprintsListCmd())
	cmd.AddCommand(newSprintsAddCmd())
	cmd.AddCommand(newSprintsProgressCmd())
	cmd.AddCommand(newSprintsDeleteCmd())
	cmd.AddCommand(newSprintsDatesCmd())
	cmd.AddCommand(newSprintsCompleteCmd())
	return cmd
}

func newSprintsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				return printSprints(cmd.OutOrStdout(), t)
			})
		},
	}
}

func printSprints(out io.Writer, t *tracker.Tracker) error {
	sprints := t.Sprints()
	if len(sprints) == 0 {
		fmt.Fprintln(out, "No sprints.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTART\tEND\tTASKS\tSTATUS")
	for _, s := range sprints {
		done := 0
		for _, task := range s.Tasks {
			if task.Completed {
				done++
			}
		}
		status := "pending"
		if s.Completed {
			status = "completed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			s.ID, s.Name, orDash(s.StartDate), orDash(s.EndDate), done, len(s.Tasks), status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Progress: %d%%\n", t.RoundedProgress())
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newSprintsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <count>",
		Short: "Append empty sprints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("count %q is not a number", args[0])
			}
			return withTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				added, err := t.AddSprints(ctx, n)
				if err != nil {
					return err
				}
				for _, s := range added {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", s.Name, s.ID)
				}
				return nil
			})
		},
	}
}

func newSprintsProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show the share of completed sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				fmt.Fprintf(cmd.OutOrStdout(), "%d%%\n", t.RoundedProgress())
				return nil
			})
		},
	}
}

func newSprintsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete the given sprints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				for _, id := range args {
					selected, err := t.ToggleSelection(id)
					if err != nil {
						return fmt.Errorf("sprint %s: %w", id, err)
					}
					// A repeated id toggles back off; select it again.
					if !selected {
						if _, err := t.ToggleSelection(id); err != nil {
							return err
						}
					}
				}
				n, err := t.DeleteSelected(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d sprint(s)\n", n)
				return nil
			})
		},
	}
}

func newSprintsDatesCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "dates <id>",
		Short: "Set or clear a sprint's start and end dates (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startSet, endSet := cmd.Flags().Changed("start"), cmd.Flags().Changed("end")
			if !startSet && !endSet {
				return fmt.Errorf("nothing to update: pass --start and/or --end")
			}
			return withTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				if startSet {
					if err := t.SetStartDate(ctx, args[0], start); err != nil {
						return err
					}
				}
				if endSet {
					if err := t.SetEndDate(ctx, args[0], end); err != nil {
						return err
					}
				}
				s, err := t.Sprint(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", s.Name, orDash(s.StartDate), orDash(s.EndDate))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start date, empty to clear")
	cmd.Flags().StringVar(&end, "end", "", "end date, empty to clear")
	return cmd
}

func newSprintsCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a sprint completed once all its tasks are",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracker(cmd, func(ctx context.Context, t *tracker.Tracker) error {
				if err := t.CompleteSprint(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed sprint %s (progress %d%%)\n", args[0], t.RoundedProgress())
				return nil
			})
		},
	}
}
