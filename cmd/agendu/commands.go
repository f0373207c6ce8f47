package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"agendu/internal/deadline"
	"agendu/internal/tasks"
	"agendu/internal/ui"
	"agendu/internal/view"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "agendu",
		Short: "Track academic tasks, deadlines and personal activities",
		Long: `agendu keeps academic tasks and personal activities in a local store.

Run without arguments to open the interactive view.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), configPath, true)
			if err != nil {
				return err
			}
			defer a.close()
			return ui.Run(ui.Deps{
				Manager:    a.manager,
				Summarizer: a.summarizer,
				Logger:     a.logger,
			}, a.cfg)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $AGENDU_CONFIG or the user config dir)")

	root.AddCommand(newListCmd(&configPath), newUpcomingCmd(&configPath), newDayCmd(&configPath), newSweepCmd(&configPath))
	return root
}

func newListCmd(configPath *string) *cobra.Command {
	var status, priority string
	var activities bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks using the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := view.ParseStatus(status)
			if err != nil {
				return err
			}
			pf, err := view.ParsePriorityFilter(priority)
			if err != nil {
				return err
			}
			a, err := setup(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.mount(); err != nil {
				return err
			}
			now := time.Now()
			if activities {
				printActivities(cmd.OutOrStdout(), view.Activities(a.manager.Activities()))
				return nil
			}
			printTasks(cmd.OutOrStdout(), view.Tasks(a.manager.Tasks(), sf, pf, now))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(view.StatusAll), "status filter: all, pending or completed")
	cmd.Flags().StringVar(&priority, "priority", string(view.PriorityAll), "priority filter: all, high, medium or low")
	cmd.Flags().BoolVar(&activities, "activities", false, "list personal activities instead of tasks")
	return cmd
}

func newUpcomingCmd(configPath *string) *cobra.Command {
	var planned bool

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Print deadlines in the next seven days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.mount(); err != nil {
				return err
			}
			now := time.Now()
			printUpcoming(cmd.OutOrStdout(), deadline.Upcoming(a.manager.Tasks(), planned, now), planned, now)
			return nil
		},
	}
	cmd.Flags().BoolVar(&planned, "planned", false, "include planned work sessions")
	return cmd
}

func newDayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Print tasks due or planned on a calendar day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if len(args) == 1 {
				d, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
				if err != nil {
					return fmt.Errorf("invalid day %q: %w", args[0], err)
				}
				day = d
			}
			a, err := setup(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.mount(); err != nil {
				return err
			}
			list := deadline.OnDay(a.manager.Tasks(), day)
			if len(list) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing scheduled on %s.\n", day.Format("2006-01-02"))
				return nil
			}
			printTasks(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newSweepCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove items completed more than a day ago",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer a.close()
			removed := 0
			a.manager.Subscribe(tasks.ObserverFunc(func(e tasks.Event) {
				if e.Kind == tasks.ItemsExpired {
					removed += e.Count
				}
			}))
			if err := a.mount(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d item(s) completed over a day ago\n", removed)
			return nil
		},
	}
}

func printTasks(w io.Writer, list []tasks.Task) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks match the current filters.")
		return
	}
	for _, t := range list {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s (%s)", box, t.Title, t.Priority)
		if t.DueDate != nil {
			line += "  due " + t.DueDate.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintln(w, line)
	}
}

func printActivities(w io.Writer, list []tasks.Activity) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No personal activities yet.")
		return
	}
	for _, a := range list {
		box := "[ ]"
		if a.Completed {
			box = "[x]"
		}
		fmt.Fprintf(w, "%s %s\n", box, a.Title)
	}
}

func printUpcoming(w io.Writer, events []deadline.Event, planned bool, now time.Time) {
	if len(events) == 0 {
		fmt.Fprintln(w, deadline.EmptyMessage(planned))
		return
	}
	for _, e := range events {
		label := deadline.Urgency(e.Date, now)
		if e.Kind == deadline.KindPlanned {
			label += " (planned)"
		}
		fmt.Fprintf(w, "%s  %s  %s\n", e.Date.Local().Format("2006-01-02"), e.Title, label)
	}
}
