package cli

import (
	"fmt"

	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/spf13/cobra"
)

// captureFlags are shared by every command that stamps a time on a day.
type captureFlags struct {
	date string
	at   string
}

func (f *captureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Day to record on (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&f.at, "at", "", "Time to record (HH:MM, default now)")
}

func (f *captureFlags) resolve(app *App) (date, at string) {
	date, at = f.date, f.at
	if date == "" {
		date = app.Workspace.Today()
	}
	if at == "" {
		at = app.Workspace.ClockTime()
	}
	return date, at
}

func newClockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Clock in and out",
	}
	cmd.AddCommand(newClockInCmd(app), newClockOutCmd(app))
	return cmd
}

func newClockInCmd(app *App) *cobra.Command {
	var (
		f        captureFlags
		location string
	)
	cmd := &cobra.Command{
		Use:   "in",
		Short: "Open an attendance period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, at := f.resolve(app)
			loc := app.Workspace.DefaultLocation()
			if location != "" {
				loc = ledger.ParseLocation(location)
			}
			err := app.Workspace.Mutate(cmd.Context(), "clock in", func(l *ledger.Ledger) error {
				_, err := l.ClockIn(date, at, loc)
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Clocked in at %s (%s).\n", at, loc)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&location, "location", "", "office or home")
	return cmd
}

func newClockOutCmd(app *App) *cobra.Command {
	var f captureFlags
	cmd := &cobra.Command{
		Use:   "out",
		Short: "Close the open attendance period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, at := f.resolve(app)
			err := app.Workspace.Mutate(cmd.Context(), "clock out", func(l *ledger.Ledger) error {
				_, err := l.ClockOut(date, at)
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Clocked out at %s.\n", at)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newBreakCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Start and end breaks",
	}

	var startFlags, endFlags captureFlags
	start := &cobra.Command{
		Use:   "start",
		Short: "Start a break",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, at := startFlags.resolve(app)
			err := app.Workspace.Mutate(cmd.Context(), "start break", func(l *ledger.Ledger) error {
				_, err := l.StartBreak(date, at)
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Break started at %s.\n", at)
			return nil
		},
	}
	startFlags.register(start)

	end := &cobra.Command{
		Use:   "end",
		Short: "End the running break",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, at := endFlags.resolve(app)
			err := app.Workspace.Mutate(cmd.Context(), "end break", func(l *ledger.Ledger) error {
				_, err := l.EndBreak(date, at)
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Break ended at %s.\n", at)
			return nil
		},
	}
	endFlags.register(end)

	cmd.AddCommand(start, end)
	return cmd
}

func newWorkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Track work sessions on projects",
	}

	var startFlags, stopFlags captureFlags
	start := &cobra.Command{
		Use:   "start <project>",
		Short: "Start a session, stopping any running one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, at := startFlags.resolve(app)
			var name string
			err := app.Workspace.Mutate(cmd.Context(), "start session", func(l *ledger.Ledger) error {
				p, err := findProject(l, args[0])
				if err != nil {
					return err
				}
				name = p.Name
				_, err = l.StartSession(date, p.ID, at)
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Working on %s since %s.\n", name, at)
			return nil
		},
	}
	startFlags.register(start)

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, at := stopFlags.resolve(app)
			err := app.Workspace.Mutate(cmd.Context(), "stop session", func(l *ledger.Ledger) error {
				_, err := l.StopSessions(date, at)
				return err
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stopped at %s.\n", at)
			return nil
		},
	}
	stopFlags.register(stop)

	cmd.AddCommand(start, stop)
	return cmd
}
