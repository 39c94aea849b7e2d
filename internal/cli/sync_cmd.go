package cli

import (
	"fmt"
	"io"

	"github.com/sadopc/dayledger/internal/export"
	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/stats"
	"github.com/sadopc/dayledger/internal/store"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Exchange projects and time with an external system",
	}
	cmd.AddCommand(newSyncPushCmd(app), newSyncPullCmd(app), newSyncLogCmd(app))
	return cmd
}

func newSyncPushCmd(app *App) *cobra.Command {
	var out, periodName, system string
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push closed work sessions as time records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := stats.ParsePeriod(periodName)
			if err != nil {
				return err
			}
			st := app.Workspace.State()
			records := export.SyncRecords(st, stats.RangeFor(period, app.Workspace.Now()))
			res := export.Push(cmd.Context(), export.FileSink{Path: out}, records)
			return finishSync(cmd.OutOrStdout(), app, system, "push", res)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "File to write records to")
	cmd.Flags().StringVar(&periodName, "period", "week", "Period to push: day, week, month or all")
	cmd.Flags().StringVar(&system, "system", "file", "Name recorded for the external system")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newSyncPullCmd(app *App) *cobra.Command {
	var system string
	var applyUpdates bool
	cmd := &cobra.Command{
		Use:   "pull <file>",
		Short: "Pull projects from an external system's export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapper := export.DefaultMapper(system, app.Workspace.Now())
			res := export.PullProjects(cmd.Context(), app.Workspace, export.FileSource{Path: args[0]}, mapper, applyUpdates)
			return finishSync(cmd.OutOrStdout(), app, system, "pull", res)
		},
	}
	cmd.Flags().StringVar(&system, "system", "file", "Name of the external system")
	cmd.Flags().BoolVar(&applyUpdates, "apply-updates", false, "Overwrite matching projects")
	return cmd
}

// finishSync records the run and reports it. A failed run is still recorded
// before its error is returned.
func finishSync(w io.Writer, app *App, system, direction string, res export.SyncResult) error {
	run := store.SyncRun{
		System:    system,
		Direction: direction,
		Success:   res.Success,
		Message:   res.Message,
		Created:   res.Created + res.Pushed,
		Updated:   res.Updated,
		Skipped:   res.Skipped,
		At:        app.Workspace.Now(),
	}
	if _, err := app.Store.RecordSyncRun(run); err != nil {
		app.Workspace.Logger().Warn("recording sync run", "system", system, "err", err)
	}
	if !res.Success {
		return fmt.Errorf("%s %s: %s", direction, system, res.Message)
	}
	_, _ = fmt.Fprintf(w, "%s %s: %s\n", direction, system, res.Message)
	return nil
}

func newSyncLogCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent sync runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.Store.ListSyncRuns(limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(runs) == 0 {
				_, _ = fmt.Fprintln(w, "No sync runs yet.")
				return nil
			}
			tbl := newTable()
			tbl.AddRow(boldColor.Sprint("WHEN"), boldColor.Sprint("SYSTEM"), boldColor.Sprint("DIR"), boldColor.Sprint("OK"), boldColor.Sprint("MESSAGE"))
			for _, r := range runs {
				ok := "yes"
				if !r.Success {
					ok = warnColor.Sprint("no")
				}
				tbl.AddRow(r.At.Local().Format(ledger.DateLayout+" 15:04"), r.System, r.Direction, ok, r.Message)
			}
			_, _ = fmt.Fprintln(w, tbl)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}
