package cli

import (
	"fmt"
	"io"

	"github.com/sadopc/dayledger/internal/hhmm"
	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/stats"
	"github.com/sadopc/dayledger/internal/store"
	"github.com/spf13/cobra"
)

func newDayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show one day's attendance, breaks and sessions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := app.Workspace.Today()
			if len(args) == 1 {
				date = args[0]
			}
			return printDay(cmd.OutOrStdout(), app, date)
		},
	}
}

func printDay(w io.Writer, app *App, date string) error {
	var (
		day   ledger.DayEntry
		found bool
		names map[string]string
	)
	app.Workspace.Read(func(l *ledger.Ledger) {
		day, found = l.Day(date)
		names = l.ProjectNames()
	})

	title(w, date)
	if !found {
		_, _ = fmt.Fprintln(w, faintColor.Sprint("No entry."))
		return nil
	}

	mode := stats.ModeFor(day, app.Workspace.Now())
	work := stats.WorkMinutes(day, mode)
	goal := store.DailyGoal(app.Store)

	tbl := newTable()
	tbl.AddRow("Attendance", formatMinutes(stats.AttendanceMinutes(day, mode)))
	tbl.AddRow("Breaks", formatMinutes(stats.BreakMinutes(day, mode)))
	tbl.AddRow("Work", fmt.Sprintf("%s  (%s of %s goal)", formatMinutes(work), percent(work, goal), formatMinutes(goal)))
	_, _ = fmt.Fprintln(w, tbl)

	if periods := day.Periods(); len(periods) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, boldColor.Sprint("Attendance"))
		tbl := newTable()
		for _, a := range periods {
			tbl.AddRow(span(a.Start, a.End), string(a.Location), formatMinutes(hhmm.Duration(a.Start, a.End, mode)))
		}
		_, _ = fmt.Fprintln(w, tbl)
	}

	if breaks := day.AllBreaks(); len(breaks) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, boldColor.Sprint("Breaks"))
		tbl := newTable()
		for _, b := range breaks {
			tbl.AddRow(span(b.Start, b.End), formatMinutes(hhmm.Duration(b.Start, b.End, mode)))
		}
		_, _ = fmt.Fprintln(w, tbl)
	}

	if len(day.Projects) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, boldColor.Sprint("Projects"))
		tbl := newTable()
		for _, pe := range day.Projects {
			name, ok := names[pe.ProjectID]
			if !ok {
				name = "(deleted project)"
			}
			tbl.AddRow(name, formatMinutes(hhmm.Sum(pe.WorkSessions, mode)), fmt.Sprintf("%d sessions", len(pe.WorkSessions)), orDash(pe.Notes))
			for _, s := range pe.WorkSessions {
				tbl.AddRow("", faintColor.Sprint(span(s.Start, s.End)), "", s.DoneNotes)
			}
		}
		_, _ = fmt.Fprintln(w, tbl)
	}

	if day.ScheduleNotes != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, boldColor.Sprint("Notes"))
		_, _ = fmt.Fprintln(w, day.ScheduleNotes)
	}

	for _, warn := range ledger.Warnings(day) {
		_, _ = fmt.Fprintln(w, warnColor.Sprint("warning: "+warn))
	}
	return nil
}

func span(start, end string) string {
	if end == "" {
		return start + " - now"
	}
	return start + " - " + end
}
