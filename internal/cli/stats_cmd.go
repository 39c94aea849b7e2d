package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:       "stats [day|week|month|all]",
		Short:     "Summarize work, attendance and projects",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "week", "month", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			period := stats.PeriodWeek
			if len(args) == 1 {
				p, err := stats.ParsePeriod(args[0])
				if err != nil {
					return err
				}
				period = p
			}

			now := app.Workspace.Now()
			ref := now
			if date != "" {
				t, err := time.ParseInLocation(ledger.DateLayout, date, now.Location())
				if err != nil {
					return fmt.Errorf("%w: %q", ledger.ErrInvalidDate, date)
				}
				ref = t
			}

			st := app.Workspace.State()
			sum := stats.Summarize(st, stats.RangeFor(period, ref), now)
			current, longest := stats.Streaks(st.Days, now)
			printSummary(cmd.OutOrStdout(), period, sum, current, longest)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Reference date inside the period (YYYY-MM-DD)")
	return cmd
}

func printSummary(w io.Writer, period stats.Period, sum stats.Summary, current, longest int) {
	heading := "All time"
	if period != stats.PeriodAll {
		heading = sum.Range.String()
	}
	title(w, heading)

	tbl := newTable()
	tbl.AddRow("Work", formatMinutes(sum.WorkMinutes))
	tbl.AddRow("Attendance", formatMinutes(sum.AttendanceMinutes))
	tbl.AddRow("Breaks", formatMinutes(sum.BreakMinutes))
	tbl.AddRow("Office", formatMinutes(sum.Locations[ledger.LocationOffice]))
	tbl.AddRow("Home", formatMinutes(sum.Locations[ledger.LocationHome]))
	tbl.AddRow("Days worked", sum.DaysWorked)
	tbl.AddRow("Avg clock in/out", orDash(sum.AvgClockIn)+" / "+orDash(sum.AvgClockOut))
	tbl.AddRow("Streak", fmt.Sprintf("%d days (longest %d)", current, longest))
	_, _ = fmt.Fprintln(w, tbl)

	if len(sum.Projects) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, boldColor.Sprint("Projects"))
		tbl := newTable()
		for _, p := range sum.Projects {
			name := p.Name
			if name == "" {
				name = "(deleted project)"
			}
			tbl.AddRow(name, formatMinutes(p.Minutes), percent(p.Minutes, sum.WorkMinutes), bar(p.Minutes, sum.WorkMinutes, 20))
		}
		_, _ = fmt.Fprintln(w, tbl)
	}

	if sum.DaysWorked > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, boldColor.Sprint("Weekday averages"))
		tbl := newTable()
		for i, wd := range sum.Weekdays {
			tbl.AddRow(stats.WeekdayNames[i], formatMinutes(int(wd.Average)), fmt.Sprintf("%d days", wd.Days))
		}
		_, _ = fmt.Fprintln(w, tbl)
	}
}
