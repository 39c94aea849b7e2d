package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayledger/internal/stats"
	"github.com/sadopc/dayledger/internal/workspace"
)

var reportPeriods = []stats.Period{stats.PeriodWeek, stats.PeriodMonth, stats.PeriodAll}

type reportsModel struct {
	ws          *workspace.Workspace
	heatmapDays int
	width       int
	height      int

	mode   int // index into reportPeriods
	offset int // periods back from the current one

	summary  stats.Summary
	current  int
	longest  int
	heat     stats.Heatmap
	clockIn  string
	clockOut string

	projectChart barchart.Model
	weekdayChart barchart.Model
}

func newReportsModel(ws *workspace.Workspace, heatmapDays int) reportsModel {
	return reportsModel{
		ws:           ws,
		heatmapDays:  heatmapDays,
		projectChart: barchart.New(60, 10),
		weekdayChart: barchart.New(60, 10),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r reportsModel) period() stats.Period {
	return reportPeriods[r.mode]
}

// reference is a date inside the period being shown.
func (r reportsModel) reference(now time.Time) time.Time {
	switch r.period() {
	case stats.PeriodWeek:
		return now.AddDate(0, 0, -7*r.offset)
	case stats.PeriodMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(0, -r.offset, 0)
	}
	return now
}

type reportsDataMsg struct {
	summary  stats.Summary
	current  int
	longest  int
	heat     stats.Heatmap
	clockIn  string
	clockOut string
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		st := r.ws.State()
		now := r.ws.Now()
		msg := reportsDataMsg{
			summary: stats.Summarize(st, stats.RangeFor(r.period(), r.reference(now)), now),
			heat:    stats.BuildHeatmap(st.Days, now, r.heatmapDays),
		}
		msg.current, msg.longest = stats.Streaks(st.Days, now)
		msg.clockIn, msg.clockOut = stats.ClockAverages(st.Days)
		return msg
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.summary = msg.summary
		r.current, r.longest = msg.current, msg.longest
		r.heat = msg.heat
		r.clockIn, r.clockOut = msg.clockIn, msg.clockOut
		r.buildCharts()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if r.period() != stats.PeriodAll {
				r.offset++
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Enter):
			r.mode = (r.mode + 1) % len(reportPeriods)
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildCharts() {
	chartWidth := max(20, (r.width-12)/2)
	chartHeight := 10
	if r.height > 40 {
		chartHeight = 14
	}

	var projectBars []barchart.BarData
	for _, p := range r.summary.Projects {
		name := p.Name
		color := p.Color
		if name == "" {
			name = "(deleted)"
			color = string(colorMuted)
		}
		projectBars = append(projectBars, barchart.BarData{
			Label: truncate(name, 8),
			Values: []barchart.BarValue{{
				Name:  name,
				Value: float64(p.Minutes) / 60,
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(color)),
			}},
		})
	}
	r.projectChart = barchart.New(chartWidth, chartHeight)
	if len(projectBars) > 0 {
		r.projectChart.PushAll(projectBars)
	}
	r.projectChart.Draw()

	weekdayBars := make([]barchart.BarData, 0, len(r.summary.Weekdays))
	for i, wd := range r.summary.Weekdays {
		weekdayBars = append(weekdayBars, barchart.BarData{
			Label: stats.WeekdayNames[i],
			Values: []barchart.BarValue{{
				Name:  stats.WeekdayNames[i],
				Value: wd.Average / 60,
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}
	r.weekdayChart = barchart.New(chartWidth, chartHeight)
	r.weekdayChart.PushAll(weekdayBars)
	r.weekdayChart.Draw()
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func (r reportsModel) view() string {
	w := r.width - 4

	var tabs []string
	for i, p := range reportPeriods {
		name := strings.ToUpper(p.String()[:1]) + p.String()[1:]
		if i == r.mode {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
	dateLabel := mutedStyle.Render(r.summary.Range.String())

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Hours by project"), r.projectChart.View()),
		"    ",
		lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Average hours by weekday"), r.weekdayChart.View()),
	)

	nav := mutedStyle.Render("  ←/→: navigate  enter: switch period")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.renderTotals(), "", charts, "", r.renderProjectTable(), "", r.renderHeatmap(), "", nav,
		),
	)
}

func (r reportsModel) renderTotals() string {
	s := r.summary
	cell := func(label, value string) string {
		return lipgloss.NewStyle().Width(18).Render(lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(label), value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Work", bigNumberStyle.Render(formatMinutes(s.WorkMinutes))),
		cell("Attendance", highlightStyle.Render(formatMinutes(s.AttendanceMinutes))),
		cell("Breaks", highlightStyle.Render(formatMinutes(s.BreakMinutes))),
		cell("Days worked", highlightStyle.Render(fmt.Sprint(s.DaysWorked))),
		cell("Avg in / out", highlightStyle.Render(orDash(s.AvgClockIn)+" / "+orDash(s.AvgClockOut))),
		cell("Streak", successStyle.Render(fmt.Sprintf("%d", r.current))+mutedStyle.Render(fmt.Sprintf(" (best %d)", r.longest))),
	)
}

func orDash(s string) string {
	if s == "" {
		return "--:--"
	}
	return s
}

func (r reportsModel) renderProjectTable() string {
	if len(r.summary.Projects) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %10s %8s %6s", "Project", "Time", "Hours", "Share")))
	for _, p := range r.summary.Projects {
		name := p.Name
		if name == "" {
			name = "(deleted project)"
		}
		share := 0
		if r.summary.WorkMinutes > 0 {
			share = p.Minutes * 100 / r.summary.WorkMinutes
		}
		rows = append(rows, fmt.Sprintf("  %s %-22s %10s %8s %5d%%",
			dot(p.Color), name, formatMinutes(p.Minutes), formatHours(p.Minutes), share))
	}
	return strings.Join(rows, "\n")
}

// renderHeatmap draws one column per week and one row per weekday.
func (r reportsModel) renderHeatmap() string {
	if r.heat.Weeks == 0 {
		return ""
	}
	grid := make([][]string, 7)
	for i := range grid {
		grid[i] = make([]string, r.heat.Weeks)
		for j := range grid[i] {
			grid[i][j] = "  "
		}
	}
	for _, c := range r.heat.Cells {
		style := lipgloss.NewStyle().Foreground(heatLevels[r.heat.Level(c.Minutes)])
		grid[c.Weekday][c.Week] = style.Render("■ ")
	}

	rows := []string{titleStyle.Render(fmt.Sprintf("Last %d days", len(r.heat.Cells))) +
		mutedStyle.Render(fmt.Sprintf("  (clock in %s, out %s)", orDash(r.clockIn), orDash(r.clockOut)))}
	for i, cells := range grid {
		rows = append(rows, mutedStyle.Render(stats.WeekdayNames[i]+" ")+strings.Join(cells, ""))
	}
	return strings.Join(rows, "\n")
}
