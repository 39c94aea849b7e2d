package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayledger/internal/hhmm"
	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/stats"
	"github.com/sadopc/dayledger/internal/store"
	"github.com/sadopc/dayledger/internal/workspace"
)

type dashboardModel struct {
	ctx      context.Context
	ws       *workspace.Workspace
	settings store.SettingsReader
	width    int
	height   int

	date     string
	day      ledger.DayEntry
	found    bool
	projects []ledger.Project
	names    map[string]string
	goal     int

	// Project picker state
	picking      bool
	pickerCursor int

	notes   textarea.Model
	editing bool
}

func newDashboardModel(ctx context.Context, ws *workspace.Workspace, settings store.SettingsReader) dashboardModel {
	ta := textarea.New()
	ta.Placeholder = "Plans, meetings, reminders..."
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	return dashboardModel{
		ctx:      ctx,
		ws:       ws,
		settings: settings,
		date:     ws.Today(),
		notes:    ta,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.notes.SetWidth(max(20, w-10))
}

type dashboardDataMsg struct {
	date     string
	day      ledger.DayEntry
	found    bool
	projects []ledger.Project
	names    map[string]string
	goal     int
}

func (d dashboardModel) loadData() tea.Cmd {
	date := d.date
	return func() tea.Msg {
		msg := dashboardDataMsg{date: date, goal: store.DailyGoal(d.settings)}
		d.ws.Read(func(l *ledger.Ledger) {
			msg.day, msg.found = l.Day(date)
			msg.projects = l.Projects()
			msg.names = l.ProjectNames()
		})
		return msg
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.date != d.date {
			return d, nil
		}
		d.day = msg.day
		d.found = msg.found
		d.projects = msg.projects
		d.names = msg.names
		d.goal = msg.goal
		if d.pickerCursor >= len(d.projects) {
			d.pickerCursor = max(0, len(d.projects)-1)
		}
		return d, nil

	case tea.KeyMsg:
		if d.editing {
			return d.updateNotes(msg)
		}
		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Left):
			d.date = shiftDate(d.date, -1)
			return d, d.loadData()
		case key.Matches(msg, keys.Right):
			d.date = shiftDate(d.date, 1)
			return d, d.loadData()

		case key.Matches(msg, keys.ClockIn):
			at, loc, date := d.ws.ClockTime(), d.ws.DefaultLocation(), d.date
			return d, d.mutate("clock in", func(l *ledger.Ledger) error {
				_, err := l.ClockIn(date, at, loc)
				return err
			})

		case key.Matches(msg, keys.ClockOut):
			at, date := d.ws.ClockTime(), d.date
			return d, d.mutate("clock out", func(l *ledger.Ledger) error {
				_, err := l.ClockOut(date, at)
				return err
			})

		case key.Matches(msg, keys.Break):
			at, date := d.ws.ClockTime(), d.date
			if _, open := d.openBreak(); open {
				return d, d.mutate("end break", func(l *ledger.Ledger) error {
					_, err := l.EndBreak(date, at)
					return err
				})
			}
			return d, d.mutate("start break", func(l *ledger.Ledger) error {
				_, err := l.StartBreak(date, at)
				return err
			})

		case key.Matches(msg, keys.Start):
			if len(d.projects) == 0 {
				return d, errorStatus("No projects yet. Press 2 to go to Projects and create one.")
			}
			if len(d.projects) == 1 {
				return d, d.startSession(d.projects[0].ID)
			}
			d.picking = true
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Stop):
			at, date := d.ws.ClockTime(), d.date
			return d, d.mutate("stop session", func(l *ledger.Ledger) error {
				_, err := l.StopSessions(date, at)
				return err
			})

		case key.Matches(msg, keys.Notes):
			d.editing = true
			d.notes.SetValue(d.day.ScheduleNotes)
			return d, d.notes.Focus()
		}
	}
	return d, nil
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(d.projects)-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		d.picking = false
		if d.pickerCursor < len(d.projects) {
			return d, d.startSession(d.projects[d.pickerCursor].ID)
		}
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

// updateNotes feeds keys to the editor and stores every change as one
// coalesced edit per day. Esc commits the pending step.
func (d dashboardModel) updateNotes(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	if key.Matches(msg, keys.Back) {
		d.editing = false
		d.notes.Blur()
		d.ws.Flush()
		return d, changed("")
	}

	before := d.notes.Value()
	var cmd tea.Cmd
	d.notes, cmd = d.notes.Update(msg)
	text := d.notes.Value()
	if text == before {
		return d, cmd
	}

	date := d.date
	err := d.ws.MutateCoalesced(d.ctx, "notes:"+date, "edit notes", func(l *ledger.Ledger) error {
		_, err := l.CreateOrUpdateDayEntry(date, ledger.DayPatch{ScheduleNotes: &text})
		return err
	})
	if err != nil {
		return d, tea.Batch(cmd, errorStatus("Notes: %v", err))
	}
	d.day.ScheduleNotes = text
	return d, tea.Batch(cmd, changed(""))
}

func (d dashboardModel) startSession(projectID string) tea.Cmd {
	at, date := d.ws.ClockTime(), d.date
	return d.mutate("start session", func(l *ledger.Ledger) error {
		_, err := l.StartSession(date, projectID, at)
		return err
	})
}

func (d dashboardModel) mutate(label string, fn func(*ledger.Ledger) error) tea.Cmd {
	if err := d.ws.Mutate(d.ctx, label, fn); err != nil {
		return errorStatus("%s: %v", label, err)
	}
	return changed(label)
}

func (d dashboardModel) openBreak() (ledger.Break, bool) {
	for _, b := range d.day.Breaks {
		if hhmm.Open(b.Start, b.End) {
			return b, true
		}
	}
	return ledger.Break{}, false
}

func (d dashboardModel) openSession() (string, ledger.WorkSession, bool) {
	for _, pe := range d.day.Projects {
		for _, s := range pe.WorkSessions {
			if hhmm.Open(s.Start, s.End) {
				return pe.ProjectID, s, true
			}
		}
	}
	return "", ledger.WorkSession{}, false
}

func (d dashboardModel) openPeriod() (ledger.AttendancePeriod, bool) {
	for _, a := range d.day.Periods() {
		if hhmm.Open(a.Start, a.End) {
			return a, true
		}
	}
	return ledger.AttendancePeriod{}, false
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	mode := stats.ModeFor(d.day, d.ws.Now())

	statusPanel := d.renderStatusPanel(contentWidth, mode)
	projectsPanel := d.renderProjectsPanel(contentWidth, mode)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderProjectPicker(contentWidth)
	} else {
		bottomPanel = d.renderNotesPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusPanel, projectsPanel, bottomPanel)
}

func (d dashboardModel) renderStatusPanel(w int, mode hhmm.Mode) string {
	title := titleStyle.Render(d.date)
	if d.date == d.ws.Today() {
		title += mutedStyle.Render("  today")
	}

	state := mutedStyle.Render("■  Not clocked in")
	if pid, s, ok := d.openSession(); ok {
		state = liveStyle.Render(fmt.Sprintf("●  Working on %s since %s", projectName(d.names, pid), s.Start))
	} else if b, ok := d.openBreak(); ok {
		state = warningStyle.Render("⏸  On break since " + b.Start)
	} else if a, ok := d.openPeriod(); ok {
		state = successStyle.Render(fmt.Sprintf("●  Clocked in since %s (%s)", a.Start, a.Location))
	}

	work := stats.WorkMinutes(d.day, mode)
	att := stats.AttendanceMinutes(d.day, mode)
	brk := stats.BreakMinutes(d.day, mode)
	loc := stats.LocationMinutes(d.day, mode)

	numbers := lipgloss.JoinHorizontal(lipgloss.Top,
		d.stat("Work", bigNumberStyle.Render(formatMinutes(work))),
		d.stat("Attendance", highlightStyle.Render(formatMinutes(att))),
		d.stat("Breaks", highlightStyle.Render(formatMinutes(brk))),
		d.stat("Office / Home", mutedStyle.Render(formatMinutes(loc[ledger.LocationOffice])+" / "+formatMinutes(loc[ledger.LocationHome]))),
	)

	rows := []string{title, state, "", numbers, "", d.renderGoal(work, w-8)}
	for _, warn := range ledger.Warnings(d.day) {
		rows = append(rows, warningStyle.Render("! "+warn))
	}

	style := panelStyle
	if d.day.HasOpenInterval() {
		style = activePanelStyle
	}
	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (d dashboardModel) stat(label, value string) string {
	return lipgloss.NewStyle().Width(20).Render(lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(label), value))
}

func (d dashboardModel) renderGoal(work, width int) string {
	if d.goal <= 0 {
		return ""
	}
	width = max(10, min(width-20, 50))
	filled := min(width, work*width/d.goal)
	bar := successStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s  %d%% of %s", bar, work*100/d.goal, formatMinutes(d.goal))
}

func (d dashboardModel) renderProjectsPanel(w int, mode hhmm.Mode) string {
	title := titleStyle.Render("Projects")
	if len(d.day.Projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No work recorded. Press s to start a session."),
		)
		return panelStyle.Width(w).Render(content)
	}

	colors := make(map[string]string, len(d.projects))
	for _, p := range d.projects {
		colors[p.ID] = p.Color
	}

	var rows []string
	rows = append(rows, title)
	for _, pe := range d.day.Projects {
		row := fmt.Sprintf("  %s %-20s %s  (%d sessions)",
			dot(colors[pe.ProjectID]),
			projectName(d.names, pe.ProjectID),
			formatMinutes(hhmm.Sum(pe.WorkSessions, mode)),
			len(pe.WorkSessions),
		)
		rows = append(rows, row)
		for _, s := range pe.WorkSessions {
			end := s.End
			if end == "" {
				end = "now"
			}
			line := mutedStyle.Render(fmt.Sprintf("      %s - %s", s.Start, end))
			if s.DoneNotes != "" {
				line += "  " + s.DoneNotes
			}
			rows = append(rows, line)
		}
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderNotesPanel(w int) string {
	title := titleStyle.Render("Notes")
	if d.editing {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			d.notes.View(),
			mutedStyle.Render("  esc: done"),
		)
		return activePanelStyle.Width(w).Render(content)
	}
	body := d.day.ScheduleNotes
	if body == "" {
		body = mutedStyle.Render("Press t to write notes for this day")
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (d dashboardModel) renderProjectPicker(w int) string {
	title := titleStyle.Render("Select Project")

	var rows []string
	rows = append(rows, title)
	for i, p := range d.projects {
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, dot(p.Color), p.Name)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
