package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayledger/internal/export"
	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/stats"
	"github.com/sadopc/dayledger/internal/workspace"
)

// App is the root Bubble Tea model.
type App struct {
	ctx    context.Context
	ws     *workspace.Workspace
	clock  *liveClock
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	dashboard dashboardModel
	projects  projectsModel
	reports   reportsModel
	settings  settingsModel

	help   help.Model
	status string
}

// NewApp builds the root model. heatmapDays sizes the reports heatmap.
func NewApp(ctx context.Context, ws *workspace.Workspace, s settingsStore, heatmapDays int) App {
	h := help.New()
	h.ShowAll = false

	home, _ := os.UserHomeDir()
	return App{
		ctx:        ctx,
		ws:         ws,
		clock:      &liveClock{},
		activeView: viewToday,
		exportDir:  home,
		dashboard:  newDashboardModel(ctx, ws, s),
		projects:   newProjectsModel(ctx, ws),
		reports:    newReportsModel(ws, heatmapDays),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

// Run starts the full-screen interface and blocks until it exits.
func Run(ctx context.Context, ws *workspace.Workspace, s settingsStore, heatmapDays int) error {
	p := tea.NewProgram(NewApp(ctx, ws, s, heatmapDays), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.clock.ensure(a.needsTick()),
	)
}

// needsTick reports whether today has a running interval or an edit is
// waiting for its idle period.
func (a App) needsTick() bool {
	if a.ws.Pending() {
		return true
	}
	open := false
	today := a.ws.Today()
	a.ws.Read(func(l *ledger.Ledger) {
		if d, ok := l.Day(today); ok {
			open = d.HasOpenInterval()
		}
	})
	return open
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.ws.Flush()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Undo):
			return a.travel(a.ws.Undo, "Undid")
		case key.Matches(msg, keys.Redo):
			return a.travel(a.ws.Redo, "Redid")
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewToday)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewProjects)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewReports)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		a.ws.Tick(time.Time(msg))
		return a, a.clock.next(a.needsTick())

	case ledgerChangedMsg:
		if msg.label != "" {
			a.status = msg.label
		}
		return a, tea.Batch(a.refreshCurrentView(), a.clock.ensure(a.needsTick()))

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.status = errorStyle.Render(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// switchView commits any coalesced edit before leaving the current view.
func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.ws.Flush()
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) travel(step func(context.Context) (string, error), verb string) (tea.Model, tea.Cmd) {
	label, err := step(a.ctx)
	if err != nil {
		a.status = err.Error()
		return a, nil
	}
	a.status = verb + " " + label
	return a, tea.Batch(a.refreshCurrentView(), a.clock.ensure(a.needsTick()))
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.dashboard.editing
	case viewProjects:
		return a.projects.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.dashboard.loadData()
	case viewProjects:
		return a.projects.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.dashboard.view()
	case viewProjects:
		content = a.projects.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("dayledger")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	live := ""
	if a.clock.running {
		live = liveStyle.Render(" ● " + a.ws.Now().Format("15:04:05"))
	}

	left := footerStyle.Render(helpView)
	right := live + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes every day (CSV) or a full backup (JSON) to exportDir.
func (a App) doExport(format int) tea.Cmd {
	st := a.ws.State()
	now := a.ws.Now()
	dir := a.exportDir
	return func() tea.Msg {
		dateStr := now.Format(ledger.DateLayout)

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("dayledger-export-%s.csv", dateStr))
			if err := export.ToCSV(st, stats.Range{}, now, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("dayledger-export-%s.json", dateStr))
			if err := export.WriteJSON(export.ExportAll(st, now), path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
