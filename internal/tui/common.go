package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/dayledger/internal/ledger"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewProjects
	viewReports
	viewSettings
)

var viewNames = []string{"Today", "Projects", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// ledgerChangedMsg is sent after any mutation so views reload.
type ledgerChangedMsg struct {
	label string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func errorStatus(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf(format, args...), isError: true}
	}
}

func changed(label string) tea.Cmd {
	return func() tea.Msg { return ledgerChangedMsg{label: label} }
}

// formatMinutes renders minutes as "7h 05m".
func formatMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func formatHours(minutes int) string {
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

func projectName(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return "(deleted project)"
}

func shiftDate(date string, days int) string {
	t, err := time.Parse(ledger.DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(ledger.DateLayout)
}
