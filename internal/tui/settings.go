package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/dayledger/internal/store"
)

// settingsStore is the part of the store the settings view edits.
type settingsStore interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	GetAllSettings() ([]store.Setting, error)
}

type settingsModel struct {
	store  settingsStore
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	dailyGoal *string
}

func newSettingsModel(s settingsStore) settingsModel {
	dg := ""
	return settingsModel{
		store:     s,
		dailyGoal: &dg,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func validateHours(v string) error {
	h, err := strconv.ParseFloat(v, 64)
	if err != nil || h <= 0 || h > 24 {
		return errors.New("enter hours between 0 and 24")
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.dailyGoal = minutesToHours(strconv.Itoa(store.DailyGoal(s.store)))

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Daily goal (hours)").Value(s.dailyGoal).Validate(validateHours),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errorStatus("Settings: %v", err)
		}
		return s, tea.Batch(s.refresh(), changed(""))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	return s.store.SetSetting(store.SettingDailyGoal, hoursToMinutes(*s.dailyGoal))
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	if k == store.SettingDailyGoal {
		if mins, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%.1f hours", float64(mins)/60)
		}
	}
	return v
}

func minutesToHours(s string) string {
	if mins, err := strconv.Atoi(s); err == nil {
		return strconv.FormatFloat(float64(mins)/60, 'f', -1, 64)
	}
	return s
}

func hoursToMinutes(s string) string {
	if hours, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.Itoa(int(hours*60 + 0.5))
	}
	return s
}
