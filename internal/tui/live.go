package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// liveClock drives the 1-second refresh. It only runs while something needs
// it: an interval is open today, or a coalesced edit is waiting to commit.
type liveClock struct {
	running bool
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ensure starts the tick when needed and it is not already scheduled.
func (c *liveClock) ensure(need bool) tea.Cmd {
	if !need || c.running {
		return nil
	}
	c.running = true
	return tickCmd()
}

// next schedules the following tick, or lets the clock stop.
func (c *liveClock) next(need bool) tea.Cmd {
	if !need {
		c.running = false
		return nil
	}
	return tickCmd()
}
