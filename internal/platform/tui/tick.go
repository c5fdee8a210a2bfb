// Package tui provides the Bubble Tea integration for superbreak.
// It handles the terminal UI loop, input mapping, frame timing and the
// SSH and scoreboard front ends.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation frame. It carries the wall
// clock time the frame fired at.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends one tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
