package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// RunWatchTUI starts the live session watch
func RunWatchTUI() error {
	p := tea.NewProgram(NewWatchModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
