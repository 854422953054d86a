package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rtn-cli/rtn/internal/db"
	"github.com/rtn-cli/rtn/internal/timer"
)

// WatchModel is the live view over the currently open sessions. It is
// read-only: the watch never mutates session state, it only recomputes
// views against the ambient clock once per second.
type WatchModel struct {
	width  int
	height int

	table       table.Model
	views       []timer.View
	err         error
	lastRefresh time.Time
}

// watchTickMsg is sent every second to recompute the session views
type watchTickMsg time.Time

// watchViewsMsg carries freshly computed session views
type watchViewsMsg struct {
	views []timer.View
	err   error
}

// NewWatchModel creates a new watch TUI model
func NewWatchModel() WatchModel {
	columns := []table.Column{
		{Title: "SESSION", Width: 40},
		{Title: "ROUTINE", Width: 16},
		{Title: "STATUS", Width: 8},
		{Title: "ACTIVE", Width: 9},
		{Title: "PAUSED", Width: 9},
		{Title: "TOTAL", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorAccentMain))
	t.SetStyles(styles)

	return WatchModel{table: t}
}

// Init starts the refresh loop
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(refreshViews, watchTick())
}

// Update handles messages
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchTickMsg:
		return m, tea.Batch(refreshViews, watchTick())

	case watchViewsMsg:
		m.views = msg.views
		m.err = msg.err
		m.lastRefresh = time.Now()
		m.table.SetRows(viewRows(msg.views))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the watch TUI
func (m WatchModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render("rtn · active sessions")

	var body string
	switch {
	case m.err != nil:
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render(fmt.Sprintf("error: %v", m.err))
	case len(m.views) == 0:
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Render("no open sessions")
	default:
		body = m.table.View()
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Render("↑/↓ navigate · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help)
}

// refreshViews recomputes all open session views as of now
func refreshViews() tea.Msg {
	views, err := db.ActiveSessions(time.Now())
	return watchViewsMsg{views: views, err: err}
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func viewRows(views []timer.View) []table.Row {
	rows := make([]table.Row, 0, len(views))
	for _, v := range views {
		rows = append(rows, table.Row{
			v.Session.ID,
			v.Session.Routine.Name,
			string(v.Status),
			formatClock(v.ActiveSeconds),
			formatClock(v.PausedSeconds),
			formatClock(v.DurationSeconds),
		})
	}
	return rows
}

// formatClock renders seconds as h:mm:ss
func formatClock(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
