package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// homeScreen is the static product overview.
type homeScreen struct {
	deps   *deps
	width  int
	height int
}

func newHomeScreen(d *deps) *homeScreen {
	return &homeScreen{deps: d}
}

func (s *homeScreen) show() tea.Cmd { return nil }

func (s *homeScreen) setSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *homeScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "u":
			return s, navigateTo(screenUpload)
		case "d":
			return s, navigateTo(screenDashboard)
		case "l":
			return s, navigateTo(screenLogin)
		case "r":
			return s, navigateTo(screenRegister)
		case "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *homeScreen) view() string {
	lines := []string{
		titleStyle.Render("ChemViz"),
		subtleStyle.Render("Data-first monitoring for chemical equipment."),
		"",
		"Upload equipment CSVs with standardized columns, review summary",
		"analytics and distributions instantly, and export PDF reports.",
		"",
		"  u  Upload a CSV",
		"  d  View the dashboard",
		"  l  Sign in",
		"  r  Create an account",
		"",
		helpStyle.Render("Server: " + s.deps.client.BaseURL()),
	}
	return strings.Join(lines, "\n")
}
