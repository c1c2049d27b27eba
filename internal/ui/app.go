package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/chemviz/chemviz-tui/internal/api"
	"github.com/chemviz/chemviz-tui/internal/bus"
)

type screenID int

const (
	screenHome screenID = iota
	screenDashboard
	screenUpload
	screenHistory
	screenProfile
	screenLogin
	screenRegister
)

var navOrder = []screenID{
	screenHome,
	screenDashboard,
	screenUpload,
	screenHistory,
	screenProfile,
	screenLogin,
	screenRegister,
}

var navLabels = map[screenID]string{
	screenHome:      "Home",
	screenDashboard: "Dashboard",
	screenUpload:    "Upload",
	screenHistory:   "History",
	screenProfile:   "Profile",
	screenLogin:     "Login",
	screenRegister:  "Register",
}

// protectedScreens require a stored token; navigation to one without a
// token lands on the login screen instead and the protected content is
// never built.
var protectedScreens = map[screenID]bool{
	screenDashboard: true,
	screenUpload:    true,
	screenHistory:   true,
	screenProfile:   true,
}

// App is the root Bubble Tea model: navigation, the active screen, and
// the refresh-bus subscription.
type App struct {
	deps   *deps
	active screenID

	screens map[screenID]screen

	events       <-chan bus.Event
	cancelEvents func()

	guardNotice string

	width  int
	height int
}

// NewApp assembles the shell and its screens.
func NewApp(client *api.Client, b *bus.Bus, logger *zap.Logger, downloadDir string) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &deps{client: client, bus: b, log: logger, downloadDir: downloadDir}
	events, cancel := b.Subscribe()
	app := &App{
		deps:         d,
		active:       screenHome,
		events:       events,
		cancelEvents: cancel,
		screens: map[screenID]screen{
			screenHome:      newHomeScreen(d),
			screenDashboard: newDashboardScreen(d),
			screenUpload:    newUploadScreen(d),
			screenHistory:   newHistoryScreen(d),
			screenProfile:   newProfileScreen(d),
			screenLogin:     newLoginScreen(d),
			screenRegister:  newRegisterScreen(d),
		},
	}
	return app
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.listenBus(), a.screens[a.active].show())
}

func (a *App) listenBus() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-a.events
		return busEventMsg{event: evt, ok: ok}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		_, bodyHeight, _ := a.layoutHeights()
		for _, s := range a.screens {
			s.setSize(a.width, bodyHeight)
		}
		return a, nil
	case busEventMsg:
		if !msg.ok {
			return a, nil
		}
		var cmd tea.Cmd
		// Data screens refetch when a sibling announces a change; every
		// other screen refetches on its next show anyway.
		if msg.event == bus.EventUploadCompleted && (a.active == screenDashboard || a.active == screenHistory) {
			cmd = a.screens[a.active].show()
		}
		return a, tea.Batch(a.listenBus(), cmd)
	case navigateMsg:
		return a, a.navigate(msg.target)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			a.cancelEvents()
			return a, tea.Quit
		case tea.KeyTab:
			return a, a.navigate(a.nextScreen(1))
		case tea.KeyShiftTab:
			return a, a.navigate(a.nextScreen(-1))
		}
	}
	active := a.screens[a.active]
	next, cmd := active.update(msg)
	a.screens[a.active] = next
	return a, cmd
}

// navigate applies the route guard and activates the target screen.
func (a *App) navigate(target screenID) tea.Cmd {
	a.guardNotice = ""
	if protectedScreens[target] && !a.deps.client.HasToken(context.Background()) {
		a.deps.log.Info("route guard redirect",
			zap.String("target", navLabels[target]),
		)
		a.guardNotice = "Sign in to open " + navLabels[target] + "."
		target = screenLogin
	}
	a.active = target
	_, bodyHeight, _ := a.layoutHeights()
	a.screens[a.active].setSize(a.width, bodyHeight)
	return tea.Batch(tea.ClearScreen, a.screens[a.active].show())
}

func (a *App) nextScreen(delta int) screenID {
	idx := 0
	for i, id := range navOrder {
		if id == a.active {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = len(navOrder) - 1
	}
	if idx >= len(navOrder) {
		idx = 0
	}
	return navOrder[idx]
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := a.layoutHeights()
	header := fitLines(a.renderNav(), a.width, headerHeight)
	body := fitLines(a.screens[a.active].view(), a.width, bodyHeight)
	footer := fitLines(a.renderFooter(), a.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (a *App) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	if headerHeight < 1 {
		headerHeight = 1
	}
	footerHeight = 1
	if a.guardNotice != "" {
		footerHeight++
	}
	bodyHeight = a.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (a *App) renderNav() string {
	parts := make([]string, 0, len(navOrder))
	for _, id := range navOrder {
		if id == a.active {
			parts = append(parts, activeNavStyle.Render(navLabels[id]))
		} else {
			parts = append(parts, inactiveNavStyle.Render(navLabels[id]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderFooter() string {
	help := helpStyle.Render(truncateLine("Nav: tab/shift+tab  Quit: ctrl+c", a.width))
	if a.guardNotice != "" {
		return help + "\n" + warnStyle.Render(truncateLine(a.guardNotice, a.width))
	}
	return help
}
