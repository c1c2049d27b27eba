package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/chemviz/chemviz-tui/internal/api"
	"github.com/chemviz/chemviz-tui/internal/bus"
	"github.com/chemviz/chemviz-tui/internal/model"
)

// deps carries the shared collaborators injected into every screen.
type deps struct {
	client      *api.Client
	bus         *bus.Bus
	log         *zap.Logger
	downloadDir string
}

// screen is one navigable view owned by the shell.
type screen interface {
	// show is issued when the screen becomes active; it returns the
	// screen's on-mount fetch command, if any.
	show() tea.Cmd
	update(msg tea.Msg) (screen, tea.Cmd)
	view() string
	setSize(width, height int)
}

// navigateMsg asks the shell to switch screens.
type navigateMsg struct {
	target screenID
}

func navigateTo(target screenID) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{target: target}
	}
}

// busEventMsg delivers a refresh-bus event to the shell.
type busEventMsg struct {
	event bus.Event
	ok    bool
}

// Async results. Every message carries the sequence number of the request
// that produced it; screens discard messages whose seq is stale, which is
// how a late response for a superseded request gets dropped.

type loginResultMsg struct {
	seq   int
	token string
	err   error
}

type registerResultMsg struct {
	seq   int
	token string
	err   error
}

type logoutResultMsg struct {
	err error
}

type uploadResultMsg struct {
	seq    int
	record model.UploadRecord
	err    error
}

type summariesMsg struct {
	seq     int
	records []model.UploadRecord
	err     error
}

type latestRowsMsg struct {
	seq    int
	latest model.LatestDataset
	err    error
}

type profileMsg struct {
	seq     int
	profile model.Profile
	err     error
}

type profileSavedMsg struct {
	seq     int
	profile model.Profile
	err     error
}

type reportSavedMsg struct {
	seq      int
	uploadID int64
	path     string
	err      error
}
