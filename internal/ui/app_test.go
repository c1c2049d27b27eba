package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/chemviz/chemviz-tui/internal/api"
	"github.com/chemviz/chemviz-tui/internal/bus"
	"github.com/chemviz/chemviz-tui/internal/session"
)

func newTestApp(t *testing.T) (*App, *session.Store) {
	t.Helper()
	sess, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })
	client := api.New("http://127.0.0.1:1", 0, sess, zap.NewNop())
	return NewApp(client, bus.New(), zap.NewNop(), t.TempDir()), sess
}

func TestNavigateGuardRedirectsWithoutToken(t *testing.T) {
	app, _ := newTestApp(t)
	app.navigate(screenDashboard)
	if app.active != screenLogin {
		t.Fatalf("expected redirect to login, got %v", app.active)
	}
	if app.guardNotice == "" {
		t.Fatalf("expected a guard notice")
	}
}

func TestNavigateGuardAllowsWithToken(t *testing.T) {
	app, sess := newTestApp(t)
	if err := sess.SetToken(context.Background(), "abc"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	app.navigate(screenHistory)
	if app.active != screenHistory {
		t.Fatalf("expected history, got %v", app.active)
	}
	if app.guardNotice != "" {
		t.Fatalf("unexpected guard notice: %q", app.guardNotice)
	}
}

func TestNavigatePublicScreensNeedNoToken(t *testing.T) {
	app, _ := newTestApp(t)
	for _, target := range []screenID{screenHome, screenLogin, screenRegister} {
		app.navigate(target)
		if app.active != target {
			t.Fatalf("expected %v, got %v", target, app.active)
		}
	}
}

func TestNextScreenWraps(t *testing.T) {
	app, _ := newTestApp(t)
	app.active = navOrder[len(navOrder)-1]
	if got := app.nextScreen(1); got != navOrder[0] {
		t.Fatalf("expected wrap to first screen, got %v", got)
	}
	app.active = navOrder[0]
	if got := app.nextScreen(-1); got != navOrder[len(navOrder)-1] {
		t.Fatalf("expected wrap to last screen, got %v", got)
	}
}

func TestRenderNavHighlightsActive(t *testing.T) {
	app, _ := newTestApp(t)
	app.width = 120
	app.height = 40
	app.active = screenUpload
	nav := app.renderNav()
	if !strings.Contains(nav, "Upload") || !strings.Contains(nav, "Dashboard") {
		t.Fatalf("nav missing labels: %s", nav)
	}
}
