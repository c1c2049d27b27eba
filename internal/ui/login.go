package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chemviz/chemviz-tui/internal/api"
	"github.com/chemviz/chemviz-tui/internal/validate"
)

const (
	loginFieldIdentifier = iota
	loginFieldPassword
)

// loginScreen owns the sign-in form.
type loginScreen struct {
	deps *deps

	inputs     []textinput.Model
	focused    int
	fieldErrs  map[int]string
	banner     string
	submitting bool
	seq        int

	width  int
	height int
}

func newLoginScreen(d *deps) *loginScreen {
	inputs := []textinput.Model{
		newFormInput("Username or email: "),
		newPasswordInput("Password: "),
	}
	s := &loginScreen{deps: d, inputs: inputs, fieldErrs: map[int]string{}}
	s.inputs, s.focused, _ = focusIndex(s.inputs, 0)
	return s
}

func (s *loginScreen) show() tea.Cmd {
	s.banner = ""
	s.fieldErrs = map[int]string{}
	s.submitting = false
	var cmd tea.Cmd
	s.inputs, s.focused, cmd = focusIndex(s.inputs, 0)
	return cmd
}

func (s *loginScreen) setSize(width, height int) {
	s.width = width
	s.height = height
	for i := range s.inputs {
		s.inputs[i].Width = maxInt(10, minInt(width-24, 48))
	}
}

func (s *loginScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.submitting = false
		if msg.err != nil {
			s.applyServerError(msg.err)
			return s, nil
		}
		s.inputs[loginFieldPassword].SetValue("")
		return s, navigateTo(screenDashboard)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			var cmd tea.Cmd
			s.inputs, s.focused, cmd = focusIndex(s.inputs, s.focused-1)
			return s, cmd
		case tea.KeyDown:
			var cmd tea.Cmd
			s.inputs, s.focused, cmd = focusIndex(s.inputs, s.focused+1)
			return s, cmd
		case tea.KeyEnter:
			return s, s.submit()
		}
	}
	var cmd tea.Cmd
	s.inputs[s.focused], cmd = s.inputs[s.focused].Update(msg)
	return s, cmd
}

// submit validates locally; only a validation-clean form reaches the API.
func (s *loginScreen) submit() tea.Cmd {
	if s.submitting {
		return nil
	}
	s.banner = ""
	s.fieldErrs = map[int]string{}

	identifier := strings.TrimSpace(s.inputs[loginFieldIdentifier].Value())
	password := s.inputs[loginFieldPassword].Value()
	if err := validate.Identifier(identifier); err != nil {
		s.fieldErrs[loginFieldIdentifier] = err.Error()
	}
	if err := validate.Password(password, validate.LoginPasswordRules); err != nil {
		s.fieldErrs[loginFieldPassword] = err.Error()
	}
	if len(s.fieldErrs) > 0 {
		return nil
	}

	s.submitting = true
	s.seq++
	seq := s.seq
	client := s.deps.client
	return func() tea.Msg {
		token, err := client.Login(context.Background(), identifier, password)
		return loginResultMsg{seq: seq, token: token, err: err}
	}
}

func (s *loginScreen) applyServerError(err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		for field, msg := range apiErr.Fields {
			switch field {
			case "username", "email":
				s.fieldErrs[loginFieldIdentifier] = msg
			case "password":
				s.fieldErrs[loginFieldPassword] = msg
			default:
				s.banner = msg
			}
		}
		return
	}
	if apiErr != nil && apiErr.Message != "" {
		s.banner = apiErr.Message
		return
	}
	s.banner = "Login failed. Check your credentials."
}

func (s *loginScreen) view() string {
	lines := []string{
		titleStyle.Render("Login"),
		subtleStyle.Render("Sign in to access ChemViz."),
		"",
	}
	for i, input := range s.inputs {
		lines = append(lines, input.View())
		if msg, ok := s.fieldErrs[i]; ok {
			lines = append(lines, errorStyle.Render("  "+msg))
		}
	}
	lines = append(lines, "")
	switch {
	case s.submitting:
		lines = append(lines, subtleStyle.Render("Signing in..."))
	case s.banner != "":
		lines = append(lines, errorStyle.Render(s.banner))
	default:
		lines = append(lines, helpStyle.Render("up/down: move  enter: sign in"))
	}
	return strings.Join(lines, "\n")
}
