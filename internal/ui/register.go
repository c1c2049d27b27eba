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
	registerFieldName = iota
	registerFieldUsername
	registerFieldEmail
	registerFieldPassword
	registerFieldConfirm
)

// registerScreen owns the account-creation form. The full name and the
// password confirmation are validated locally and never sent to the server.
type registerScreen struct {
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

func newRegisterScreen(d *deps) *registerScreen {
	inputs := []textinput.Model{
		newFormInput("Full name: "),
		newFormInput("Username: "),
		newFormInput("Email: "),
		newPasswordInput("Password: "),
		newPasswordInput("Confirm password: "),
	}
	s := &registerScreen{deps: d, inputs: inputs, fieldErrs: map[int]string{}}
	s.inputs, s.focused, _ = focusIndex(s.inputs, 0)
	return s
}

func (s *registerScreen) show() tea.Cmd {
	s.banner = ""
	s.fieldErrs = map[int]string{}
	s.submitting = false
	var cmd tea.Cmd
	s.inputs, s.focused, cmd = focusIndex(s.inputs, 0)
	return cmd
}

func (s *registerScreen) setSize(width, height int) {
	s.width = width
	s.height = height
	for i := range s.inputs {
		s.inputs[i].Width = maxInt(10, minInt(width-24, 48))
	}
}

func (s *registerScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.submitting = false
		if msg.err != nil {
			s.applyServerError(msg.err)
			return s, nil
		}
		s.inputs[registerFieldPassword].SetValue("")
		s.inputs[registerFieldConfirm].SetValue("")
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

func (s *registerScreen) submit() tea.Cmd {
	if s.submitting {
		return nil
	}
	s.banner = ""
	s.fieldErrs = map[int]string{}

	name := strings.TrimSpace(s.inputs[registerFieldName].Value())
	username := strings.TrimSpace(s.inputs[registerFieldUsername].Value())
	email := strings.TrimSpace(s.inputs[registerFieldEmail].Value())
	password := s.inputs[registerFieldPassword].Value()
	confirm := s.inputs[registerFieldConfirm].Value()

	if err := validate.FullName(name); err != nil {
		s.fieldErrs[registerFieldName] = err.Error()
	}
	if username == "" {
		s.fieldErrs[registerFieldUsername] = "Username is required."
	}
	if err := validate.Email(email); err != nil {
		s.fieldErrs[registerFieldEmail] = err.Error()
	}
	if err := validate.Password(password, validate.RegisterPasswordRules); err != nil {
		s.fieldErrs[registerFieldPassword] = err.Error()
	}
	if err := validate.ConfirmPassword(password, confirm); err != nil {
		s.fieldErrs[registerFieldConfirm] = err.Error()
	}
	if len(s.fieldErrs) > 0 {
		return nil
	}

	s.submitting = true
	s.seq++
	seq := s.seq
	client := s.deps.client
	req := api.RegisterRequest{Username: username, Email: email, Password: password}
	return func() tea.Msg {
		token, err := client.Register(context.Background(), req)
		return registerResultMsg{seq: seq, token: token, err: err}
	}
}

func (s *registerScreen) applyServerError(err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		for field, msg := range apiErr.Fields {
			switch field {
			case "username":
				s.fieldErrs[registerFieldUsername] = msg
			case "email":
				s.fieldErrs[registerFieldEmail] = msg
			case "password":
				s.fieldErrs[registerFieldPassword] = msg
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
	s.banner = "Registration failed. Try again."
}

func (s *registerScreen) view() string {
	lines := []string{
		titleStyle.Render("Register"),
		subtleStyle.Render("Create a ChemViz account."),
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
		lines = append(lines, subtleStyle.Render("Creating account..."))
	case s.banner != "":
		lines = append(lines, errorStyle.Render(s.banner))
	default:
		lines = append(lines, helpStyle.Render("up/down: move  enter: create account"))
	}
	return strings.Join(lines, "\n")
}
