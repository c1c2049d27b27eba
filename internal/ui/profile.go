package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chemviz/chemviz-tui/internal/api"
	"github.com/chemviz/chemviz-tui/internal/bus"
	"github.com/chemviz/chemviz-tui/internal/model"
	"github.com/chemviz/chemviz-tui/internal/validate"
)

const (
	profileFieldUsername = iota
	profileFieldEmail
)

// profileScreen shows the account and supports editing it and signing out.
type profileScreen struct {
	deps *deps

	profile *model.Profile
	loading bool
	errMsg  string
	seq     int

	editing    bool
	inputs     []textinput.Model
	focused    int
	fieldErrs  map[int]string
	banner     string
	submitting bool

	width  int
	height int
}

func newProfileScreen(d *deps) *profileScreen {
	inputs := []textinput.Model{
		newFormInput("Username: "),
		newFormInput("Email: "),
	}
	return &profileScreen{deps: d, inputs: inputs, fieldErrs: map[int]string{}}
}

func (s *profileScreen) show() tea.Cmd {
	s.seq++
	seq := s.seq
	s.loading = true
	s.errMsg = ""
	s.banner = ""
	s.editing = false
	s.submitting = false
	s.fieldErrs = map[int]string{}
	client := s.deps.client
	return func() tea.Msg {
		profile, err := client.Profile(context.Background())
		return profileMsg{seq: seq, profile: profile, err: err}
	}
}

func (s *profileScreen) setSize(width, height int) {
	s.width = width
	s.height = height
	for i := range s.inputs {
		s.inputs[i].Width = maxInt(10, minInt(width-20, 48))
	}
}

func (s *profileScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			s.errMsg = "Failed to load profile: " + msg.err.Error()
			return s, nil
		}
		profile := msg.profile
		s.profile = &profile
		return s, nil
	case profileSavedMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.submitting = false
		if msg.err != nil {
			s.applyServerError(msg.err)
			return s, nil
		}
		profile := msg.profile
		s.profile = &profile
		s.editing = false
		s.banner = ""
		return s, nil
	case logoutResultMsg:
		s.deps.bus.Publish(bus.EventLoggedOut)
		return s, navigateTo(screenLogin)
	case tea.KeyMsg:
		if s.editing {
			return s.updateEditing(msg)
		}
		switch msg.String() {
		case "e":
			s.beginEdit()
			var cmd tea.Cmd
			s.inputs, s.focused, cmd = focusIndex(s.inputs, profileFieldUsername)
			return s, cmd
		case "o":
			return s, s.logout()
		case "r":
			return s, s.show()
		}
	}
	return s, nil
}

func (s *profileScreen) updateEditing(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		s.editing = false
		s.fieldErrs = map[int]string{}
		s.banner = ""
		return s, nil
	case tea.KeyUp:
		var cmd tea.Cmd
		s.inputs, s.focused, cmd = focusIndex(s.inputs, s.focused-1)
		return s, cmd
	case tea.KeyDown:
		var cmd tea.Cmd
		s.inputs, s.focused, cmd = focusIndex(s.inputs, s.focused+1)
		return s, cmd
	case tea.KeyEnter:
		return s, s.save()
	}
	var cmd tea.Cmd
	s.inputs[s.focused], cmd = s.inputs[s.focused].Update(msg)
	return s, cmd
}

func (s *profileScreen) beginEdit() {
	if s.profile == nil {
		return
	}
	s.editing = true
	s.fieldErrs = map[int]string{}
	s.banner = ""
	s.inputs[profileFieldUsername].SetValue(s.profile.Username)
	s.inputs[profileFieldEmail].SetValue(s.profile.Email)
}

func (s *profileScreen) save() tea.Cmd {
	if s.submitting {
		return nil
	}
	s.banner = ""
	s.fieldErrs = map[int]string{}

	username := strings.TrimSpace(s.inputs[profileFieldUsername].Value())
	email := strings.TrimSpace(s.inputs[profileFieldEmail].Value())
	if username == "" {
		s.fieldErrs[profileFieldUsername] = "Username is required."
	}
	if err := validate.Email(email); err != nil {
		s.fieldErrs[profileFieldEmail] = err.Error()
	}
	if len(s.fieldErrs) > 0 {
		return nil
	}

	s.submitting = true
	seq := s.seq
	client := s.deps.client
	return func() tea.Msg {
		profile, err := client.UpdateProfile(context.Background(), username, email)
		return profileSavedMsg{seq: seq, profile: profile, err: err}
	}
}

// logout clears the stored token even when the server call fails; the
// client handles that, so the result only triggers the redirect.
func (s *profileScreen) logout() tea.Cmd {
	client := s.deps.client
	return func() tea.Msg {
		return logoutResultMsg{err: client.Logout(context.Background())}
	}
}

func (s *profileScreen) applyServerError(err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		for field, msg := range apiErr.Fields {
			switch field {
			case "username":
				s.fieldErrs[profileFieldUsername] = msg
			case "email":
				s.fieldErrs[profileFieldEmail] = msg
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
	s.banner = "Saving profile failed. Try again."
}

func (s *profileScreen) view() string {
	header := titleStyle.Render("Profile")
	switch {
	case s.loading:
		return header + "\n" + subtleStyle.Render("Loading profile...")
	case s.errMsg != "":
		return header + "\n" + errorStyle.Render(s.errMsg)
	case s.profile == nil:
		return header + "\n" + subtleStyle.Render("No profile loaded.")
	}
	if s.editing {
		return s.viewEditing(header)
	}

	lastLogin := "never"
	if s.profile.LastLogin != nil {
		lastLogin = s.profile.LastLogin.Local().Format("2006-01-02 15:04")
	}
	lines := []string{
		header,
		"",
		"  Username:   " + s.profile.Username,
		"  Email:      " + s.profile.Email,
		"  Role:       " + s.profile.Role,
		"  Last login: " + lastLogin,
		"",
		helpStyle.Render("e: edit  o: sign out  r: refresh"),
	}
	return strings.Join(lines, "\n")
}

func (s *profileScreen) viewEditing(header string) string {
	lines := []string{header + subtleStyle.Render("  editing"), ""}
	for i, input := range s.inputs {
		lines = append(lines, input.View())
		if msg, ok := s.fieldErrs[i]; ok {
			lines = append(lines, errorStyle.Render("  "+msg))
		}
	}
	lines = append(lines, "")
	switch {
	case s.submitting:
		lines = append(lines, subtleStyle.Render("Saving..."))
	case s.banner != "":
		lines = append(lines, errorStyle.Render(s.banner))
	default:
		lines = append(lines, helpStyle.Render("up/down: move  enter: save  esc: cancel"))
	}
	return strings.Join(lines, "\n")
}
