package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chemviz/chemviz-tui/internal/api"
	"github.com/chemviz/chemviz-tui/internal/bus"
	"github.com/chemviz/chemviz-tui/internal/model"
	"github.com/chemviz/chemviz-tui/internal/validate"
)

const (
	uploadFieldPath = iota
	uploadFieldName
)

// Row errors shown inline; the server caps the list it sends at 50.
const maxShownRowErrors = 10

// uploadScreen sends a CSV file to the server and renders the returned
// validation summary.
type uploadScreen struct {
	deps *deps

	inputs     []textinput.Model
	focused    int
	fieldErrs  map[int]string
	banner     string
	submitting bool
	seq        int

	result *model.UploadRecord

	width  int
	height int
}

func newUploadScreen(d *deps) *uploadScreen {
	inputs := []textinput.Model{
		newFormInput("CSV file path: "),
		newFormInput("Dataset name (optional): "),
	}
	s := &uploadScreen{deps: d, inputs: inputs, fieldErrs: map[int]string{}}
	s.inputs, s.focused, _ = focusIndex(s.inputs, 0)
	return s
}

func (s *uploadScreen) show() tea.Cmd {
	s.banner = ""
	s.fieldErrs = map[int]string{}
	s.submitting = false
	var cmd tea.Cmd
	s.inputs, s.focused, cmd = focusIndex(s.inputs, uploadFieldPath)
	return cmd
}

func (s *uploadScreen) setSize(width, height int) {
	s.width = width
	s.height = height
	for i := range s.inputs {
		s.inputs[i].Width = maxInt(10, minInt(width-30, 60))
	}
}

func (s *uploadScreen) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadResultMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.submitting = false
		if msg.err != nil {
			s.applyServerError(msg.err)
			return s, nil
		}
		record := msg.record
		s.result = &record
		s.inputs[uploadFieldPath].SetValue("")
		s.inputs[uploadFieldName].SetValue("")
		s.deps.bus.Publish(bus.EventUploadCompleted)
		return s, nil
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

// submit gates the request on local file checks so an invalid path or an
// oversized file never leaves the machine.
func (s *uploadScreen) submit() tea.Cmd {
	if s.submitting {
		return nil
	}
	s.banner = ""
	s.fieldErrs = map[int]string{}
	s.result = nil

	path := strings.TrimSpace(s.inputs[uploadFieldPath].Value())
	name := strings.TrimSpace(s.inputs[uploadFieldName].Value())
	if err := validate.CSVFile(path); err != nil {
		s.fieldErrs[uploadFieldPath] = err.Error()
		return nil
	}

	s.submitting = true
	s.seq++
	seq := s.seq
	client := s.deps.client
	return func() tea.Msg {
		record, err := client.Upload(context.Background(), path, name)
		return uploadResultMsg{seq: seq, record: record, err: err}
	}
}

func (s *uploadScreen) applyServerError(err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if msg, ok := apiErr.Fields["file"]; ok {
			s.fieldErrs[uploadFieldPath] = msg
			return
		}
		if apiErr.Message != "" {
			s.banner = apiErr.Message
			return
		}
	}
	s.banner = "Upload failed. Try again."
}

func (s *uploadScreen) view() string {
	lines := []string{
		titleStyle.Render("Upload dataset"),
		subtleStyle.Render("CSV with columns: Equipment Name, Type, Flowrate, Pressure, Temperature. Max 5 MB."),
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
		lines = append(lines, subtleStyle.Render("Uploading..."))
	case s.banner != "":
		lines = append(lines, errorStyle.Render(s.banner))
	default:
		lines = append(lines, helpStyle.Render("up/down: move  enter: upload"))
	}
	if s.result != nil {
		lines = append(lines, "")
		lines = append(lines, renderUploadResult(*s.result)...)
	}
	return strings.Join(lines, "\n")
}

// renderUploadResult formats the server's acceptance line and, when rows
// were rejected, the per-column defect counts and a sample of row errors.
func renderUploadResult(record model.UploadRecord) []string {
	validation := record.ValidationSummary
	if validation == nil {
		validation = record.Summary.Validation
	}

	name := record.Name
	if name == "" {
		name = fmt.Sprintf("upload #%d", record.ID)
	}
	lines := []string{successStyle.Render(fmt.Sprintf("Uploaded %q.", name))}
	if validation == nil {
		return lines
	}

	lines = append(lines, fmt.Sprintf("Rows: %d total, %d accepted, %d rejected",
		validation.TotalRows, validation.AcceptedRows, validation.RejectedRows))
	if validation.RejectedRows == 0 {
		return lines
	}

	lines = append(lines, defectLines("Missing values", validation.MissingValues)...)
	lines = append(lines, defectLines("Invalid values", validation.InvalidValues)...)
	lines = append(lines, defectLines("Out of range", validation.OutOfRange)...)

	if len(validation.RowErrors) > 0 {
		lines = append(lines, "", warnStyle.Render("Row errors:"))
		shown := validation.RowErrors
		if len(shown) > maxShownRowErrors {
			shown = shown[:maxShownRowErrors]
		}
		for _, rowErr := range shown {
			lines = append(lines, fmt.Sprintf("  row %d, %s: %s", rowErr.Row, rowErr.Column, rowErr.Message))
		}
		if remaining := len(validation.RowErrors) - len(shown); remaining > 0 {
			lines = append(lines, subtleStyle.Render(fmt.Sprintf("  ... and %d more", remaining)))
		}
	}
	return lines
}

func defectLines(label string, counts map[string]int) []string {
	if len(counts) == 0 {
		return nil
	}
	columns := make([]string, 0, len(counts))
	for column := range counts {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, fmt.Sprintf("%s %d", column, counts[column]))
	}
	return []string{warnStyle.Render(label+": ") + strings.Join(parts, ", ")}
}
