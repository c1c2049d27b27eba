package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newPasswordInput(prompt string) textinput.Model {
	input := newFormInput(prompt)
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

// focusIndex focuses one input in a form and blurs the rest, wrapping at
// either end.
func focusIndex(inputs []textinput.Model, idx int) ([]textinput.Model, int, tea.Cmd) {
	count := len(inputs)
	if count == 0 {
		return inputs, 0, nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	var cmd tea.Cmd
	for i := range inputs {
		if i == idx {
			cmd = inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
	return inputs, idx, cmd
}
