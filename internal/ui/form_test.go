package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
)

func TestFocusIndexWraps(t *testing.T) {
	cases := []struct{ idx, want int }{
		{idx: 0, want: 0},
		{idx: 2, want: 2},
		{idx: 3, want: 0},
		{idx: -1, want: 2},
	}
	for _, tc := range cases {
		inputs := []textinput.Model{
			newFormInput("a: "),
			newFormInput("b: "),
			newPasswordInput("c: "),
		}
		inputs, got, _ := focusIndex(inputs, tc.idx)
		if got != tc.want {
			t.Fatalf("focusIndex(%d) = %d, want %d", tc.idx, got, tc.want)
		}
		for i := range inputs {
			if (i == tc.want) != inputs[i].Focused() {
				t.Fatalf("focusIndex(%d): input %d focused = %v", tc.idx, i, inputs[i].Focused())
			}
		}
	}
}

func TestPasswordInputMasks(t *testing.T) {
	input := newPasswordInput("pw: ")
	if input.EchoMode != textinput.EchoPassword {
		t.Fatalf("expected password echo mode")
	}
}
