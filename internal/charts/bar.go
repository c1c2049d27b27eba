// Package charts renders dashboard charts and tables as text.
package charts

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	minBarWidth         = 10
	defaultBarWidth     = 40
	barFilled           = '█'
	terminalWidthBackup = 80
)

// Bar is one labeled value in a bar chart.
type Bar struct {
	Label string
	Value float64
}

// RenderBars prints a horizontal bar chart. Bars scale against the
// largest value; labels are padded to a common width.
func RenderBars(w io.Writer, title string, bars []Bar, totalWidth int) error {
	if len(bars) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = autoWidth()
	}

	labelWidth := 0
	valueWidth := 0
	maxVal := 0.0
	for _, b := range bars {
		if lw := runewidth.StringWidth(b.Label); lw > labelWidth {
			labelWidth = lw
		}
		if vw := len(formatValue(b.Value)); vw > valueWidth {
			valueWidth = vw
		}
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}

	barWidth := totalWidth - labelWidth - valueWidth - 4
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, b := range bars {
		filled := 0
		if maxVal > 0 && b.Value > 0 {
			filled = int(math.Round(b.Value / maxVal * float64(barWidth)))
			if filled == 0 {
				filled = 1
			}
		}
		if filled > barWidth {
			filled = barWidth
		}
		line := fmt.Sprintf("%s  %s %s",
			padLabel(b.Label, labelWidth),
			strings.Repeat(string(barFilled), filled)+strings.Repeat(" ", barWidth-filled),
			fmt.Sprintf("%*s", valueWidth, formatValue(b.Value)),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderBarsString renders a bar chart into a string for TUI embedding.
func RenderBarsString(title string, bars []Bar, totalWidth int) string {
	var b strings.Builder
	if err := RenderBars(&b, title, bars, totalWidth); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func padLabel(label string, width int) string {
	lw := runewidth.StringWidth(label)
	if lw >= width {
		return label
	}
	return label + strings.Repeat(" ", width-lw)
}

func autoWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	if width > defaultBarWidth*3 {
		return defaultBarWidth * 3
	}
	return width
}
