package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-songmaker/sequencer"
	"go-songmaker/theme"
)

// padSize is the main pad area plus the top row and scene column
const padSize = 9

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(theme.Lipgloss(theme.RGB(color)))
	return style.Render("■")
}

// RenderPadGrid mirrors the controller: pad row 8 (arrows) on top, row 0 at
// the bottom, scene buttons in the right column. Unlit pads show as dots.
func RenderPadGrid(leds []sequencer.LEDState, th *theme.Theme) string {
	var lit [padSize][padSize]*[3]uint8
	for i := range leds {
		l := &leds[i]
		if l.Row < 0 || l.Row >= padSize || l.Col < 0 || l.Col >= padSize {
			continue
		}
		if l.Color != ([3]uint8{}) {
			lit[l.Row][l.Col] = &l.Color
		}
	}

	dim := lipgloss.NewStyle().Foreground(th.Muted())
	var lines []string
	for row := padSize - 1; row >= 0; row-- {
		var line strings.Builder
		for col := 0; col < padSize; col++ {
			if col > 0 {
				line.WriteString(" ")
			}
			if c := lit[row][col]; c != nil {
				line.WriteString(RenderPad(*c))
			} else {
				line.WriteString(dim.Render("·"))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
