package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-songmaker/sequencer"
	"go-songmaker/theme"
)

// GridView is everything RenderGrid needs for one frame
type GridView struct {
	Cells     [sequencer.Rows][sequencer.Cols]sequencer.Cell
	CursorRow int
	CursorCol int
	Playhead  int      // -1 when idle
	Page      int      // pad page to underline, -1 for none
	Labels    []string // row names, lowest pitch first
}

const labelWidth = 4

// RenderGrid draws the grid with row 0 on top. Each cell is two columns wide:
// the cursor mark and the cell symbol, on the cell's own color.
func RenderGrid(v GridView, th *theme.Theme) string {
	sym := th.Symbols
	accent := lipgloss.NewStyle().Foreground(th.Accent())
	muted := lipgloss.NewStyle().Foreground(th.Muted())

	var lines []string

	// playhead marker row
	var head strings.Builder
	head.WriteString(strings.Repeat(" ", labelWidth))
	for col := 0; col < sequencer.Cols; col++ {
		if col == v.Playhead {
			head.WriteString(" " + accent.Render(string(sym.Playhead)))
		} else {
			head.WriteString("  ")
		}
	}
	lines = append(lines, head.String())

	for row := 0; row < sequencer.Rows; row++ {
		var line strings.Builder
		line.WriteString(muted.Render(fmt.Sprintf("%-*s", labelWidth, rowLabel(v.Labels, row))))
		for col := 0; col < sequencer.Cols; col++ {
			cursor := row == v.CursorRow && col == v.CursorCol
			line.WriteString(RenderCell(v.Cells[row][col], cursor, th))
		}
		lines = append(lines, line.String())
	}

	// pad page underline
	if v.Page >= 0 {
		var foot strings.Builder
		foot.WriteString(strings.Repeat(" ", labelWidth))
		for col := 0; col < sequencer.Cols; col++ {
			if sequencer.PageOf(col) == v.Page {
				foot.WriteString("──")
			} else {
				foot.WriteString("  ")
			}
		}
		lines = append(lines, muted.Render(foot.String()))
	}

	return strings.Join(lines, "\n")
}

// RenderCell renders one cell as its cursor mark plus symbol
func RenderCell(c sequencer.Cell, cursor bool, th *theme.Theme) string {
	sym := th.Symbols
	mark := ' '
	if cursor {
		mark = sym.Cursor
	}

	symbol := sym.CellIdle
	switch {
	case c.Visual == sequencer.Fading && !c.Active:
		symbol = sym.CellFading
	case c.Active:
		symbol = sym.CellActive
	}

	style := lipgloss.NewStyle().
		Background(theme.Lipgloss(c.Color)).
		Foreground(theme.Lipgloss(theme.Contrast(c.Color)))
	return style.Render(string(mark) + string(symbol))
}

func rowLabel(labels []string, row int) string {
	if row < len(labels) && labels[row] != "" {
		return labels[row]
	}
	return fmt.Sprintf("%d", row)
}
