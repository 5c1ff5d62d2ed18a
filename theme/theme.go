package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Rows is the number of pitch rows that get their own color
const Rows = 8

// Default colors, lowest pitch first
var DefaultRowColors = [Rows]RGB{
	{0xff, 0x00, 0x00}, // red
	{0xff, 0xa5, 0x00}, // orange
	{0xff, 0xff, 0x00}, // yellow
	{0x00, 0x80, 0x00}, // green
	{0x00, 0x00, 0xff}, // blue
	{0xff, 0xc0, 0xcb}, // pink
	{0xff, 0x00, 0xff}, // magenta
	{0x00, 0x00, 0x00}, // black
}

var (
	DefaultIdle  = RGB{0xff, 0xff, 0xff}
	DefaultTrail = RGB{0x87, 0xce, 0xeb} // sky blue
)

type Theme struct {
	RowColors [Rows]RGB
	Idle      RGB // inactive cell
	Trail     RGB // blended over the column behind the playhead
	Symbols   Symbols
}

type Symbols struct {
	CellIdle   rune // · inactive
	CellActive rune // ● active
	CellFading rune // ○ trail

	Cursor   rune // ▸ left of the cursor cell
	Playhead rune // ▼ above the playing column
}

func New() *Theme {
	return &Theme{
		RowColors: DefaultRowColors,
		Idle:      DefaultIdle,
		Trail:     DefaultTrail,
		Symbols: Symbols{
			CellIdle:   '·',
			CellActive: '●',
			CellFading: '○',
			Cursor:     '▸',
			Playhead:   '▼',
		},
	}
}

// ApplyPalette replaces the row colors with colors spread across p
func (t *Theme) ApplyPalette(p *Palette) {
	copy(t.RowColors[:], p.Spread(Rows))
}

// Row returns the highlight color for a pitch row
func (t *Theme) Row(row int) RGB {
	return t.RowColors[row%Rows]
}

// UI colors

func (t *Theme) FG() lipgloss.Color {
	return Lipgloss(RGB{0xdd, 0xdd, 0xdd})
}

func (t *Theme) Muted() lipgloss.Color {
	return Lipgloss(RGB{0x77, 0x77, 0x77})
}

func (t *Theme) Accent() lipgloss.Color {
	return Lipgloss(t.Trail)
}

func (t *Theme) Warning() lipgloss.Color {
	return Lipgloss(RGB{0xff, 0xa5, 0x00})
}

// Lipgloss converts a color for terminal rendering
func Lipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
