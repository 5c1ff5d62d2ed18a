package sequencer

import (
	"go-songmaker/debug"
	"go-songmaker/theme"
)

// An 8x8 pad controller shows the grid one page of PageWidth columns at a
// time. Pad row 7 (top) is pitch row 0 so the pads match the screen.
const PageWidth = 8

// Pad coordinates of the control buttons
const (
	padTopRow    = 8 // arrow / mode buttons along the top
	padSceneCol  = 8 // scene buttons down the right side
	padPageLeft  = 2 // top row
	padPageRight = 3 // top row
	padPlay      = 7 // scene column, top
	padShuffle   = 6
	padStop      = 5
	padReset     = 0 // scene column, bottom
)

var (
	ledOff     = theme.RGB{}
	ledArrow   = theme.RGB{0x40, 0x40, 0x40}
	ledPlay    = theme.RGB{0x00, 0xc0, 0x00}
	ledShuffle = theme.RGB{0x90, 0x00, 0xc0}
	ledStop    = theme.RGB{0xc0, 0x00, 0x00}
	ledReset   = theme.RGB{0xff, 0x80, 0x00}
	ledDark    = theme.RGB{0x40, 0x40, 0x40} // stands in for black, which is invisible on a pad
)

// LEDState describes the state of a single LED
type LEDState struct {
	Row, Col int
	Color    [3]uint8
}

// PageCount is the number of pad pages covering the grid
func PageCount() int {
	return (Cols + PageWidth - 1) / PageWidth
}

// PageOf returns the page showing col
func PageOf(col int) int {
	return col / PageWidth
}

// padToCell maps a main-grid pad to a grid cell on page
func padToCell(page, padRow, padCol int) (row, col int, ok bool) {
	if padRow < 0 || padRow >= Rows || padCol < 0 || padCol >= PageWidth {
		return 0, 0, false
	}
	row = Rows - 1 - padRow
	col = page*PageWidth + padCol
	return row, col, col < Cols
}

// HandlePad handles a pad press from the controller
func (m *Manager) HandlePad(row, col int) {
	switch {
	case row == padTopRow:
		switch col {
		case padPageLeft:
			m.TurnPage(-1)
		case padPageRight:
			m.TurnPage(1)
		}
	case col == padSceneCol:
		switch row {
		case padPlay:
			m.Play(ModeSequential)
		case padShuffle:
			m.Play(ModeShuffled)
		case padStop:
			m.Stop()
		case padReset:
			m.Reset()
		}
	default:
		m.mu.Lock()
		page := m.page
		m.mu.Unlock()
		gr, gc, ok := padToCell(page, row, col)
		if !ok {
			debug.Log("pad", "pad (%d,%d) on page %d is off the grid", row, col, page)
			return
		}
		m.Toggle(gr, gc)
	}
}

// TurnPage moves the pad view and stops it following the playhead
func (m *Manager) TurnPage(delta int) {
	m.mu.Lock()
	m.page = min(max(m.page+delta, 0), PageCount()-1)
	m.follow = false
	page := m.page
	m.mu.Unlock()
	debug.Log("pad", "page %d", page)
	m.changed()
}

// SetPage shows page on the controller
func (m *Manager) SetPage(page int) {
	m.mu.Lock()
	m.page = min(max(page, 0), PageCount()-1)
	m.mu.Unlock()
	m.changed()
}

// RenderLEDs returns LED states for the current page and control buttons
func (m *Manager) RenderLEDs() []LEDState {
	m.mu.Lock()
	page := m.page
	m.mu.Unlock()

	snap := m.grid.Snapshot()
	trail := m.grid.theme.Trail

	leds := make([]LEDState, 0, Rows*PageWidth+8)
	for padRow := 0; padRow < Rows; padRow++ {
		for padCol := 0; padCol < PageWidth; padCol++ {
			row, col, ok := padToCell(page, padRow, padCol)
			color := ledOff
			if ok {
				color = padColor(snap[row][col], trail)
			}
			leds = append(leds, LEDState{Row: padRow, Col: padCol, Color: color})
		}
	}

	if page > 0 {
		leds = append(leds, LEDState{Row: padTopRow, Col: padPageLeft, Color: ledArrow})
	}
	if page < PageCount()-1 {
		leds = append(leds, LEDState{Row: padTopRow, Col: padPageRight, Color: ledArrow})
	}
	leds = append(leds,
		LEDState{Row: padPlay, Col: padSceneCol, Color: ledPlay},
		LEDState{Row: padShuffle, Col: padSceneCol, Color: ledShuffle},
		LEDState{Row: padStop, Col: padSceneCol, Color: ledStop},
		LEDState{Row: padReset, Col: padSceneCol, Color: ledReset},
	)
	return leds
}

// padColor is the screen color with idle pads dark instead of white
func padColor(c Cell, trail theme.RGB) theme.RGB {
	switch c.Visual {
	case Idle:
		return ledOff
	case Fading:
		if !c.Active {
			return theme.Blend(ledOff, trail)
		}
	}
	if c.Color == ledOff {
		return ledDark
	}
	return c.Color
}
