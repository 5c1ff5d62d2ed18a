package sequencer

import (
	"sync"

	"go-songmaker/theme"
)

// Grid dimensions: pitch rows × time steps
const (
	Rows = theme.Rows
	Cols = 30
)

// VisualState is what a cell currently shows
type VisualState int

const (
	Idle VisualState = iota
	Active
	Fading
)

func (v VisualState) String() string {
	switch v {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Fading:
		return "fading"
	}
	return "unknown"
}

// Cell is a snapshot of one grid position
type Cell struct {
	Active bool
	Visual VisualState
	Color  theme.RGB
}

// Grid is the activation matrix plus the transient trail overlay.
// All methods are safe for concurrent use.
type Grid struct {
	mu        sync.RWMutex
	active    [Rows][Cols]bool
	fading    [Rows][Cols]bool
	fadeColor [Rows][Cols]theme.RGB

	theme *theme.Theme
}

func NewGrid(th *theme.Theme) *Grid {
	if th == nil {
		th = theme.New()
	}
	return &Grid{theme: th}
}

// Contains reports whether (row, col) is on the grid
func (g *Grid) Contains(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

func (g *Grid) check(row, col int) {
	if !g.Contains(row, col) {
		panic(&CoordinateError{Row: row, Col: col})
	}
}

// Toggle flips a cell and returns its new state
func (g *Grid) Toggle(row, col int) bool {
	g.check(row, col)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active[row][col] = !g.active[row][col]
	if g.fading[row][col] {
		g.setFading(row, col) // retint under the trail
	}
	return g.active[row][col]
}

func (g *Grid) IsActive(row, col int) bool {
	g.check(row, col)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active[row][col]
}

// ActiveRows lists the active rows of a column, lowest pitch first
func (g *Grid) ActiveRows(col int) []int {
	g.check(0, col)
	g.mu.RLock()
	defer g.mu.RUnlock()
	var rows []int
	for row := 0; row < Rows; row++ {
		if g.active[row][col] {
			rows = append(rows, row)
		}
	}
	return rows
}

// SetFading marks a cell as trail, tinting its highlight color
func (g *Grid) SetFading(row, col int) {
	g.check(row, col)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setFading(row, col)
}

func (g *Grid) setFading(row, col int) {
	g.fadeColor[row][col] = theme.Blend(g.baseColor(row, col), g.theme.Trail)
	g.fading[row][col] = true
}

// ClearFading restores a cell to its active-derived look
func (g *Grid) ClearFading(row, col int) {
	g.check(row, col)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fading[row][col] = false
}

// FadeColumn marks every cell of col as trail
func (g *Grid) FadeColumn(col int) {
	g.check(0, col)
	g.mu.Lock()
	defer g.mu.Unlock()
	for row := 0; row < Rows; row++ {
		g.setFading(row, col)
	}
}

// RestoreColumn clears the trail from every cell of col
func (g *Grid) RestoreColumn(col int) {
	g.check(0, col)
	g.mu.Lock()
	defer g.mu.Unlock()
	for row := 0; row < Rows; row++ {
		g.fading[row][col] = false
	}
}

// ClearAllFading drops the trail everywhere. Returns how many cells were fading.
func (g *Grid) ClearAllFading() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for row := range g.fading {
		for col := range g.fading[row] {
			if g.fading[row][col] {
				n++
			}
			g.fading[row][col] = false
		}
	}
	return n
}

// ResetAll deactivates every cell and clears all visual state
func (g *Grid) ResetAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = [Rows][Cols]bool{}
	g.fading = [Rows][Cols]bool{}
	g.fadeColor = [Rows][Cols]theme.RGB{}
}

// ActiveCount returns the number of active cells
func (g *Grid) ActiveCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for row := range g.active {
		for col := range g.active[row] {
			if g.active[row][col] {
				n++
			}
		}
	}
	return n
}

// baseColor is the look without trail: row color when active, idle otherwise.
// Caller holds mu.
func (g *Grid) baseColor(row, col int) theme.RGB {
	if g.active[row][col] {
		return g.theme.Row(row)
	}
	return g.theme.Idle
}

// Cell returns a snapshot of one cell
func (g *Grid) Cell(row, col int) Cell {
	g.check(row, col)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cell(row, col)
}

func (g *Grid) cell(row, col int) Cell {
	c := Cell{Active: g.active[row][col], Color: g.baseColor(row, col)}
	switch {
	case g.fading[row][col]:
		c.Visual = Fading
		c.Color = g.fadeColor[row][col]
	case c.Active:
		c.Visual = Active
	}
	return c
}

// Snapshot copies the whole grid under one lock
func (g *Grid) Snapshot() [Rows][Cols]Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out [Rows][Cols]Cell
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			out[row][col] = g.cell(row, col)
		}
	}
	return out
}
