package sequencer

import (
	"sync"
	"time"

	"go-songmaker/debug"
	"go-songmaker/midi"
)

// Manager is the application context: it owns the grid, tempo and engine,
// and fans their changes out to the UI and the pad controller.
type Manager struct {
	grid    *Grid
	tempo   *Tempo
	engine  *Engine
	trigger Trigger // auditions cells as they are switched on
	shuffle Strategy

	controller midi.Controller

	mu     sync.Mutex
	mode   Mode
	page   int  // pad controller page
	follow bool // page tracks the playhead

	// LED rendering at fixed FPS
	ledDirty    bool
	ledReset    bool                // controller changed, forget prevLEDs
	prevLEDs    map[[2]int]LEDState // owned by the LED loop
	ledStopChan chan struct{}
	closeOnce   sync.Once

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// State is a snapshot for display
type State struct {
	Playing  bool
	Playhead int
	Tempo    int
	Delay    time.Duration
	Mode     Mode
	Page     int
	RunID    uint64
	Active   int
}

// LED refresh rate
const ledFPS = 30

func NewManager(grid *Grid, tempo *Tempo, trigger Trigger) *Manager {
	if trigger == nil {
		trigger = NopTrigger
	}
	m := &Manager{
		grid:        grid,
		tempo:       tempo,
		trigger:     trigger,
		shuffle:     Shuffled(nil),
		follow:      true,
		prevLEDs:    make(map[[2]int]LEDState),
		ledStopChan: make(chan struct{}),
		UpdateChan:  make(chan struct{}, 1),
	}
	m.engine = NewEngine(grid, trigger, tempo)
	m.engine.SetOnStep(m.onStep)
	m.engine.SetOnFinish(m.onFinish)
	return m
}

func (m *Manager) Grid() *Grid     { return m.grid }
func (m *Manager) Engine() *Engine { return m.engine }

// SetShuffle replaces the random traversal (tests pass a seeded one)
func (m *Manager) SetShuffle(s Strategy) {
	m.shuffle = s
}

// StartRuntime starts the LED loop (called once at startup)
func (m *Manager) StartRuntime() {
	go m.ledLoop()
}

// Close stops playback and the LED loop
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.engine.Close()
		close(m.ledStopChan)
	})
}

// Toggle flips a cell and auditions it when switched on. Unlike Grid.Toggle
// it reports a bad coordinate as an error.
func (m *Manager) Toggle(row, col int) (bool, error) {
	if !m.grid.Contains(row, col) {
		err := &CoordinateError{Row: row, Col: col}
		debug.Error("grid", err, "toggle rejected")
		return false, err
	}
	on := m.grid.Toggle(row, col)
	debug.Log("grid", "toggle (%d,%d) -> %v", row, col, on)
	if on {
		if err := m.trigger.Trigger(row); err != nil {
			debug.Error("trigger", &TriggerError{Row: row, Err: err}, "audition")
		}
	}
	m.changed()
	return on, nil
}

// Play starts a run in the given order, superseding any current run
func (m *Manager) Play(mode Mode) uint64 {
	strategy := Strategy(Sequential)
	if mode == ModeShuffled {
		strategy = m.shuffle
	}

	m.mu.Lock()
	m.mode = mode
	m.follow = true
	m.mu.Unlock()

	id := m.engine.Start(strategy)
	debug.Log("manager", "play %s run=%d", mode, id)
	m.changed()
	return id
}

// Stop cancels playback
func (m *Manager) Stop() bool {
	was := m.engine.Stop()
	m.changed()
	return was
}

// Reset clears every cell. A run in flight keeps going over the empty grid.
func (m *Manager) Reset() {
	m.grid.ResetAll()
	debug.Log("manager", "reset")
	m.changed()
}

// SetTempo clamps and stores the tempo; the next step uses it
func (m *Manager) SetTempo(v int) int {
	v = m.tempo.Set(v)
	m.changed()
	return v
}

func (m *Manager) AdjustTempo(delta int) int {
	return m.SetTempo(m.tempo.Get() + delta)
}

func (m *Manager) State() State {
	m.mu.Lock()
	mode, page := m.mode, m.page
	m.mu.Unlock()
	return State{
		Playing:  m.engine.Playing(),
		Playhead: m.engine.Playhead(),
		Tempo:    m.tempo.Get(),
		Delay:    m.tempo.Delay(),
		Mode:     mode,
		Page:     page,
		RunID:    m.engine.RunID(),
		Active:   m.grid.ActiveCount(),
	}
}

func (m *Manager) onStep(s Step) {
	m.mu.Lock()
	if m.follow {
		m.page = PageOf(s.Col)
	}
	m.mu.Unlock()
	m.changed()
}

func (m *Manager) onFinish(id uint64, completed bool) {
	debug.Log("manager", "run %d finished completed=%v", id, completed)
	m.changed()
}

// changed marks LEDs dirty and wakes the UI without blocking
func (m *Manager) changed() {
	m.markLEDsDirty()
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

// SetController sets the pad controller for LED feedback
func (m *Manager) SetController(c midi.Controller) {
	debug.Log("ctrl", "SetController called, resetting diff state")
	m.mu.Lock()
	m.controller = c
	m.ledReset = true
	m.ledDirty = c != nil
	m.mu.Unlock()
}

func (m *Manager) markLEDsDirty() {
	m.mu.Lock()
	m.ledDirty = true
	m.mu.Unlock()
}

// ledLoop runs at fixed FPS and flushes LED updates
func (m *Manager) ledLoop() {
	ticker := time.NewTicker(time.Second / ledFPS)
	defer ticker.Stop()

	for {
		select {
		case <-m.ledStopChan:
			return
		case <-ticker.C:
			m.mu.Lock()
			dirty := m.ledDirty
			m.ledDirty = false
			m.mu.Unlock()

			if dirty {
				m.flushLEDs()
			}
		}
	}
}

// flushLEDs sends only changed LEDs to the controller
func (m *Manager) flushLEDs() {
	m.mu.Lock()
	ctrl := m.controller
	if m.ledReset {
		m.prevLEDs = make(map[[2]int]LEDState)
		m.ledReset = false
	}
	m.mu.Unlock()
	if ctrl == nil {
		return
	}

	newLEDs := m.RenderLEDs()
	newMap := make(map[[2]int]LEDState, len(newLEDs))

	var updates []midi.LEDUpdate
	for _, led := range newLEDs {
		key := [2]int{led.Row, led.Col}
		newMap[key] = led
		if prev, ok := m.prevLEDs[key]; !ok || prev != led {
			updates = append(updates, midi.LEDUpdate{Row: led.Row, Col: led.Col, Color: led.Color})
		}
	}

	// Clear LEDs that are no longer present
	for key := range m.prevLEDs {
		if _, ok := newMap[key]; !ok {
			updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1]})
		}
	}

	if len(updates) > 0 {
		debug.LogEvery(50, "led", "flushLEDs: batch=%d prev=%d", len(updates), len(m.prevLEDs))
		if err := ctrl.SetLEDBatch(updates); err != nil {
			debug.Error("led", err, "flush")
		}
	}

	m.prevLEDs = newMap
}
