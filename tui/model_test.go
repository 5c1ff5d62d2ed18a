package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-songmaker/midi"
	"go-songmaker/sequencer"
	"go-songmaker/theme"
)

type fakeController struct {
	pads chan midi.PadEvent
}

func (f *fakeController) ID() string { return "fake" }
func (f *fakeController) Type() midi.ControllerType { return midi.ControllerLaunchpad }
func (f *fakeController) PadEvents() <-chan midi.PadEvent { return f.pads }
func (f *fakeController) SetLEDBatch([]midi.LEDUpdate) error { return nil }
func (f *fakeController) ClearLEDs() error { return nil }
func (f *fakeController) Close() error { return nil }

func newTestModel() Model {
	th := theme.New()
	mgr := sequencer.NewManager(sequencer.NewGrid(th), sequencer.NewTempo(sequencer.MaxTempo), nil)
	return NewModel(mgr, nil, th)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestCursorAndToggle(t *testing.T) {
	m := newTestModel()
	m = press(m,
		runes("l"), runes("l"), runes("j"),
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.cursorRow != 1 || m.cursorCol != 3 {
		t.Fatalf("cursor = (%d,%d)", m.cursorRow, m.cursorCol)
	}
	g := m.Manager.Grid()
	if !g.IsActive(1, 2) || !g.IsActive(1, 3) {
		t.Fatal("toggle keys did not set cells")
	}
}

func TestCursorClamps(t *testing.T) {
	m := newTestModel()
	m = press(m, runes("k"), runes("h"))
	if m.cursorRow != 0 || m.cursorCol != 0 {
		t.Fatalf("cursor = (%d,%d)", m.cursorRow, m.cursorCol)
	}
	for i := 0; i < sequencer.Cols+5; i++ {
		m = press(m, runes("l"))
	}
	for i := 0; i < sequencer.Rows+5; i++ {
		m = press(m, runes("j"))
	}
	if m.cursorRow != sequencer.Rows-1 || m.cursorCol != sequencer.Cols-1 {
		t.Fatalf("cursor = (%d,%d)", m.cursorRow, m.cursorCol)
	}
}

func TestTempoKeys(t *testing.T) {
	m := newTestModel()
	m = press(m, runes("4"))
	if got := m.Manager.State().Tempo; got != 4 {
		t.Fatalf("tempo = %d", got)
	}
	m = press(m, runes("+"), runes("+"))
	if got := m.Manager.State().Tempo; got != 6 {
		t.Fatalf("tempo = %d", got)
	}
	m = press(m, runes("-"))
	if got := m.Manager.State().Tempo; got != 5 {
		t.Fatalf("tempo = %d", got)
	}
}

func TestPlayAndResetKeys(t *testing.T) {
	m := newTestModel()
	m = press(m, tea.KeyMsg{Type: tea.KeySpace}, runes("p"))
	m.Manager.Engine().Wait()
	if m.Manager.State().RunID == 0 {
		t.Fatal("p did not start a run")
	}

	m = press(m, runes("r"))
	m.Manager.Engine().Wait()
	if m.Manager.State().Mode != sequencer.ModeShuffled {
		t.Fatal("r did not shuffle")
	}

	m = press(m, runes("x"))
	if m.Manager.State().Active != 0 {
		t.Fatal("x did not reset")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel()
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
	if next.(Model).View() != "" {
		t.Fatal("view not blank after quit")
	}
}

func TestView(t *testing.T) {
	m := newTestModel()
	m.Labels = []string{"do"}
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})

	out := m.View()
	for _, want := range []string{"STOP", "seq", "tempo 10", "step --/30", "1 active", "do"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "LP:X") {
		t.Error("controller status shown without a controller")
	}
}

func TestDeviceEvents(t *testing.T) {
	m := newTestModel()
	ctrl := &fakeController{pads: make(chan midi.PadEvent, 1)}

	m = press(m, DeviceEventMsg{Type: midi.DeviceConnected, ID: "fake", Controller: ctrl})
	if !strings.Contains(m.View(), "LP:X p1/4") {
		t.Fatal("controller status missing")
	}

	// top-left pad is cell (0,0)
	ctrl.pads <- midi.PadEvent{Row: 7, Col: 0, Velocity: 100}
	deadline := time.Now().Add(2 * time.Second)
	for !m.Manager.Grid().IsActive(0, 0) {
		if time.Now().After(deadline) {
			t.Fatal("pad press never reached the grid")
		}
		time.Sleep(5 * time.Millisecond)
	}

	m = press(m, DeviceEventMsg{Type: midi.DeviceDisconnected, ID: "fake"})
	if m.controller != nil {
		t.Fatal("controller kept after disconnect")
	}
	close(ctrl.pads)
}
