package midi

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type sentLog struct {
	mu   sync.Mutex
	msgs []gomidi.Message
	on   chan uint8
	off  chan uint8
}

func newSentLog() *sentLog {
	return &sentLog{on: make(chan uint8, 16), off: make(chan uint8, 16)}
}

func (s *sentLog) send(msg gomidi.Message) error {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()

	var ch, key, vel uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		s.on <- key
	case msg.GetNoteOff(&ch, &key, &vel):
		s.off <- key
	}
	return nil
}

func TestNoteTriggerOnOff(t *testing.T) {
	log := newSentLog()
	nt := NewNoteTrigger(log.send, 2, nil, 5*time.Millisecond)

	if err := nt.Trigger(3); err != nil {
		t.Fatal(err)
	}
	if got := <-log.on; got != 65 {
		t.Fatalf("note on %d, want 65", got)
	}
	select {
	case got := <-log.off:
		if got != 65 {
			t.Fatalf("note off %d", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no note off")
	}

	var ch, key, vel uint8
	if !log.msgs[0].GetNoteOn(&ch, &key, &vel) || ch != 2 || vel != defaultVelocity {
		t.Fatalf("first message = %v", log.msgs[0])
	}
}

func TestNoteTriggerRetrigger(t *testing.T) {
	log := newSentLog()
	nt := NewNoteTrigger(log.send, 0, []uint8{40}, time.Hour)

	nt.Trigger(0)
	nt.Trigger(0)

	if <-log.on != 40 || <-log.off != 40 || <-log.on != 40 {
		t.Fatal("expected on, off, on")
	}

	if err := nt.Close(); err != nil {
		t.Fatal(err)
	}
	if <-log.off != 40 {
		t.Fatal("close did not release the note")
	}
}

func TestNoteTriggerBadRow(t *testing.T) {
	nt := NewNoteTrigger(newSentLog().send, 0, nil, time.Millisecond)
	if err := nt.Trigger(8); err == nil {
		t.Fatal("expected error for row 8")
	}
}

func TestPadMapping(t *testing.T) {
	cases := []struct {
		note     uint8
		row, col int
	}{
		{11, 0, 0},
		{18, 0, 7},
		{88, 7, 7},
		{19, 0, 8},
		{93, 8, 2},
		{10, -1, -1},
	}
	for _, c := range cases {
		row, col := noteToRowCol(c.note)
		if row != c.row || col != c.col {
			t.Errorf("noteToRowCol(%d) = %d,%d want %d,%d", c.note, row, col, c.row, c.col)
		}
		if row >= 0 && rowColToNote(row, col) != c.note {
			t.Errorf("rowColToNote(%d,%d) = %d", row, col, rowColToNote(row, col))
		}
	}
	if row, col := ccToRowCol(94); row != 8 || col != 3 {
		t.Errorf("ccToRowCol(94) = %d,%d", row, col)
	}
	if row, col := ccToRowCol(89); row != 7 || col != 8 {
		t.Errorf("ccToRowCol(89) = %d,%d", row, col)
	}
	if row, _ := ccToRowCol(50); row != -1 {
		t.Errorf("ccToRowCol(50) mapped to row %d", row)
	}
}

func TestLEDSysEx(t *testing.T) {
	got := ledSysEx([]LEDUpdate{
		{Row: 0, Col: 0, Color: [3]uint8{255, 128, 0}},
		{Row: 8, Col: 2, Color: [3]uint8{2, 4, 6}},
	})
	want := []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x03,
		0x03, 11, 127, 64, 0,
		0x03, 93, 1, 2, 3,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ledSysEx = % x\nwant      % x", got, want)
	}
}

func TestLaunchpadHandle(t *testing.T) {
	lp := &LaunchpadController{padChan: make(chan PadEvent, 4)}

	lp.handle(gomidi.NoteOn(0, 23, 100), 0)
	lp.handle(gomidi.NoteOn(0, 23, 0), 0) // release
	lp.handle(gomidi.ControlChange(0, 91, 127), 0)

	if ev := <-lp.padChan; ev.Row != 1 || ev.Col != 2 {
		t.Fatalf("first event = %+v", ev)
	}
	if ev := <-lp.padChan; ev.Row != 8 || ev.Col != 0 {
		t.Fatalf("second event = %+v", ev)
	}
	select {
	case ev := <-lp.padChan:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

// port fakes only need String for scanning
type fakeIn struct {
	drivers.In
	name string
}

func (p fakeIn) String() string { return p.name }

type fakeOut struct {
	drivers.Out
	name string
}

func (p fakeOut) String() string { return p.name }

type fakeController struct {
	id     string
	closed bool
	pads   chan PadEvent
}

func (c *fakeController) ID() string { return c.id }
func (c *fakeController) Type() ControllerType { return ControllerLaunchpad }
func (c *fakeController) PadEvents() <-chan PadEvent { return c.pads }
func (c *fakeController) SetLEDBatch([]LEDUpdate) error { return nil }
func (c *fakeController) ClearLEDs() error { return nil }
func (c *fakeController) Close() error { c.closed = true; return nil }

func TestDeviceManagerHotPlug(t *testing.T) {
	dm := NewDeviceManager()
	present := true
	dm.ports = func() ([]drivers.In, []drivers.Out) {
		if !present {
			return nil, nil
		}
		return []drivers.In{fakeIn{name: "Launchpad X LPX MIDI"}, fakeIn{name: "Other Synth"}},
			[]drivers.Out{fakeOut{name: "Launchpad X LPX MIDI"}}
	}
	var opened *fakeController
	dm.open = func(id string, in drivers.In, out drivers.Out) (Controller, error) {
		if out == nil {
			t.Errorf("no matching output for %s", id)
		}
		opened = &fakeController{id: id}
		return opened, nil
	}

	dm.scan()
	ev := <-dm.Events()
	if ev.Type != DeviceConnected || ev.ID != "Launchpad X LPX MIDI" {
		t.Fatalf("event = %+v", ev)
	}
	if len(dm.Controllers()) != 1 {
		t.Fatalf("controllers = %v", dm.Controllers())
	}

	// a second scan with the same ports is quiet
	dm.scan()
	select {
	case ev := <-dm.Events():
		t.Fatalf("unexpected %+v", ev)
	default:
	}

	present = false
	dm.scan()
	ev = <-dm.Events()
	if ev.Type != DeviceDisconnected || !opened.closed {
		t.Fatalf("event = %+v closed=%v", ev, opened.closed)
	}
}

func TestDeviceManagerRunStops(t *testing.T) {
	dm := NewDeviceManager()
	dm.ports = func() ([]drivers.In, []drivers.Out) { return nil, nil }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dm.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	if _, ok := <-dm.Events(); ok {
		t.Fatal("events channel still open")
	}
}
