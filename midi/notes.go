package midi

import (
	"strings"
	"sync"
	"time"

	"go-songmaker/debug"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DefaultNotes is a C major scale from middle C, one note per pitch row
var DefaultNotes = []uint8{60, 62, 64, 65, 67, 69, 71, 72}

const defaultVelocity = 100

// NoteTrigger plays a pitch row as a MIDI note on an output port. Each
// note is released after a fixed gate time.
type NoteTrigger struct {
	send    func(gomidi.Message) error
	channel uint8
	notes   []uint8
	gate    time.Duration

	mu      sync.Mutex
	pending map[uint8]*time.Timer
}

// FindOutPort returns the first output port whose name contains match
// (case-insensitive). An empty match takes the first port.
func FindOutPort(match string) (drivers.Out, error) {
	match = strings.ToLower(match)
	for _, port := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(port.String()), match) {
			return port, nil
		}
	}
	return nil, errors.Errorf("no MIDI output port matching %q", match)
}

// OpenNoteTrigger opens the output port matching portMatch
func OpenNoteTrigger(portMatch string, channel uint8, notes []uint8, gate time.Duration) (*NoteTrigger, error) {
	port, err := FindOutPort(portMatch)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", port.String())
	}
	debug.Log("midi-out", "opened %s channel=%d notes=%v", port.String(), channel, notes)
	return NewNoteTrigger(send, channel, notes, gate), nil
}

func NewNoteTrigger(send func(gomidi.Message) error, channel uint8, notes []uint8, gate time.Duration) *NoteTrigger {
	if len(notes) == 0 {
		notes = DefaultNotes
	}
	return &NoteTrigger{
		send:    send,
		channel: channel & 0x0F,
		notes:   notes,
		gate:    gate,
		pending: make(map[uint8]*time.Timer),
	}
}

// Trigger sends a note-on for row's note. A note still sounding is released
// first so repeated hits retrigger.
func (n *NoteTrigger) Trigger(row int) error {
	if row < 0 || row >= len(n.notes) {
		return errors.Errorf("no MIDI note for row %d", row)
	}
	note := n.notes[row]

	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.pending[note]; ok {
		t.Stop()
		n.send(gomidi.NoteOff(n.channel, note))
	}

	if err := n.send(gomidi.NoteOn(n.channel, note, defaultVelocity)); err != nil {
		delete(n.pending, note)
		return errors.Wrapf(err, "note on %d", note)
	}

	var t *time.Timer
	t = time.AfterFunc(n.gate, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.pending[note] != t {
			return
		}
		delete(n.pending, note)
		if err := n.send(gomidi.NoteOff(n.channel, note)); err != nil {
			debug.Error("midi-out", err, "note off %d", note)
		}
	})
	n.pending[note] = t
	return nil
}

// Close releases every sounding note
func (n *NoteTrigger) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	var first error
	for note, t := range n.pending {
		t.Stop()
		if err := n.send(gomidi.NoteOff(n.channel, note)); err != nil && first == nil {
			first = err
		}
		delete(n.pending, note)
	}
	return first
}
