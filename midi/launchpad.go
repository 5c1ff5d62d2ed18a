package midi

import (
	"sync/atomic"

	"go-songmaker/debug"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var ledSendCount uint64

// Launchpad X SysEx header (without the leading F0)
var lpxHeader = []byte{0x00, 0x20, 0x29, 0x02, 0x0C}

// LaunchpadController handles a Novation Launchpad X in programmer mode
type LaunchpadController struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()

	padChan chan PadEvent
}

// NewLaunchpadController opens the ports and switches the device to
// programmer mode
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchpadController, error) {
	lp := &LaunchpadController{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		padChan: make(chan PadEvent, 32),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, errors.Wrap(err, "open launchpad output")
		}
		lp.send = send

		// programmer mode
		lp.send(gomidi.SysEx(append(lpxHeader, 0x00, 0x7F)))
		// full brightness
		lp.send(gomidi.SysEx(append(lpxHeader, 0x08, 0x7F)))
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, lp.handle)
		if err != nil {
			return nil, errors.Wrap(err, "open launchpad input")
		}
		lp.stopFunc = stop
	}

	return lp, nil
}

func (lp *LaunchpadController) handle(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity, cc, value uint8

	row, col := -1, -1
	switch {
	case msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0:
		row, col = noteToRowCol(note)
	case msg.GetControlChange(&channel, &cc, &value) && value > 0:
		row, col = ccToRowCol(cc)
		velocity = value
	}
	if row < 0 {
		return
	}

	select {
	case lp.padChan <- PadEvent{Row: row, Col: col, Velocity: velocity}:
	default:
		debug.Warn("lp-input", "pad channel full, dropped (%d,%d)", row, col)
	}
}

func (lp *LaunchpadController) ID() string {
	return lp.id
}

func (lp *LaunchpadController) Type() ControllerType {
	return ControllerLaunchpad
}

func (lp *LaunchpadController) PadEvents() <-chan PadEvent {
	return lp.padChan
}

// SetLEDBatch sends all updates in one RGB SysEx message
func (lp *LaunchpadController) SetLEDBatch(updates []LEDUpdate) error {
	if lp.send == nil || len(updates) == 0 {
		return nil
	}

	atomic.AddUint64(&ledSendCount, uint64(len(updates)))
	debug.LogEvery(100, "lp-send", "batch=%d total=%d", len(updates), atomic.LoadUint64(&ledSendCount))

	return errors.Wrap(lp.send(gomidi.SysEx(ledSysEx(updates))), "send LED batch")
}

// ledSysEx builds a Launchpad X "LED lighting" message, RGB type (3),
// with 7-bit channels
func ledSysEx(updates []LEDUpdate) []byte {
	data := make([]byte, 0, len(lpxHeader)+1+len(updates)*5)
	data = append(data, lpxHeader...)
	data = append(data, 0x03)
	for _, u := range updates {
		data = append(data, 0x03, rowColToNote(u.Row, u.Col),
			u.Color[0]>>1, u.Color[1]>>1, u.Color[2]>>1)
	}
	return data
}

// ClearLEDs turns off every pad
func (lp *LaunchpadController) ClearLEDs() error {
	var updates []LEDUpdate
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if row == 8 && col == 8 {
				continue // no LED at 8,8
			}
			updates = append(updates, LEDUpdate{Row: row, Col: col})
		}
	}
	return lp.SetLEDBatch(updates)
}

func (lp *LaunchpadController) Close() error {
	err := lp.ClearLEDs()
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	close(lp.padChan)
	return err
}

// Launchpad X note mapping
// 8x8 Grid:  Row 0 (bottom) = notes 11-18, Row 7 = notes 81-88
// Side col:  Col 8 (right side scene buttons) = notes 19, 29, 39, 49, 59, 69, 79, 89
// Top row:   Row 8 (top control row) = CC 91-98

func rowColToNote(row, col int) uint8 {
	if row == 8 {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	if note >= 91 && note <= 98 {
		return 8, int(note - 91)
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row > 7 || col < 0 || col > 8 {
		return -1, -1
	}
	return row, col
}

// ccToRowCol converts CC messages to row/col. In programmer mode the top
// row and the scene column send CCs.
func ccToRowCol(cc uint8) (row, col int) {
	switch {
	case cc >= 91 && cc <= 98:
		return 8, int(cc - 91)
	case cc >= 19 && cc <= 89 && cc%10 == 9:
		return int(cc/10) - 1, 8
	}
	return -1, -1
}
