package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
)

// PadEvent is sent when a pad/button is pressed on a grid controller.
// Rows 0-7 are the main grid (bottom to top), row 8 is the top button row,
// col 8 is the right-hand scene column.
type PadEvent struct {
	Row, Col int
	Velocity uint8
}

// LEDUpdate sets one pad to an RGB color
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
}

// Controller is the interface for pad controllers
type Controller interface {
	ID() string
	Type() ControllerType

	PadEvents() <-chan PadEvent

	SetLEDBatch(updates []LEDUpdate) error
	ClearLEDs() error

	Close() error
}
