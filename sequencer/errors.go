package sequencer

import "fmt"

// CoordinateError reports a cell outside the grid. Grid methods panic with
// it since a bad coordinate is a caller bug.
type CoordinateError struct {
	Row, Col int
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("cell (%d, %d) outside %dx%d grid", e.Row, e.Col, Rows, Cols)
}

// TriggerError is a failed sample trigger. It is logged and playback continues.
type TriggerError struct {
	Row int
	Err error
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("trigger row %d: %v", e.Row, e.Err)
}

func (e *TriggerError) Unwrap() error { return e.Err }

// Cause lets errors.Cause see through to the port's error
func (e *TriggerError) Cause() error { return e.Err }
