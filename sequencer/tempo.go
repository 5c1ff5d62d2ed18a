package sequencer

import (
	"sync/atomic"
	"time"
)

// Tempo range. 0 is slowest (1s per step), 10 has no delay at all.
const (
	MinTempo     = 0
	MaxTempo     = 10
	DefaultTempo = 3
)

// Tempo is read by the playback loop once per step, so changes apply from
// the next step on.
type Tempo struct {
	v atomic.Int32
}

func NewTempo(v int) *Tempo {
	t := &Tempo{}
	t.Set(v)
	return t
}

// Set clamps v into range and returns the stored value
func (t *Tempo) Set(v int) int {
	v = ClampTempo(v)
	t.v.Store(int32(v))
	return v
}

func (t *Tempo) Get() int {
	return int(t.v.Load())
}

// Delay is the pause after the current step
func (t *Tempo) Delay() time.Duration {
	return StepDelay(t.Get())
}

// StepDelay is (10 - tempo) / 10 seconds
func StepDelay(tempo int) time.Duration {
	return time.Duration(MaxTempo-ClampTempo(tempo)) * time.Second / 10
}

func ClampTempo(v int) int {
	if v < MinTempo {
		return MinTempo
	}
	if v > MaxTempo {
		return MaxTempo
	}
	return v
}
