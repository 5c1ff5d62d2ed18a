package sequencer

import "errors"

// Trigger plays the sample for a pitch row (0 = lowest). It must not block;
// the playback loop calls it while holding its step lock.
type Trigger interface {
	Trigger(row int) error
}

// TriggerFunc adapts a function to Trigger
type TriggerFunc func(row int) error

func (f TriggerFunc) Trigger(row int) error { return f(row) }

// Triggers fans one trigger out to several ports. Every port is called even
// when an earlier one fails.
type Triggers []Trigger

func (ts Triggers) Trigger(row int) error {
	var errs []error
	for _, t := range ts {
		if err := t.Trigger(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopTrigger is used when no output port is configured
var NopTrigger = TriggerFunc(func(int) error { return nil })
