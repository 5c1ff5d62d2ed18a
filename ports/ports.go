// Package ports builds the sample trigger ports named by the config.
package ports

import (
	"time"

	"go-songmaker/audio"
	"go-songmaker/config"
	"go-songmaker/debug"
	"go-songmaker/midi"
	"go-songmaker/sequencer"
)

// Overridden in tests; these touch real devices.
var (
	openSpeaker  = audio.OpenSpeaker
	closeSpeaker = audio.CloseSpeaker
	openNotes    = midi.OpenNoteTrigger
)

// Ports holds the opened trigger ports. A port that fails to open is left
// nil and logged; playback goes on without it.
type Ports struct {
	Samples *audio.SampleBank
	Notes   *midi.NoteTrigger

	speaker bool
}

// Open opens every enabled port
func Open(cfg *config.Config) *Ports {
	p := &Ports{}

	if cfg.Samples.Enabled {
		if err := openSpeaker(); err != nil {
			debug.Error("audio", err, "speaker unavailable, samples disabled")
		} else {
			p.speaker = true
			p.Samples = audio.NewSampleBank(sequencer.Rows)
			if err := p.Samples.LoadDir(cfg.Samples.Dir, cfg.Samples.Files); err != nil {
				debug.Error("audio", err, "load samples from %s", cfg.Samples.Dir)
			}
		}
	}

	if cfg.MIDI.Enabled {
		gate := time.Duration(cfg.MIDI.GateMS) * time.Millisecond
		nt, err := openNotes(cfg.MIDI.Port, cfg.MIDI.Channel, cfg.MIDI.NoteBytes(), gate)
		if err != nil {
			debug.Error("midi-out", err, "MIDI output disabled")
		} else {
			p.Notes = nt
		}
	}

	return p
}

// Trigger fans one row out to every open port
func (p *Ports) Trigger() sequencer.Triggers {
	var ts sequencer.Triggers
	if p.Samples != nil {
		ts = append(ts, p.Samples)
	}
	if p.Notes != nil {
		ts = append(ts, p.Notes)
	}
	return ts
}

// Close releases sounding notes and the speaker
func (p *Ports) Close() {
	if p.Notes != nil {
		if err := p.Notes.Close(); err != nil {
			debug.Error("midi-out", err, "close")
		}
	}
	if p.speaker {
		closeSpeaker()
	}
}
