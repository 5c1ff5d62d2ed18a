package ports

import (
	"errors"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-songmaker/audio"
	"go-songmaker/config"
	"go-songmaker/midi"
)

func stubDevices(t *testing.T, speakerErr error) (sent *[]gomidi.Message, closed *bool) {
	t.Helper()
	oldOpen, oldClose, oldNotes := openSpeaker, closeSpeaker, openNotes
	t.Cleanup(func() { openSpeaker, closeSpeaker, openNotes = oldOpen, oldClose, oldNotes })

	var msgs []gomidi.Message
	var speakerClosed bool
	openSpeaker = func() error { return speakerErr }
	closeSpeaker = func() { speakerClosed = true }
	openNotes = func(port string, ch uint8, notes []uint8, gate time.Duration) (*midi.NoteTrigger, error) {
		if port == "missing" {
			return nil, errors.New("no such port")
		}
		return midi.NewNoteTrigger(func(m gomidi.Message) error {
			msgs = append(msgs, m)
			return nil
		}, ch, notes, gate), nil
	}
	return &msgs, &speakerClosed
}

func TestOpenNothingEnabled(t *testing.T) {
	stubDevices(t, nil)
	cfg := config.DefaultConfig()
	cfg.Samples.Enabled = false

	p := Open(cfg)
	if p.Samples != nil || p.Notes != nil || len(p.Trigger()) != 0 {
		t.Fatalf("ports = %+v", p)
	}
	if err := p.Trigger().Trigger(0); err != nil {
		t.Fatalf("empty fan-out failed: %v", err)
	}
}

func TestOpenSamplesAndMIDI(t *testing.T) {
	sent, closed := stubDevices(t, nil)
	cfg := config.DefaultConfig()
	cfg.Samples.Dir = t.TempDir() // no files: every row stays empty
	cfg.MIDI.Enabled = true
	cfg.MIDI.Channel = 3

	p := Open(cfg)
	if p.Samples == nil || p.Notes == nil || len(p.Trigger()) != 2 {
		t.Fatalf("ports = %+v", p)
	}

	err := p.Trigger().Trigger(2)
	if !errors.Is(err, audio.ErrSampleMissing) {
		t.Fatalf("err = %v, want missing sample", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("MIDI port not triggered alongside the failing bank: %v", *sent)
	}
	var ch, key, vel uint8
	if !(*sent)[0].GetNoteOn(&ch, &key, &vel) || ch != 3 || key != 64 {
		t.Fatalf("sent %v", (*sent)[0])
	}

	p.Close()
	if !*closed {
		t.Fatal("speaker left open")
	}
	if len(*sent) != 2 {
		t.Fatalf("sounding note not released on close: %v", *sent)
	}
}

func TestOpenFailuresAreNotFatal(t *testing.T) {
	_, closed := stubDevices(t, errors.New("no audio device"))
	cfg := config.DefaultConfig()
	cfg.MIDI.Enabled = true
	cfg.MIDI.Port = "missing"

	p := Open(cfg)
	if p.Samples != nil || p.Notes != nil {
		t.Fatalf("ports = %+v", p)
	}
	p.Close()
	if *closed {
		t.Fatal("closed a speaker that never opened")
	}
}
