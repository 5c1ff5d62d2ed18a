// Package audio plays one WAV sample per pitch row through the speaker.
package audio

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-songmaker/debug"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/pkg/errors"
)

// SampleRate is the speaker rate every sample is resampled to
const SampleRate beep.SampleRate = 44100

// ErrSampleMissing is returned when a row has no loaded sample
var ErrSampleMissing = errors.New("sample missing")

// SampleBank holds decoded samples indexed by pitch row
type SampleBank struct {
	mu      sync.RWMutex
	format  beep.Format
	buffers []*beep.Buffer
	paths   []string

	play func(beep.Streamer)
}

// OpenSpeaker initializes the output device. Call once before Trigger.
func OpenSpeaker() error {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	return nil
}

// CloseSpeaker releases the output device
func CloseSpeaker() {
	speaker.Close()
}

// NewSampleBank creates an empty bank with one slot per row
func NewSampleBank(rows int) *SampleBank {
	return &SampleBank{
		format:  beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2},
		buffers: make([]*beep.Buffer, rows),
		paths:   make([]string, rows),
		play:    func(s beep.Streamer) { speaker.Play(s) },
	}
}

// LoadDir loads files[i] from dir into row i. Rows whose file fails to load
// stay empty; the returned error lists them.
func (b *SampleBank) LoadDir(dir string, files []string) error {
	var failed []error
	for row, name := range files {
		if row >= len(b.buffers) {
			break
		}
		if err := b.Load(row, filepath.Join(dir, name)); err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return errors.Errorf("%d of %d samples failed to load: %v", len(failed), len(files), failed)
	}
	return nil
}

// Load decodes a WAV file into row, resampling to the speaker rate
func (b *SampleBank) Load(row int, path string) error {
	if row < 0 || row >= len(b.buffers) {
		return errors.Errorf("row %d out of range", row)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "row %d", row)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != b.format.SampleRate {
		s = beep.Resample(4, format.SampleRate, b.format.SampleRate, streamer)
	}

	buf := beep.NewBuffer(b.format)
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	b.mu.Lock()
	b.buffers[row] = buf
	b.paths[row] = path
	b.mu.Unlock()

	debug.Log("audio", "row %d: %s (%d frames, %dHz -> %dHz)", row, path, buf.Len(), format.SampleRate, b.format.SampleRate)
	return nil
}

// Loaded reports whether row has a sample
func (b *SampleBank) Loaded(row int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return row >= 0 && row < len(b.buffers) && b.buffers[row] != nil
}

// Path is the file loaded into row, or "" when empty
func (b *SampleBank) Path(row int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if row < 0 || row >= len(b.paths) {
		return ""
	}
	return b.paths[row]
}

// Trigger starts row's sample from the beginning. Overlapping hits mix.
func (b *SampleBank) Trigger(row int) error {
	b.mu.RLock()
	var buf *beep.Buffer
	if row >= 0 && row < len(b.buffers) {
		buf = b.buffers[row]
	}
	b.mu.RUnlock()

	if buf == nil {
		return errors.Wrapf(ErrSampleMissing, "row %d", row)
	}
	b.play(buf.Streamer(0, buf.Len()))
	return nil
}
