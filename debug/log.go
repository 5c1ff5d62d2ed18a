package debug

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	file    *os.File
	logger  = newLogger(io.Discard)
	enabled bool
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}

// Enable starts debug logging to ~/.config/go-songmaker/debug.log
func Enable() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "locate home dir")
	}
	return EnableAt(filepath.Join(home, ".config", "go-songmaker", "debug.log"))
}

// EnableAt starts debug logging to path, truncating it
func EnableAt(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create log dir")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "open debug log")
	}

	file = f
	logger.SetOutput(f)
	enabled = true

	logger.WithField("cat", "debug").Info("=== Debug logging started ===")
	return nil
}

// SetOutput routes log output to w (tests use a buffer)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
	enabled = w != io.Discard
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger.SetOutput(io.Discard)
	enabled = false
}

// Log writes a debug message under a category
func Log(category, format string, args ...any) {
	logger.WithField("cat", category).Debugf(format, args...)
}

// Warn writes a warning under a category
func Warn(category, format string, args ...any) {
	logger.WithField("cat", category).Warnf(format, args...)
}

// Error logs err with context, never fatal
func Error(category string, err error, format string, args ...any) {
	logger.WithField("cat", category).WithError(err).Errorf(format, args...)
}

var (
	countersMu sync.Mutex
	counters   = make(map[string]int)
)

// LogEvery logs only every N calls (use for high-frequency events)
func LogEvery(n int, category, format string, args ...any) {
	countersMu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	countersMu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
