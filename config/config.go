package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SamplesConfig locates one WAV file per pitch row, lowest first
type SamplesConfig struct {
	Enabled bool     `yaml:"enabled"`
	Dir     string   `yaml:"dir"`
	Files   []string `yaml:"files"`
}

// MIDIConfig sends each pitch row as a note to an output port
type MIDIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port,omitempty"` // substring of the port name
	Channel uint8  `yaml:"channel"`
	Notes   []int  `yaml:"notes,omitempty"`
	GateMS  int    `yaml:"gate_ms"`
}

// ThemeConfig overrides grid colors
type ThemeConfig struct {
	Palette string `yaml:"palette,omitempty"` // GIMP .gpl file for row colors
	Trail   string `yaml:"trail,omitempty"`
	Idle    string `yaml:"idle,omitempty"`
}

// PlaybackConfig holds engine behavior switches
type PlaybackConfig struct {
	ClearTrailOnFinish bool `yaml:"clear_trail_on_finish"`
}

// LaunchpadConfig controls the pad surface
type LaunchpadConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the main configuration structure
type Config struct {
	Tempo     int             `yaml:"tempo"`
	Samples   SamplesConfig   `yaml:"samples"`
	MIDI      MIDIConfig      `yaml:"midi"`
	Theme     ThemeConfig     `yaml:"theme,omitempty"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Launchpad LaunchpadConfig `yaml:"launchpad"`
	Debug     bool            `yaml:"debug"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo: 3,
		Samples: SamplesConfig{
			Enabled: true,
			Dir:     "./Sounds",
			Files: []string{
				"do.wav", "re.wav", "mi.wav", "fa.wav",
				"sol.wav", "la.wav", "si.wav", "do2.wav",
			},
		},
		MIDI: MIDIConfig{
			Notes:  []int{60, 62, 64, 65, 67, 69, 71, 72},
			GateMS: 150,
		},
		Playback: PlaybackConfig{
			ClearTrailOnFinish: true,
		},
		Launchpad: LaunchpadConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locate home dir")
	}
	return filepath.Join(home, ".config", "go-songmaker"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Tempo = min(max(c.Tempo, 0), 10)
	c.MIDI.Channel &= 0x0F
	for i, n := range c.MIDI.Notes {
		c.MIDI.Notes[i] = min(max(n, 0), 127)
	}
	if c.MIDI.GateMS <= 0 {
		c.MIDI.GateMS = DefaultConfig().MIDI.GateMS
	}
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create config dir")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}

	return errors.Wrap(os.WriteFile(path, data, 0644), "write config")
}

// NoteBytes returns the configured notes as MIDI key numbers
func (m MIDIConfig) NoteBytes() []uint8 {
	out := make([]uint8, len(m.Notes))
	for i, n := range m.Notes {
		out[i] = uint8(n)
	}
	return out
}

// Labels names each row after its sample file, without the extension
func (s SamplesConfig) Labels() []string {
	out := make([]string, len(s.Files))
	for i, f := range s.Files {
		out[i] = strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
	}
	return out
}
