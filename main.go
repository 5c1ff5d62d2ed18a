package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-songmaker/config"
	"go-songmaker/debug"
	"go-songmaker/midi"
	"go-songmaker/ports"
	"go-songmaker/sequencer"
	"go-songmaker/theme"
	"go-songmaker/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("Warning: debug log unavailable: %v\n", err)
		}
	}

	th, err := buildTheme(cfg.Theme)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Trigger ports: samples and/or MIDI notes
	out := ports.Open(cfg)
	defer out.Close()

	grid := sequencer.NewGrid(th)
	tempo := sequencer.NewTempo(cfg.Tempo)
	manager := sequencer.NewManager(grid, tempo, out.Trigger())
	manager.Engine().SetClearTrailOnFinish(cfg.Playback.ClearTrailOnFinish)
	manager.StartRuntime()
	defer manager.Close()

	// Pad controller hot-plug
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var deviceMgr *midi.DeviceManager
	if cfg.Launchpad.Enabled {
		deviceMgr = midi.NewDeviceManager()
		go deviceMgr.Run(ctx)
	}

	m := tui.NewModel(manager, deviceMgr, th)
	m.Labels = cfg.Samples.Labels()
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg.Tempo = tempo.Get()
	if err := cfg.Save(); err != nil {
		debug.Error("config", err, "save tempo")
	}
}

func buildTheme(tc config.ThemeConfig) (*theme.Theme, error) {
	th := theme.New()
	if tc.Palette != "" {
		palette, err := theme.LoadGPL(tc.Palette)
		if err != nil {
			return nil, err
		}
		th.ApplyPalette(palette)
	}
	if tc.Trail != "" {
		c, err := theme.ParseHex(tc.Trail)
		if err != nil {
			return nil, err
		}
		th.Trail = c
	}
	if tc.Idle != "" {
		c, err := theme.ParseHex(tc.Idle)
		if err != nil {
			return nil, err
		}
		th.Idle = c
	}
	return th, nil
}
