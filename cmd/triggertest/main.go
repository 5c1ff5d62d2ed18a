package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-songmaker/config"
	"go-songmaker/debug"
	lp "go-songmaker/midi"
	"go-songmaker/ports"
	"go-songmaker/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "rows":
		fireRows()
	case "pads":
		testPads()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Trigger Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  rows    - Fire each pitch row through the configured ports")
	fmt.Println("  pads    - Show a test grid on a Launchpad and play it")
	fmt.Println("  poll    - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.GetInPorts(), outs: midi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	// failures are logged, so show them here
	debug.SetOutput(os.Stderr)
	return cfg
}

func fireRows() {
	cfg := loadConfig()
	out := ports.Open(cfg)
	defer out.Close()

	trig := out.Trigger()
	if len(trig) == 0 {
		fmt.Println("No trigger port opened (enable samples or midi in the config)")
		return
	}

	labels := cfg.Samples.Labels()
	for row := 0; row < sequencer.Rows; row++ {
		name := fmt.Sprintf("row %d", row)
		if row < len(labels) {
			name = fmt.Sprintf("row %d (%s)", row, labels[row])
		}
		if out.Samples != nil && out.Samples.Path(row) != "" {
			name += " " + out.Samples.Path(row)
		}
		if err := trig.Trigger(row); err != nil {
			fmt.Printf("  %-24s FAILED: %v\n", name, err)
		} else {
			fmt.Printf("  %-24s ok\n", name)
		}
		time.Sleep(400 * time.Millisecond)
	}
}

func testPads() {
	fmt.Println("Looking for Launchpad X...")

	dm := lp.NewDeviceManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dm.Run(ctx)

	var ctrl lp.Controller
	deadline := time.Now().Add(5 * time.Second)
	for ctrl == nil && time.Now().Before(deadline) {
		time.Sleep(200 * time.Millisecond)
		ctrl = dm.GetLaunchpad()
	}
	if ctrl == nil {
		fmt.Println("Launchpad X not found")
		return
	}
	fmt.Printf("Using %s\n", ctrl.ID())

	// diagonal across every page
	mgr := sequencer.NewManager(sequencer.NewGrid(nil), sequencer.NewTempo(8), nil)
	for col := 0; col < sequencer.Cols; col++ {
		mgr.Toggle(col%sequencer.Rows, col)
	}
	mgr.SetController(ctrl)
	mgr.StartRuntime()
	defer mgr.Close()

	go func() {
		for pad := range ctrl.PadEvents() {
			mgr.HandlePad(pad.Row, pad.Col)
		}
	}()

	mgr.Play(sequencer.ModeSequential)
	fmt.Println("Playing the test grid. Pads are live. Press Enter to quit...")
	fmt.Scanln()
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect devices to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		var inNames, outNames []string
		for _, p := range midi.GetInPorts() {
			inNames = append(inNames, p.String())
		}
		for _, p := range midi.GetOutPorts() {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			for _, name := range inNames {
				if strings.Contains(strings.ToLower(name), "launchpad") {
					fmt.Println("  -> Launchpad detected!")
				}
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
