package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-songmaker/debug"
	"go-songmaker/midi"
	"go-songmaker/sequencer"
	"go-songmaker/theme"
	"go-songmaker/widgets"
)

type Model struct {
	Manager   *sequencer.Manager
	DeviceMgr *midi.DeviceManager // nil when the pad controller is disabled
	Theme     *theme.Theme
	Labels    []string // row names for the grid

	keys       keyMap
	help       help.Model
	cursorRow  int
	cursorCol  int
	quitting   bool
	controller midi.Controller // current controller (may be nil)
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(manager *sequencer.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Manager:   manager,
		DeviceMgr: deviceMgr,
		Theme:     th,
		keys:      defaultKeys(),
		help:      help.New(),
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Manager)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.controller = event.Controller
			m.Manager.SetController(event.Controller)

			// Listen for pad events from the controller
			go func(c midi.Controller) {
				for pad := range c.PadEvents() {
					m.Manager.HandlePad(pad.Row, pad.Col)
				}
			}(event.Controller)
		case midi.DeviceDisconnected:
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
				m.Manager.SetController(nil)
			}
		}
		if m.DeviceMgr == nil {
			return m, nil
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.Manager.Stop()
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		m.cursorRow = max(m.cursorRow-1, 0)
	case key.Matches(msg, k.Down):
		m.cursorRow = min(m.cursorRow+1, sequencer.Rows-1)
	case key.Matches(msg, k.Left):
		m.cursorCol = max(m.cursorCol-1, 0)
	case key.Matches(msg, k.Right):
		m.cursorCol = min(m.cursorCol+1, sequencer.Cols-1)

	case key.Matches(msg, k.Toggle):
		if _, err := m.Manager.Toggle(m.cursorRow, m.cursorCol); err != nil {
			debug.Error("tui", err, "toggle")
		}
	case key.Matches(msg, k.Play):
		m.Manager.Play(sequencer.ModeSequential)
	case key.Matches(msg, k.Shuffle):
		m.Manager.Play(sequencer.ModeShuffled)
	case key.Matches(msg, k.Stop):
		m.Manager.Stop()
	case key.Matches(msg, k.Reset):
		m.Manager.Reset()

	case key.Matches(msg, k.Faster):
		m.Manager.AdjustTempo(1)
	case key.Matches(msg, k.Slower):
		m.Manager.AdjustTempo(-1)
	case key.Matches(msg, k.Tempo):
		m.Manager.SetTempo(int(msg.String()[0] - '0'))

	case key.Matches(msg, k.PrevPage):
		m.Manager.TurnPage(-1)
	case key.Matches(msg, k.NextPage):
		m.Manager.TurnPage(1)

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Manager.State()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	playState := "STOP"
	if st.Playing {
		playState = "PLAY"
	}
	step := "--"
	if st.Playhead >= 0 {
		step = fmt.Sprintf("%02d", st.Playhead+1)
	}
	deviceStatus := ""
	if m.controller != nil {
		deviceStatus = fmt.Sprintf("  LP:X p%d/%d", st.Page+1, sequencer.PageCount())
	}

	header := headerStyle.Render(fmt.Sprintf("go-songmaker  %s %-7s  tempo %2d (%4dms)  step %s/%d%s",
		playState, st.Mode, st.Tempo, st.Delay.Milliseconds(), step, sequencer.Cols, deviceStatus))

	page := -1
	if m.controller != nil {
		page = st.Page
	}
	grid := widgets.RenderGrid(widgets.GridView{
		Cells:     m.Manager.Grid().Snapshot(),
		CursorRow: m.cursorRow,
		CursorCol: m.cursorCol,
		Playhead:  st.Playhead,
		Page:      page,
		Labels:    m.Labels,
	}, m.Theme)

	body := grid
	if m.controller != nil {
		pads := widgets.RenderPadGrid(m.Manager.RenderLEDs(), m.Theme)
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, "   ", pads)
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(fmt.Sprintf("%d active", st.Active)))
	out.WriteString("\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}
