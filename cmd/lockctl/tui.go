package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lockstat/core"
	"lockstat/sim"
)

// tickInterval is both the redraw rate and the simulated time per redraw
const tickInterval = 20 * time.Millisecond

// codeStep is how far + and - move the sensor reading
const codeStep = 16

var errInjectedFault = errors.New("injected display fault")

type keyMap struct {
	Keypad key.Binding
	Warmer key.Binding
	Cooler key.Binding
	Fault  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Keypad, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Keypad},
		{k.Warmer, k.Cooler, k.Fault},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Keypad: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
				"a", "b", "c", "d", "A", "B", "C", "D", "*", "#"),
			key.WithHelp("0-9 a-d * #", "keypad"),
		),
		Warmer: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "warmer")),
		Cooler: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "cooler")),
		Fault:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "display fault")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// keypadKey maps a terminal key to the keypad symbol it stands for
func keypadKey(s string) (core.KeyEvent, bool) {
	if len(s) != 1 {
		return core.KeyNone, false
	}
	k := core.KeyEvent(strings.ToUpper(s)[0])
	if _, _, ok := core.KeyPosition(k); !ok {
		return core.KeyNone, false
	}
	return k, true
}

// lineLog keeps the last few debug lines. The TUI owns stdout, so
// controller debug output lands here.
type lineLog struct {
	lines []string
	max   int
}

func (l *lineLog) add(s string) {
	l.lines = append(l.lines, s)
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
}

type simModel struct {
	rig        *sim.Rig
	configPath string
	keys       keyMap
	help       help.Model
	debug      *lineLog
	faulted    bool
	lastKey    core.KeyEvent
	width      int
	height     int
	quitting   bool
}

type simTickMsg time.Time

func newSimModel(rig *sim.Rig, configPath string) simModel {
	return simModel{
		rig:        rig,
		configPath: configPath,
		keys:       defaultKeyMap(),
		help:       help.New(),
		debug:      &lineLog{max: 6},
		width:      80,
		height:     24,
	}
}

func (m simModel) Init() tea.Cmd {
	return simTick()
}

func simTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return simTickMsg(t)
	})
}

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Keypad):
			if k, ok := keypadKey(msg.String()); ok {
				m.rig.Press(k)
				m.lastKey = k
			}
		case key.Matches(msg, m.keys.Warmer):
			m.rig.ADC.Set(int(m.rig.ADC.Value()) + codeStep)
		case key.Matches(msg, m.keys.Cooler):
			m.rig.ADC.Set(int(m.rig.ADC.Value()) - codeStep)
		case key.Matches(msg, m.keys.Fault):
			m.faulted = !m.faulted
			if m.faulted {
				m.rig.Bus.Fail(core.DisplayAddr, errInjectedFault)
			} else {
				m.rig.Bus.Fail(core.DisplayAddr, nil)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case simTickMsg:
		m.rig.Run(tickInterval)
		return m, simTick()
	}

	return m, nil
}

func (m simModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	lcdStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("114")).
		Padding(0, 1)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	litStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	darkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	r := m.rig
	ctl := r.Controller

	var s strings.Builder
	s.WriteString(titleStyle.Render("LOCKSTAT SIMULATOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Config: %s | Sim time: %s | Press '?' for keys",
		m.configPath, r.Elapsed().Truncate(100*time.Millisecond))))
	s.WriteString("\n\n")

	rows := r.Display.Rows()
	lcd := lcdStyle.Render(rows[0] + "\n" + rows[1])
	leds := boxStyle.Render(ledBar(r.Pattern.Frame(), litStyle.Render("●"), darkStyle.Render("○")) +
		"\n" + headerStyle.Render(fmt.Sprintf("%-8s %3d", core.PatternName(r.Pattern.Pattern()), r.Pattern.Period())))
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, lcd, "  ", leds))
	s.WriteString("\n\n")

	field := func(label, value string) string {
		return labelStyle.Render(label) + " " + valueStyle.Render(value)
	}

	lock := valueStyle.Render("held")
	if ctl.Released() {
		lock = errorStyle.Render("RELEASED")
	}
	var status strings.Builder
	status.WriteString(fmt.Sprintf("%s   %s %s   %s\n",
		field("State:", ctl.State().String()),
		labelStyle.Render("Lock:"), lock,
		field("Indicator:", onOff(ctl.Indicator(), "on", "off"))))
	if m.lastKey != core.KeyNone {
		status.WriteString(field("Last key:", m.lastKey.String()))
		status.WriteString("   ")
	}
	status.WriteString(field("Scratch:", fmt.Sprintf("%d", ctl.Scratch())))

	snap := r.Engine.Snapshot()
	status.WriteString("\n")
	status.WriteString(fmt.Sprintf("%s   %s   %s   %s\n",
		field("ADC:", fmt.Sprintf("%d", r.ADC.Value())),
		field("Window:", fmt.Sprintf("%d/%d", snap.Filled, snap.Capacity)),
		field("Average:", fmt.Sprintf("%d (%s)", snap.Average, snap.Mode)),
		field("Exact:", fmt.Sprintf("%.1f", snap.ExactMean()))))
	status.WriteString(fmt.Sprintf("%s   %s",
		field("Ticks:", fmt.Sprintf("%d", snap.Ticks)),
		field("Overruns:", fmt.Sprintf("%d", snap.Overruns))))

	bus := r.Link.Stats()
	status.WriteString("\n")
	busLine := fmt.Sprintf("%s   %s   %s   %s",
		field("Sent:", fmt.Sprintf("%d", bus.Sent)),
		labelStyle.Render("Failed:")+" "+errorStyle.Render(fmt.Sprintf("%d", bus.Failed)),
		labelStyle.Render("Dropped:")+" "+errorStyle.Render(fmt.Sprintf("%d", bus.Dropped)),
		field("Pending:", fmt.Sprintf("%d", r.Link.Pending())))
	status.WriteString(busLine)
	if m.faulted {
		status.WriteString("   " + errorStyle.Render("DISPLAY FAULT"))
	}
	s.WriteString(boxStyle.Render(status.String()))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Recent events"))
	s.WriteString("\n")
	events := core.RecentEvents()
	if len(events) > 6 {
		events = events[len(events)-6:]
	}
	for _, e := range events {
		s.WriteString(headerStyle.Render(fmt.Sprintf("  %8d %-10s %d %d", e.Clock, core.EventName(e.Kind), e.Value1, e.Value2)))
		s.WriteString("\n")
	}
	for _, line := range m.debug.lines {
		s.WriteString(headerStyle.Render("  debug: " + line))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.help.View(m.keys))
	s.WriteString("\n")
	return s.String()
}
