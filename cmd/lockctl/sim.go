package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"lockstat/core"
	"lockstat/sim"
)

var (
	simTapPath string
	simKeys    string
	simFor     time.Duration
	simCode    int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the controller on simulated hardware",
	Long: `Run the full controller against a simulated keypad, ADC, display and
LED pattern driver.

Interactive mode opens a terminal UI: the keys 0-9, a-d, * and # press the
matching keypad key, + and - move the sensor reading, f toggles a display
fault and q quits.

With --keys the simulator runs headless: it types the sequence, runs for
--for of simulated time and prints the display.

--tap writes every transmitted bus frame as a tap stream, which
'lockctl monitor --file' can replay.`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&simTapPath, "tap", "", "Write the bus tap stream to this file")
	simCmd.Flags().StringVar(&simKeys, "keys", "", "Type this key sequence headless and exit")
	simCmd.Flags().DurationVar(&simFor, "for", 2*time.Second, "Simulated run time after --keys")
	simCmd.Flags().IntVar(&simCode, "code", 2048, "Initial 12-bit sensor reading")
	rootCmd.AddCommand(simCmd)
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rig, err := sim.NewRig(cfg)
	if err != nil {
		return err
	}
	defer rig.Close()
	rig.ADC.Set(simCode)

	if simTapPath != "" {
		f, err := os.Create(simTapPath)
		if err != nil {
			return fmt.Errorf("tap file: %w", err)
		}
		w := bufio.NewWriter(f)
		defer func() {
			w.Flush()
			f.Close()
		}()
		rig.SetTap(func(b []byte) { w.Write(b) })
	}

	if simKeys != "" {
		return runHeadless(cmd.OutOrStdout(), rig, simKeys, simFor, cfg.Debug)
	}

	m := newSimModel(rig, configPath)
	core.SetDebugEnabled(cfg.Debug)
	core.SetDebugWriter(m.debug.add)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

func runHeadless(out io.Writer, rig *sim.Rig, keys string, d time.Duration, debug bool) error {
	for i := 0; i < len(keys); i++ {
		k := core.KeyEvent(keys[i])
		if _, _, ok := core.KeyPosition(k); !ok {
			return fmt.Errorf("key %q is not on the keypad", keys[i])
		}
	}

	core.SetDebugEnabled(debug)
	core.SetDebugWriter(func(s string) { fmt.Fprintln(out, "debug:", s) })

	rig.Type(keys)
	rig.Run(d)

	rows := rig.Display.Rows()
	fmt.Fprintf(out, "+%s+\n", dashes(sim.DisplayWidth))
	fmt.Fprintf(out, "|%s|\n|%s|\n", rows[0], rows[1])
	fmt.Fprintf(out, "+%s+\n", dashes(sim.DisplayWidth))
	fmt.Fprintf(out, "state=%s lock=%s indicator=%s leds=%s\n",
		rig.Controller.State(), onOff(rig.Controller.Released(), "released", "held"),
		onOff(rig.Controller.Indicator(), "on", "off"), ledBar(rig.Pattern.Frame(), "#", "."))
	return nil
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

func onOff(v bool, on, off string) string {
	if v {
		return on
	}
	return off
}

// ledBar renders a pattern frame most significant bit first
func ledBar(frame uint8, lit, dark string) string {
	s := ""
	for bit := 7; bit >= 0; bit-- {
		if frame&(1<<bit) != 0 {
			s += lit
		} else {
			s += dark
		}
	}
	return s
}
