package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"lockstat/core"
	"lockstat/host/monitor"
	"lockstat/host/serial"
)

var (
	monitorPort string
	monitorBaud int
	monitorFile string
	monitorRows bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Decode the bus tap stream from a running controller",
	Long: `Read the tap stream the firmware mirrors onto its USB serial port and
log every bus frame it carries. Frames are replayed onto a simulated display
and LED driver, so --rows can show what the real display is showing.

The port and baud rate default to the tap section of the config file.
--file replays a capture written by 'lockctl sim --tap' instead.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVarP(&monitorPort, "port", "p", "", "Serial port device (default from config)")
	monitorCmd.Flags().IntVarP(&monitorBaud, "baud", "b", 0, "Baud rate (default from config)")
	monitorCmd.Flags().StringVarP(&monitorFile, "file", "f", "", "Replay a tap capture instead of a serial port")
	monitorCmd.Flags().BoolVar(&monitorRows, "rows", false, "Print the display after every text frame")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var src io.ReadCloser
	var srcInfo string
	if monitorFile != "" {
		f, err := os.Open(monitorFile)
		if err != nil {
			return fmt.Errorf("open capture: %w", err)
		}
		src, srcInfo = f, monitorFile
	} else {
		portCfg := serial.DefaultConfig(cfg.Tap.Port)
		if cfg.Tap.Baud > 0 {
			portCfg.Baud = cfg.Tap.Baud
		}
		if monitorPort != "" {
			portCfg.Device = monitorPort
		}
		if monitorBaud > 0 {
			portCfg.Baud = monitorBaud
		}
		port, err := serial.Open(portCfg)
		if err != nil {
			return err
		}
		src, srcInfo = port, fmt.Sprintf("%s @ %d baud", portCfg.Device, portCfg.Baud)
	}
	defer src.Close()

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	mon := monitor.New(logger)
	out := cmd.OutOrStdout()
	mon.OnFrame(func(f core.BusFrame) {
		fmt.Fprintln(out, monitor.Describe(f))
		if monitorRows && f.Addr == core.DisplayAddr {
			rows := mon.Display.Rows()
			fmt.Fprintf(out, "  |%s|\n  |%s|\n", rows[0], rows[1])
		}
	})

	fmt.Fprintf(out, "lockctl - Bus Tap Monitor\n")
	fmt.Fprintf(out, "Source: %s\n", srcInfo)
	if monitorFile == "" {
		fmt.Fprintf(out, "Press Ctrl+C to exit\n")
	}
	fmt.Fprintln(out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = mon.Run(ctx, src)
	st := mon.Stats()
	logger.Printf("frames=%d displayed=%d rejected=%d crc_errors=%d resyncs=%d seq_gaps=%d",
		st.Frames, st.Displayed, st.Rejected, st.Tap.CRCErrors, st.Tap.Resyncs, st.Tap.SeqGaps)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
