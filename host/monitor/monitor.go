// Package monitor replays a controller's bus tap stream onto simulated
// peers, so the host shows what the real display and LED bar are showing.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"lockstat/core"
	"lockstat/protocol"
	"lockstat/sim"
)

// Stats counts what the monitor has seen
type Stats struct {
	Tap       protocol.TapStats
	Frames    uint32
	Rejected  uint32
	Displayed uint32
}

// Monitor decodes tap blocks and delivers each frame to a simulated bus
// with a display and a pattern driver attached.
type Monitor struct {
	Display *sim.Display
	Pattern *sim.PatternDriver

	bus     *sim.Bus
	dec     *protocol.TapDecoder
	logger  *log.Logger
	onFrame func(core.BusFrame)
	stats   Stats
}

// New creates a monitor. A nil logger discards log output.
func New(logger *log.Logger) *Monitor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Monitor{
		Display: sim.NewDisplay(),
		Pattern: sim.NewPatternDriver(),
		bus:     sim.NewBus(),
		dec:     protocol.NewTapDecoder(),
		logger:  logger,
	}
	m.bus.Attach(core.DisplayAddr, m.Display)
	m.bus.Attach(core.PatternAddr, m.Pattern)
	return m
}

// OnFrame registers a callback for every frame decoded from the stream
func (m *Monitor) OnFrame(fn func(core.BusFrame)) {
	m.onFrame = fn
}

// Feed consumes a chunk of the tap stream and returns the number of frames
// it completed
func (m *Monitor) Feed(chunk []byte) int {
	records := m.dec.Feed(chunk)
	for _, rec := range records {
		f := core.BusFrame{
			Kind: core.FrameKind(rec.Kind),
			Addr: core.I2CAddress(rec.Addr),
			Data: rec.Data,
		}
		m.stats.Frames++

		if f.Kind != core.FrameText && f.Kind != core.FrameOpcode {
			m.stats.Rejected++
			m.logger.Printf("tap: seq %d: unknown frame kind %d", rec.Seq, rec.Kind)
			continue
		}
		if err := m.bus.Write(f.Addr, f.Data); err != nil {
			m.stats.Rejected++
			m.logger.Printf("tap: seq %d: %v", rec.Seq, err)
			continue
		}
		if f.Addr == core.DisplayAddr {
			m.stats.Displayed++
		}
		if m.onFrame != nil {
			m.onFrame(f)
		}
	}
	return len(records)
}

// Run feeds everything read from r until r reports io.EOF or ctx is done.
// Reads that return no data are retried, so r should time out rather than
// block forever.
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			m.Feed(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("monitor read: %w", err)
		}
	}
}

// Stats returns a snapshot of the counters
func (m *Monitor) Stats() Stats {
	s := m.stats
	s.Tap = m.dec.Stats()
	return s
}

// Describe renders a frame as one log line
func Describe(f core.BusFrame) string {
	switch f.Kind {
	case core.FrameText:
		text := f.Data
		if n := len(text); n > 0 && text[n-1] == '\n' {
			text = text[:n-1]
		}
		return fmt.Sprintf("0x%02x text   %q", uint8(f.Addr), text)
	case core.FrameOpcode:
		if len(f.Data) != 1 {
			return fmt.Sprintf("0x%02x opcode % x", uint8(f.Addr), f.Data)
		}
		return fmt.Sprintf("0x%02x opcode %d (%s)", uint8(f.Addr), f.Data[0], opcodeName(f.Data[0]))
	default:
		return fmt.Sprintf("0x%02x %s % x", uint8(f.Addr), f.Kind, f.Data)
	}
}

func opcodeName(op byte) string {
	switch {
	case op < core.PatternCount:
		return "pattern " + core.PatternName(int(op))
	case op == core.OpPatternOff:
		return "pattern off"
	case op == core.OpPeriodDown:
		return "period down"
	case op == core.OpPeriodUp:
		return "period up"
	default:
		return "unknown"
	}
}
