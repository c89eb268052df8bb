package sim

import (
	"sync"
	"time"

	"lockstat/core"
)

// Base period limits of the pattern driver, in its timer ticks
const (
	PeriodMin     = 32
	PeriodMax     = 608
	PeriodStep    = 32
	PeriodDefault = 128

	// patternClock is the driver's timer rate (32768 Hz / 64)
	patternClock = 512
)

type animation struct {
	steps      []uint8
	multiplier int
}

// blank is shown for off and for ids without an animation table
var blank = animation{steps: []uint8{0x00, 0x00}, multiplier: 4}

var animations = [core.PatternCount]animation{
	0: {steps: []uint8{0xAA, 0xAA}, multiplier: 4},
	1: {steps: []uint8{0xAA, 0x55}, multiplier: 4},
	2: blank,
	3: {steps: []uint8{0x18, 0x24, 0x42, 0x81, 0x42, 0x24}, multiplier: 2},
	4: blank,
	5: {steps: []uint8{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80}, multiplier: 6},
	6: {steps: []uint8{0x7F, 0xBF, 0xDF, 0xEF, 0xF7, 0xFB, 0xFD, 0xFE}, multiplier: 2},
	7: {steps: []uint8{0x01, 0x03, 0x07, 0x0F, 0x1F, 0x3F, 0x7F, 0xFF}, multiplier: 4},
}

// PatternDriver models the LED bar peripheral. Each pattern keeps its own
// cursor across switches; selecting the running pattern again restarts it.
type PatternDriver struct {
	mu       sync.Mutex
	current  animation
	selected int // last pattern id, or -1 while off
	prev     int // pattern whose cursor is live
	cursor   int
	saved    [core.PatternCount]int
	period   int
	elapsed  time.Duration
	opcodes  int
}

// NewPatternDriver returns a driver that powers up dark
func NewPatternDriver() *PatternDriver {
	return &PatternDriver{
		current:  blank,
		selected: -1,
		period:   PeriodDefault,
	}
}

func (p *PatternDriver) Receive(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, op := range data {
		p.apply(op)
	}
}

func (p *PatternDriver) apply(op byte) {
	p.opcodes++
	switch {
	case op < core.PatternCount:
		id := int(op)
		p.saved[p.prev] = p.cursor
		if id != p.prev {
			p.cursor = p.saved[id]
		} else {
			p.cursor = 0
		}
		p.prev = id
		p.selected = id
		p.current = animations[id]
	case op == core.OpPeriodDown:
		if p.period > PeriodMin {
			p.period -= PeriodStep
		}
	case op == core.OpPeriodUp:
		if p.period < PeriodMax {
			p.period += PeriodStep
		}
	default:
		p.selected = -1
		p.current = blank
	}
	p.cursor %= len(p.current.steps)
}

// Step shows the frame under the cursor and advances it
func (p *PatternDriver) Step() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stepLocked()
}

func (p *PatternDriver) stepLocked() uint8 {
	frame := p.current.steps[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.current.steps)
	return frame
}

// Advance runs the animation clock forward by d and returns the frame
// shown last, along with the number of steps taken.
func (p *PatternDriver) Advance(d time.Duration) (uint8, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	interval := p.intervalLocked()
	p.elapsed += d
	steps := 0
	frame := p.current.steps[(p.cursor+len(p.current.steps)-1)%len(p.current.steps)]
	for p.elapsed >= interval {
		p.elapsed -= interval
		frame = p.stepLocked()
		steps++
	}
	return frame, steps
}

func (p *PatternDriver) intervalLocked() time.Duration {
	return time.Duration(p.period*p.current.multiplier) * time.Second / patternClock
}

// Interval is the time between animation steps
func (p *PatternDriver) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intervalLocked()
}

// Pattern returns the selected pattern id, or -1 while off
func (p *PatternDriver) Pattern() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Cursor returns the step the next Step will show
func (p *PatternDriver) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Period returns the base period in driver ticks
func (p *PatternDriver) Period() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.period
}

// Opcodes counts bytes received
func (p *PatternDriver) Opcodes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opcodes
}

// Frame returns the LED frame currently shown
func (p *PatternDriver) Frame() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.current.steps)
	return p.current.steps[(p.cursor+n-1)%n]
}
