package sim

import (
	"strings"
	"sync"

	"lockstat/core"
)

// DisplayWidth is the character count of each display row
const DisplayWidth = 16

// Display models the two-row character display peripheral. Bytes are
// buffered until a newline, which clears the screen and writes the first
// 16 buffered bytes to row 0 and the next 16 to row 1. A message longer
// than the payload limit discards the buffer.
type Display struct {
	mu     sync.Mutex
	buf    []byte
	rows   [2]string
	frames int
	resets int
}

// NewDisplay returns a display showing its power-on banner
func NewDisplay() *Display {
	d := &Display{buf: make([]byte, 0, core.MaxTextPayload)}
	d.rows[0] = pad("Ready")
	d.rows[1] = pad("")
	return d
}

func (d *Display) Receive(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range data {
		if c == '\n' {
			d.commit()
			continue
		}
		if len(d.buf) == core.MaxTextPayload {
			d.buf = d.buf[:0]
			d.resets++
			continue
		}
		d.buf = append(d.buf, c)
	}
}

func (d *Display) commit() {
	row0, row1 := d.buf, []byte(nil)
	if len(row0) > DisplayWidth {
		row0, row1 = d.buf[:DisplayWidth], d.buf[DisplayWidth:]
	}
	d.rows[0] = pad(string(row0))
	d.rows[1] = pad(string(row1))
	d.buf = d.buf[:0]
	d.frames++
}

func pad(s string) string {
	if len(s) >= DisplayWidth {
		return s[:DisplayWidth]
	}
	return s + strings.Repeat(" ", DisplayWidth-len(s))
}

// Rows returns both rows, space padded to DisplayWidth
func (d *Display) Rows() [2]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rows
}

// Frames counts completed messages
func (d *Display) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// Resets counts messages discarded for length
func (d *Display) Resets() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resets
}
