package sim

import (
	"sync"

	"lockstat/core"
)

// Matrix is a GPIODriver with a 4x4 key matrix wired to pins. A column
// reads high while a held key connects it to a row driven high. Pins
// outside the matrix behave as plain latches.
type Matrix struct {
	mu      sync.Mutex
	pins    core.KeypadPins
	levels  map[core.GPIOPin]bool
	outputs map[core.GPIOPin]bool
	held    map[core.KeyEvent]bool
}

// NewMatrix creates a matrix on pins with no key held
func NewMatrix(pins core.KeypadPins) *Matrix {
	return &Matrix{
		pins:    pins,
		levels:  make(map[core.GPIOPin]bool),
		outputs: make(map[core.GPIOPin]bool),
		held:    make(map[core.KeyEvent]bool),
	}
}

func (m *Matrix) ConfigureOutput(pin core.GPIOPin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs[pin] = true
	m.levels[pin] = false
	return nil
}

func (m *Matrix) ConfigureInputPullDown(pin core.GPIOPin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[pin] = false
	return nil
}

func (m *Matrix) SetPin(pin core.GPIOPin, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[pin] = value
	return nil
}

func (m *Matrix) GetPin(pin core.GPIOPin) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for c, col := range m.pins.Cols {
		if col != pin {
			continue
		}
		for r, row := range m.pins.Rows {
			if m.levels[row] && m.held[core.KeyAt(r, c)] {
				return true, nil
			}
		}
		return false, nil
	}
	return m.levels[pin], nil
}

// Press holds k down until Release
func (m *Matrix) Press(k core.KeyEvent) {
	m.mu.Lock()
	m.held[k] = true
	m.mu.Unlock()
}

// Release lets k go
func (m *Matrix) Release(k core.KeyEvent) {
	m.mu.Lock()
	delete(m.held, k)
	m.mu.Unlock()
}

// ReleaseAll lets every key go
func (m *Matrix) ReleaseAll() {
	m.mu.Lock()
	m.held = make(map[core.KeyEvent]bool)
	m.mu.Unlock()
}

// Level returns the last value driven on pin
func (m *Matrix) Level(pin core.GPIOPin) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[pin]
}

// IsOutput reports whether pin was configured as an output
func (m *Matrix) IsOutput(pin core.GPIOPin) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outputs[pin]
}
