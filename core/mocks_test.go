package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test pin map: rows 0-3, columns 4-7, outputs above
var testKeypadPins = KeypadPins{
	Rows: [4]GPIOPin{0, 1, 2, 3},
	Cols: [4]GPIOPin{4, 5, 6, 7},
}

const (
	testIndicatorPin GPIOPin = 20
	testLockPin      GPIOPin = 21
)

// mockGPIO keeps pin levels and models a key matrix: a column reads high
// when a held key connects it to a row that is driven high.
type mockGPIO struct {
	levels  map[GPIOPin]bool
	outputs map[GPIOPin]bool
	held    map[KeyEvent]bool
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{
		levels:  make(map[GPIOPin]bool),
		outputs: make(map[GPIOPin]bool),
		held:    make(map[KeyEvent]bool),
	}
}

func (m *mockGPIO) ConfigureOutput(pin GPIOPin) error {
	m.outputs[pin] = true
	m.levels[pin] = false
	return nil
}

func (m *mockGPIO) ConfigureInputPullDown(pin GPIOPin) error {
	m.levels[pin] = false
	return nil
}

func (m *mockGPIO) SetPin(pin GPIOPin, value bool) error {
	m.levels[pin] = value
	return nil
}

func (m *mockGPIO) GetPin(pin GPIOPin) (bool, error) {
	for c, col := range testKeypadPins.Cols {
		if col != pin {
			continue
		}
		for r, row := range testKeypadPins.Rows {
			if m.levels[row] && m.held[KeyAt(r, c)] {
				return true, nil
			}
		}
		return false, nil
	}
	return m.levels[pin], nil
}

func (m *mockGPIO) press(keys ...KeyEvent) {
	for _, k := range keys {
		m.held[k] = true
	}
}

func (m *mockGPIO) releaseAll() {
	m.held = make(map[KeyEvent]bool)
}

// mockADC completes conversions on demand, or immediately when auto is set
type mockADC struct {
	handler    ADCCompleteFunc
	configured []ADCChannelID
	starts     int
	auto       bool
	value      ADCValue
	startErr   error
}

func (m *mockADC) ConfigureChannel(ch ADCChannelID) error {
	m.configured = append(m.configured, ch)
	return nil
}

func (m *mockADC) SetCompleteHandler(fn ADCCompleteFunc) {
	m.handler = fn
}

func (m *mockADC) StartConversion(ch ADCChannelID) error {
	m.starts++
	if m.startErr != nil {
		return m.startErr
	}
	if m.auto {
		m.handler(m.value)
	}
	return nil
}

func (m *mockADC) complete(v ADCValue) {
	m.handler(v)
}

type i2cWrite struct {
	addr I2CAddress
	data []byte
}

// mockI2C records every transaction; addresses in fail return that error
type mockI2C struct {
	writes []i2cWrite
	fail   map[I2CAddress]error
}

func newMockI2C() *mockI2C {
	return &mockI2C{fail: make(map[I2CAddress]error)}
}

func (m *mockI2C) Write(addr I2CAddress, data []byte) error {
	if err := m.fail[addr]; err != nil {
		return err
	}
	m.writes = append(m.writes, i2cWrite{addr: addr, data: append([]byte(nil), data...)})
	return nil
}

func (m *mockI2C) texts() []string {
	var out []string
	for _, w := range m.writes {
		if w.addr == DisplayAddr {
			out = append(out, string(w.data))
		}
	}
	return out
}

func (m *mockI2C) opcodes() []byte {
	var out []byte
	for _, w := range m.writes {
		if w.addr == PatternAddr {
			out = append(out, w.data...)
		}
	}
	return out
}

// resetCore clears the package-level clock, timers and event ring
func resetCore(t *testing.T) {
	t.Helper()
	SetTime(0)
	ResetTimers()
	ClearEvents()
	t.Cleanup(func() {
		ResetTimers()
		ClearEvents()
	})
}

func hasEvent(kind uint8) bool {
	for _, evt := range RecentEvents() {
		if evt.Kind == kind {
			return true
		}
	}
	return false
}

func newTestEngine(t *testing.T, adc ADCDriver, cfg SampleConfig, q *CommandQueue) *SampleEngine {
	t.Helper()
	var post func(Command) bool
	if q != nil {
		post = q.Post
	}
	e, err := NewSampleEngine(adc, cfg, post)
	require.NoError(t, err)
	return e
}
