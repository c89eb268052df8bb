package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerRig struct {
	gpio   *mockGPIO
	adc    *mockADC
	i2c    *mockI2C
	cmds   *CommandQueue
	engine *SampleEngine
	link   *BusLink
	ctl    *Controller
}

func newControllerRig(t *testing.T, entry WindowEntry) *controllerRig {
	t.Helper()
	resetCore(t)

	r := &controllerRig{
		gpio: newMockGPIO(),
		adc:  &mockADC{auto: true, value: 2048},
		i2c:  newMockI2C(),
		cmds: NewCommandQueue(),
	}
	r.engine = newTestEngine(t, r.adc, SampleConfig{}, r.cmds)
	r.link = NewBusLink(r.i2c, 0)
	r.ctl = NewController(ControllerConfig{
		IndicatorPin: testIndicatorPin,
		LockPin:      testLockPin,
		WindowEntry:  entry,
	}, r.gpio, r.engine, r.link, r.cmds)

	require.NoError(t, r.ctl.Init())
	r.ctl.Service()
	return r
}

func (r *controllerRig) keys(seq string) {
	for i := 0; i < len(seq); i++ {
		r.ctl.Handle(KeyEvent(seq[i]))
		r.ctl.Service()
	}
}

// fill runs enough ticks to make the window valid
func (r *controllerRig) fill() {
	r.engine.startConversion()
	for i := 0; i < r.engine.Capacity(); i++ {
		r.engine.Tick()
	}
}

func (r *controllerRig) lastText() string {
	texts := r.i2c.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

// statusLine builds the expected display frame. temp includes the unit
// letter or is empty.
func statusLine(label, temp, window string) string {
	return fmt.Sprintf("%-16s  %-5s     %s \n", label, temp, window)
}

func TestControllerInitSendsLockedStatus(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)

	assert.Equal(t, Locked, r.ctl.State())
	assert.True(t, r.gpio.outputs[testIndicatorPin])
	assert.True(t, r.gpio.outputs[testLockPin])
	assert.False(t, r.gpio.levels[testIndicatorPin])
	assert.False(t, r.gpio.levels[testLockPin])
	assert.Equal(t, []string{statusLine("LOCKED", "", "003")}, r.i2c.texts())
}

func TestControllerUnlockSequence(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)

	r.keys("1")
	assert.Equal(t, Digit1, r.ctl.State())
	assert.True(t, r.ctl.Indicator())
	assert.False(t, r.ctl.Released())

	r.keys("11")
	assert.Equal(t, Digit3, r.ctl.State())
	assert.False(t, r.gpio.levels[testLockPin])

	r.keys("1")
	assert.Equal(t, Unlocked, r.ctl.State())
	assert.True(t, r.ctl.Released())
	assert.True(t, r.gpio.levels[testLockPin])

	assert.Equal(t, []string{
		statusLine("LOCKED", "", "003"),
		statusLine("CODE *", "", "003"),
		statusLine("CODE **", "", "003"),
		statusLine("CODE ***", "", "003"),
		statusLine("UNLOCKED", "", "003"),
	}, r.i2c.texts())
}

func TestControllerWrongDigitRelocks(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)

	r.keys("112")
	assert.Equal(t, Locked, r.ctl.State())
	assert.False(t, r.ctl.Indicator())
	assert.False(t, r.gpio.levels[testIndicatorPin])
	assert.False(t, r.ctl.Released())
	assert.Equal(t, statusLine("LOCKED", "", "003"), r.lastText())
}

func TestControllerUnchangedStatusIsNotResent(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)
	r.keys("2345")
	assert.Len(t, r.i2c.texts(), 1)
}

func TestControllerWindowCommitFormatsToken(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)

	r.keys("1111B7")
	assert.Equal(t, WindowSelect, r.ctl.State())
	assert.Equal(t, statusLine("WINDOW 7", "", "003"), r.lastText())

	r.keys("*")
	assert.Equal(t, Unlocked, r.ctl.State())
	assert.Equal(t, 7, r.engine.Capacity())
	assert.Equal(t, "007", r.ctl.Message().WindowToken())
	assert.Equal(t, "007", r.lastText()[28:31])
}

func TestControllerLiteralEntrySumsDigits(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)

	r.keys("1111B53")
	assert.Equal(t, 8, r.ctl.Scratch())

	r.keys("*")
	assert.Equal(t, 8, r.engine.Capacity())
	assert.Equal(t, "008", r.ctl.Message().WindowToken())
	assert.Equal(t, 0, r.ctl.Scratch())
}

func TestControllerPositionalEntry(t *testing.T) {
	r := newControllerRig(t, EntryPositional)

	r.keys("1111B53")
	assert.Equal(t, 53, r.ctl.Scratch())

	r.keys("*")
	assert.Equal(t, 53, r.engine.Capacity())
	assert.Equal(t, "053", r.ctl.Message().WindowToken())
}

func TestControllerInvalidWindowFallsBackToDefault(t *testing.T) {
	tests := []struct {
		entry WindowEntry
		keys  string
	}{
		{EntryLiteral, "1111B*"},
		{EntryLiteral, "1111B0*"},
		{EntryPositional, "1111B101*"},
		{EntryPositional, "1111B99999999*"},
	}

	for _, tt := range tests {
		r := newControllerRig(t, tt.entry)
		r.keys("1111B5*")
		require.Equal(t, 5, r.engine.Capacity())

		r.keys(tt.keys[4:])
		assert.Equal(t, DefaultWindow, r.engine.Capacity(), "%s %q", tt.entry, tt.keys)
		assert.Equal(t, "003", r.ctl.Message().WindowToken())
	}
}

func TestControllerWindowEntryIgnoresLetters(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)
	r.keys("1111B4A#C")
	assert.Equal(t, WindowSelect, r.ctl.State())
	assert.Equal(t, 4, r.ctl.Scratch())
}

func TestControllerPatternSelection(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)

	r.keys("1111A")
	assert.Equal(t, PatternSelect, r.ctl.State())
	assert.Equal(t, statusLine("PATTERN OFF", "", "003"), r.lastText())

	r.keys("3")
	assert.Equal(t, 3, r.ctl.Pattern())
	assert.Equal(t, statusLine("PATTERN IN-OUT", "", "003"), r.lastText())

	r.keys("AB8C")
	assert.Equal(t, []byte{3, OpPeriodDown, OpPeriodUp}, r.i2c.opcodes())

	r.keys("*")
	assert.Equal(t, Unlocked, r.ctl.State())
	assert.Equal(t, statusLine("UNLOCKED", "", "003"), r.lastText())
}

func TestControllerLockFromPatternSelect(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)

	r.keys("1111A5D")
	assert.Equal(t, Locked, r.ctl.State())
	assert.False(t, r.ctl.Released())
	assert.False(t, r.ctl.Indicator())
	assert.Equal(t, -1, r.ctl.Pattern())
	assert.Equal(t, statusLine("LOCKED", "", "003"), r.lastText())
}

func TestControllerTemperatureUpdates(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)
	r.engine.SetMode(AverageExact)

	r.fill()
	r.ctl.Service()

	assert.Equal(t, statusLine("LOCKED", "18.4C", "003"), r.lastText())
}

func TestControllerToggleUnitRefreshesReading(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)
	r.engine.SetMode(AverageExact)
	r.keys("1111")
	r.fill()

	// The queued Celsius reading is stale once the unit flips
	r.ctl.Handle('C')
	r.ctl.Service()

	assert.Equal(t, Fahrenheit, r.engine.Unit())
	assert.Equal(t, statusLine("UNLOCKED", "65.2F", "003"), r.lastText())

	r.keys("C")
	assert.Equal(t, statusLine("UNLOCKED", "18.4C", "003"), r.lastText())
}

func TestControllerWindowCommitClearsReading(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)
	r.keys("1111")
	r.fill()
	r.ctl.Service()
	require.NotEqual(t, "    ", r.ctl.Message().Temperature())

	r.keys("B4*")
	assert.Equal(t, "    ", r.ctl.Message().Temperature())
	assert.Equal(t, statusLine("UNLOCKED", "", "004"), r.lastText())

	snap := r.engine.Snapshot()
	assert.Equal(t, 0, snap.Filled)
}

func TestControllerSurvivesBusFailure(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)
	r.i2c.fail[DisplayAddr] = errors.New("nack")

	r.keys("1111")
	assert.Equal(t, Unlocked, r.ctl.State())
	assert.Equal(t, uint32(4), r.link.Stats().Failed)
	assert.True(t, hasEvent(EvtBusError))

	delete(r.i2c.fail, DisplayAddr)
	r.keys("D")
	assert.Equal(t, statusLine("LOCKED", "", "003"), r.lastText())
}

func TestControllerIterateWithKeypad(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)
	kp := NewKeypad(r.gpio, testKeypadPins)
	require.NoError(t, kp.Configure())

	for i := 0; i < 4; i++ {
		r.gpio.press('1')
		r.ctl.Iterate(kp)
		r.ctl.Iterate(kp) // still held, no event
		r.gpio.releaseAll()
		r.ctl.Iterate(kp)
	}
	assert.Equal(t, Unlocked, r.ctl.State())
	assert.True(t, r.gpio.levels[testLockPin])
}

func TestControllerRecordsTransitions(t *testing.T) {
	r := newControllerRig(t, EntryLiteral)
	r.keys("1")

	var found bool
	for _, evt := range RecentEvents() {
		if evt.Kind == EvtTransition {
			assert.Equal(t, uint32(Locked), evt.Value1)
			assert.Equal(t, uint32(Digit1), evt.Value2)
			found = true
		}
	}
	assert.True(t, found)
}
