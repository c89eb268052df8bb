package core

import "errors"

// Window limits
const (
	MinWindow     = 1
	MaxWindow     = 100
	DefaultWindow = 3
)

// DefaultSamplePeriod is the tick cadence in timer ticks (500 ms)
const DefaultSamplePeriod = TimerFreq / 2

// ErrWindowRange is returned for a capacity outside MinWindow..MaxWindow
var ErrWindowRange = errors.New("window capacity out of range")

// AverageMode selects which average feeds the display
type AverageMode uint8

const (
	// AverageIncremental is avg += (newest-popped)/capacity with integer
	// division. Truncation accumulates, so it drifts from the true mean.
	AverageIncremental AverageMode = iota
	// AverageExact is the window sum divided by capacity
	AverageExact
)

func (m AverageMode) String() string {
	if m == AverageExact {
		return "exact"
	}
	return "incremental"
}

// Reading is a converted temperature ready for display
type Reading struct {
	Code  int     // Average code the reading was converted from
	Value float64 // Temperature in Unit
	Unit  Unit
	Text  [4]byte // Formatted to one decimal place
}

// WindowSnapshot is a consistent copy of the sampling state
type WindowSnapshot struct {
	Capacity int
	Filled   int
	Average  int // Incremental average
	Sum      int // Exact window sum
	Ticks    uint32
	Overruns uint32
	Latest   ADCValue
	Pending  bool
	Slots    []ADCValue // Newest first
	Mode     AverageMode
	Unit     Unit
}

// Valid reports whether the window is full
func (w WindowSnapshot) Valid() bool {
	return w.Filled == w.Capacity
}

// ExactMean is the true mean of the window slots
func (w WindowSnapshot) ExactMean() float64 {
	return float64(w.Sum) / float64(w.Capacity)
}

// SampleEngine owns the rolling window. Tick runs in timer context,
// ConversionComplete in ADC interrupt context, everything else in the
// foreground. Every access to shared fields goes through a short critical
// section.
type SampleEngine struct {
	adc     ADCDriver
	channel ADCChannelID
	period  uint32
	post    func(Command) bool
	timer   Timer

	// window, ring ordered: head is the oldest slot
	slots    [MaxWindow]ADCValue
	head     int
	capacity int
	filled   int
	average  int
	sum      int
	ticks    uint32

	mode AverageMode
	unit Unit

	// single-slot exchange with the conversion interrupt
	latest   ADCValue
	pending  bool
	overruns uint32
}

// SampleConfig configures a SampleEngine
type SampleConfig struct {
	Channel ADCChannelID
	Period  uint32 // timer ticks between samples
	Window  int
	Mode    AverageMode
	Unit    Unit
}

// NewSampleEngine creates an engine and registers it as the ADC's
// completion handler. post receives temperature readings for the
// foreground; it may be nil.
func NewSampleEngine(adc ADCDriver, cfg SampleConfig, post func(Command) bool) (*SampleEngine, error) {
	if cfg.Window == 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Window < MinWindow || cfg.Window > MaxWindow {
		return nil, ErrWindowRange
	}
	if cfg.Period == 0 {
		cfg.Period = DefaultSamplePeriod
	}

	e := &SampleEngine{
		adc:      adc,
		channel:  cfg.Channel,
		period:   cfg.Period,
		post:     post,
		capacity: cfg.Window,
		mode:     cfg.Mode,
		unit:     cfg.Unit,
	}
	if err := adc.ConfigureChannel(cfg.Channel); err != nil {
		return nil, err
	}
	adc.SetCompleteHandler(e.ConversionComplete)
	return e, nil
}

// Start requests the first conversion and schedules the periodic tick
func (e *SampleEngine) Start() {
	e.startConversion()

	e.timer.Handler = e.onTimer
	e.timer.WakeTime = GetTime() + e.period
	ScheduleTimer(&e.timer)
}

// Stop cancels the periodic tick
func (e *SampleEngine) Stop() {
	CancelTimer(&e.timer)
}

func (e *SampleEngine) onTimer(t *Timer) uint8 {
	e.Tick()
	t.WakeTime += e.period
	return SF_RESCHEDULE
}

// ConversionComplete latches a finished conversion for the next tick
func (e *SampleEngine) ConversionComplete(code ADCValue) {
	state := disableInterrupts()
	e.latest = code
	e.pending = false
	restoreInterrupts(state)
}

// Tick rotates the window: the oldest slot is popped and overwritten with
// the latest conversion, the averages are updated in O(1), and once the
// window is full a reading is posted for the foreground. The next
// conversion is always requested before returning, unless the previous
// one has not completed yet.
func (e *SampleEngine) Tick() {
	state := disableInterrupts()

	overrun := e.pending
	if overrun {
		e.overruns++
	}

	newest := int(e.latest)
	popped := int(e.slots[e.head])
	e.slots[e.head] = e.latest
	e.head = (e.head + 1) % e.capacity

	e.average += (newest - popped) / e.capacity
	e.sum += newest - popped

	if e.filled < e.capacity {
		e.filled++
	}
	e.ticks++

	ready := e.filled == e.capacity
	var reading Reading
	if ready {
		reading = e.readingLocked()
	}
	average := e.average
	overruns := e.overruns
	restoreInterrupts(state)

	RecordEvent(EvtTick, uint32(newest), uint32(average))
	if overrun {
		RecordEvent(EvtOverrun, overruns, 0)
	}
	if ready && e.post != nil {
		e.post(Command{Kind: CmdTemperature, Reading: reading})
	}
	if !overrun {
		e.startConversion()
	}
}

func (e *SampleEngine) startConversion() {
	state := disableInterrupts()
	e.pending = true
	restoreInterrupts(state)

	if err := e.adc.StartConversion(e.channel); err != nil {
		state = disableInterrupts()
		e.pending = false
		restoreInterrupts(state)
	}
}

// activeCodeLocked returns the average selected by mode
func (e *SampleEngine) activeCodeLocked() int {
	if e.mode == AverageExact {
		return e.sum / e.capacity
	}
	return e.average
}

func (e *SampleEngine) readingLocked() Reading {
	code := e.activeCodeLocked()
	value := e.unit.Convert(code)
	return Reading{
		Code:  code,
		Value: value,
		Unit:  e.unit,
		Text:  formatTenths(value),
	}
}

// Current returns the reading for the present window, and false while the
// window is still filling
func (e *SampleEngine) Current() (Reading, bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if e.filled < e.capacity {
		return Reading{}, false
	}
	return e.readingLocked(), true
}

// SetCapacity resizes the window. Slots, averages and the fill counter
// all reset to zero.
func (e *SampleEngine) SetCapacity(n int) error {
	if n < MinWindow || n > MaxWindow {
		return ErrWindowRange
	}

	state := disableInterrupts()
	e.capacity = n
	e.resetLocked()
	restoreInterrupts(state)

	RecordEvent(EvtWindow, uint32(n), 0)
	return nil
}

func (e *SampleEngine) resetLocked() {
	for i := range e.slots {
		e.slots[i] = 0
	}
	e.head = 0
	e.filled = 0
	e.average = 0
	e.sum = 0
	e.ticks = 0
}

// Capacity returns the window capacity
func (e *SampleEngine) Capacity() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return e.capacity
}

// ToggleUnit flips between Celsius and Fahrenheit and returns the new unit
func (e *SampleEngine) ToggleUnit() Unit {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if e.unit == Celsius {
		e.unit = Fahrenheit
	} else {
		e.unit = Celsius
	}
	return e.unit
}

// Unit returns the active unit
func (e *SampleEngine) Unit() Unit {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return e.unit
}

// SetMode selects which average feeds readings
func (e *SampleEngine) SetMode(m AverageMode) {
	state := disableInterrupts()
	e.mode = m
	restoreInterrupts(state)
}

// Snapshot copies the sampling state
func (e *SampleEngine) Snapshot() WindowSnapshot {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	slots := make([]ADCValue, e.capacity)
	for i := 0; i < e.capacity; i++ {
		// newest is just behind head
		slots[i] = e.slots[(e.head-1-i+2*e.capacity)%e.capacity]
	}
	return WindowSnapshot{
		Capacity: e.capacity,
		Filled:   e.filled,
		Average:  e.average,
		Sum:      e.sum,
		Ticks:    e.ticks,
		Overruns: e.overruns,
		Latest:   e.latest,
		Pending:  e.pending,
		Slots:    slots,
		Mode:     e.mode,
		Unit:     e.unit,
	}
}
