package sim

import (
	"fmt"
	"time"

	"lockstat/config"
	"lockstat/core"
)

// LoopPeriod is the simulated time one foreground pass takes
const LoopPeriod = time.Millisecond

// Rig is a complete controller on simulated hardware. The core clock and
// timer list are package-level, so only one Rig may run at a time.
type Rig struct {
	Config *config.Config

	Matrix  *Matrix
	ADC     *ADC
	Bus     *Bus
	Display *Display
	Pattern *PatternDriver

	Keypad     *core.Keypad
	Commands   *core.CommandQueue
	Engine     *core.SampleEngine
	Link       *core.BusLink
	Controller *core.Controller

	elapsed time.Duration
}

// NewRig wires a controller from cfg onto fresh simulated hardware. The
// ADC completes conversions immediately and reads mid-scale.
func NewRig(cfg *config.Config) (*Rig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rig config: %w", err)
	}
	core.ResetTimers()
	core.SetTime(0)
	core.ClearEvents()

	r := &Rig{
		Config:   cfg,
		Matrix:   NewMatrix(cfg.KeypadPins()),
		ADC:      NewADC(2048, true),
		Bus:      NewBus(),
		Display:  NewDisplay(),
		Pattern:  NewPatternDriver(),
		Commands: core.NewCommandQueue(),
	}
	r.Bus.Attach(core.DisplayAddr, r.Display)
	r.Bus.Attach(core.PatternAddr, r.Pattern)

	core.SetGPIODriver(r.Matrix)
	core.SetADCDriver(r.ADC)
	core.SetI2CDriver(r.Bus)

	r.Keypad = core.NewKeypad(core.MustGPIO(), cfg.KeypadPins())
	if err := r.Keypad.Configure(); err != nil {
		return nil, fmt.Errorf("keypad: %w", err)
	}

	engine, err := core.NewSampleEngine(core.MustADC(), cfg.SampleConfig(), r.Commands.Post)
	if err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}
	r.Engine = engine
	r.Link = core.NewBusLink(core.MustI2C(), cfg.Bus.QueueBytes)
	r.Controller = core.NewController(cfg.ControllerConfig(), core.MustGPIO(), r.Engine, r.Link, r.Commands)

	if err := r.Controller.Init(); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	r.Engine.Start()
	r.Controller.Service()
	return r, nil
}

// SetTap mirrors transmitted frames as tap blocks to write
func (r *Rig) SetTap(write func([]byte)) {
	r.Link.SetTap(core.NewUARTTap(write))
}

// Step runs one foreground pass of LoopPeriod
func (r *Rig) Step() {
	core.AdvanceTime(core.TimerFromMS(uint32(LoopPeriod / time.Millisecond)))
	core.ProcessTimers()
	r.Controller.Iterate(r.Keypad)
	r.Pattern.Advance(LoopPeriod)
	r.elapsed += LoopPeriod
}

// Run steps for at least d of simulated time
func (r *Rig) Run(d time.Duration) {
	for end := r.elapsed + d; r.elapsed < end; {
		r.Step()
	}
}

// Press holds k for one pass and releases it for one pass, producing
// exactly one key event
func (r *Rig) Press(k core.KeyEvent) {
	r.Matrix.Press(k)
	r.Step()
	r.Matrix.Release(k)
	r.Step()
}

// Type presses each key of seq in turn
func (r *Rig) Type(seq string) {
	for i := 0; i < len(seq); i++ {
		r.Press(core.KeyEvent(seq[i]))
	}
}

// Elapsed is the simulated time since NewRig
func (r *Rig) Elapsed() time.Duration {
	return r.elapsed
}

// Close stops the sample tick
func (r *Rig) Close() {
	r.Engine.Stop()
	core.ResetTimers()
}
