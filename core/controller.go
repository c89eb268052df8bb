package core

// WindowEntry selects how digits typed in window select combine
type WindowEntry uint8

const (
	// EntryLiteral adds each digit to the running value, so 5 then 3
	// gives 8. This is the shipped keypad behavior.
	EntryLiteral WindowEntry = iota
	// EntryPositional gives decimal weighting, so 5 then 3 gives 53
	EntryPositional
)

func (w WindowEntry) String() string {
	if w == EntryPositional {
		return "positional"
	}
	return "literal"
}

// scratchLimit caps the numeric entry so long digit runs cannot overflow
const scratchLimit = 9999

// ControllerConfig holds the output pins and entry behavior
type ControllerConfig struct {
	IndicatorPin GPIOPin // lit while a code is being entered or accepted
	LockPin      GPIOPin // high releases the lock
	WindowEntry  WindowEntry
}

// Controller is the lock and status state machine. Every method runs in
// the foreground loop; the sample tick only reaches it through the
// command queue.
type Controller struct {
	cfg    ControllerConfig
	gpio   GPIODriver
	engine *SampleEngine
	link   *BusLink
	cmds   *CommandQueue

	state     LockState
	scratch   int
	pattern   int
	indicator bool
	released  bool

	msg      *Message
	lastSent [MessagePayload]byte
	sentOnce bool
}

// NewController wires a controller to its collaborators. Init must be
// called before the first Handle.
func NewController(cfg ControllerConfig, gpio GPIODriver, engine *SampleEngine, link *BusLink, cmds *CommandQueue) *Controller {
	return &Controller{
		cfg:     cfg,
		gpio:    gpio,
		engine:  engine,
		link:    link,
		cmds:    cmds,
		state:   Locked,
		pattern: -1,
		msg:     NewMessage(),
	}
}

// Init configures the outputs, drives them low and queues the first
// status text.
func (c *Controller) Init() error {
	if err := c.gpio.ConfigureOutput(c.cfg.IndicatorPin); err != nil {
		return err
	}
	if err := c.gpio.ConfigureOutput(c.cfg.LockPin); err != nil {
		return err
	}
	c.setIndicator(false)
	c.setReleased(false)

	c.msg.Clear()
	c.msg.SetWindow(c.engine.Capacity())
	c.compose()
	c.sendStatus()
	return nil
}

// Handle applies one key. KeyNone is ignored.
func (c *Controller) Handle(k KeyEvent) {
	if k == KeyNone {
		return
	}
	RecordEvent(EvtKey, uint32(k), 0)

	prev := c.state
	next, eff := transition(prev, k)
	c.state = next
	c.apply(eff, k)

	if next != prev {
		RecordEvent(EvtTransition, uint32(prev), uint32(next))
	}
	c.compose()
	c.sendStatus()
}

func (c *Controller) apply(eff effect, k KeyEvent) {
	switch eff {
	case effArm:
		c.setIndicator(true)
	case effReset:
		c.setIndicator(false)
		c.setReleased(false)
	case effUnlock:
		c.setReleased(true)
	case effRelock:
		c.setIndicator(false)
		c.setReleased(false)
		c.scratch = 0
		c.pattern = -1
	case effEnterWindow:
		c.scratch = 0
	case effToggleUnit:
		c.engine.ToggleUnit()
		c.refreshTemperature()
	case effSelectPattern:
		c.pattern = k.Digit()
		c.link.SendOpcode(PatternAddr, byte(c.pattern))
	case effTimingDown:
		c.link.SendOpcode(PatternAddr, OpPeriodDown)
	case effTimingUp:
		c.link.SendOpcode(PatternAddr, OpPeriodUp)
	case effWindowDigit:
		c.addDigit(k.Digit())
	case effWindowCommit:
		c.commitWindow()
	}
}

func (c *Controller) addDigit(d int) {
	if c.cfg.WindowEntry == EntryPositional {
		c.scratch = c.scratch*10 + d
	} else {
		c.scratch += d
	}
	if c.scratch > scratchLimit {
		c.scratch = scratchLimit
	}
}

// commitWindow resizes the sample window. Anything outside the legal
// range, including an empty entry, falls back to the default.
func (c *Controller) commitWindow() {
	n := c.scratch
	if n < MinWindow || n > MaxWindow {
		n = DefaultWindow
	}
	c.scratch = 0

	// Readings already queued belong to the old window
	c.discardReadings()
	if err := c.engine.SetCapacity(n); err != nil {
		DebugPrintln("window: " + err.Error())
		return
	}
	c.msg.SetWindow(n)
	c.msg.ClearTemperature()
}

func (c *Controller) discardReadings() {
	for {
		if _, ok := c.cmds.Next(); !ok {
			return
		}
	}
}

func (c *Controller) refreshTemperature() {
	if r, ok := c.engine.Current(); ok {
		c.msg.SetTemperature(r.Text, r.Unit)
	} else {
		c.msg.ClearTemperature()
	}
}

// compose writes the label for the current state
func (c *Controller) compose() {
	switch c.state {
	case Locked:
		c.msg.SetLabel("LOCKED")
	case Digit1:
		c.msg.SetLabel("CODE *")
	case Digit2:
		c.msg.SetLabel("CODE **")
	case Digit3:
		c.msg.SetLabel("CODE ***")
	case Unlocked:
		c.msg.SetLabel("UNLOCKED")
	case PatternSelect:
		c.msg.SetLabel("PATTERN " + PatternName(c.pattern))
	case WindowSelect:
		if c.scratch == 0 {
			c.msg.SetLabel("WINDOW")
		} else {
			c.msg.SetLabel("WINDOW " + itoa(c.scratch))
		}
	}
}

// sendStatus queues the status text when it differs from the last text
// accepted by the link. A rejected frame is retried on the next service.
func (c *Controller) sendStatus() {
	payload := c.msg.Payload()
	if c.sentOnce && string(payload) == string(c.lastSent[:]) {
		return
	}
	if !c.link.SendText(DisplayAddr, payload) {
		return
	}
	copy(c.lastSent[:], payload)
	c.sentOnce = true
}

// Service is the foreground half of every iteration: deferred readings
// are folded into the status text, then queued frames are transmitted.
func (c *Controller) Service() {
	unit := c.engine.Unit()
	for {
		cmd, ok := c.cmds.Next()
		if !ok {
			break
		}
		switch cmd.Kind {
		case CmdTemperature:
			// A reading converted before a unit toggle is stale
			if cmd.Reading.Unit == unit {
				c.msg.SetTemperature(cmd.Reading.Text, cmd.Reading.Unit)
			}
		}
	}
	c.sendStatus()
	c.link.Pump()
}

// Iterate runs one foreground pass: poll, handle, service
func (c *Controller) Iterate(kp *Keypad) {
	if k := kp.Poll(); k != KeyNone {
		c.Handle(k)
	}
	c.Service()
}

func (c *Controller) setIndicator(on bool) {
	c.indicator = on
	c.gpio.SetPin(c.cfg.IndicatorPin, on)
}

func (c *Controller) setReleased(on bool) {
	c.released = on
	c.gpio.SetPin(c.cfg.LockPin, on)
}

// State returns the current lock state
func (c *Controller) State() LockState {
	return c.state
}

// Message returns the status text. Callers must not modify it.
func (c *Controller) Message() *Message {
	return c.msg
}

// Scratch returns the pending window entry
func (c *Controller) Scratch() int {
	return c.scratch
}

// Pattern returns the last selected pattern id, or -1
func (c *Controller) Pattern() int {
	return c.pattern
}

// Indicator reports the code-entry indicator output
func (c *Controller) Indicator() bool {
	return c.indicator
}

// Released reports the lock output
func (c *Controller) Released() bool {
	return c.released
}
