package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures one controller event for post-mortem analysis
type Event struct {
	Kind   uint8  // Event kind code
	Clock  uint32 // System clock at event
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event kind codes
const (
	EvtKey        = 1 // key accepted: v1=symbol
	EvtTransition = 2 // state change: v1=from, v2=to
	EvtTick       = 3 // sample tick: v1=newest code, v2=average
	EvtBusSent    = 4 // frame transmitted: v1=addr, v2=length
	EvtBusError   = 5 // transaction failed: v1=addr, v2=length
	EvtBusDrop    = 6 // frame rejected, queue full: v1=addr
	EvtOverrun    = 7 // tick found conversion still pending: v1=overrun count
	EvtWindow     = 8 // window capacity changed: v1=capacity
	EvtCmdDrop    = 9 // deferred command rejected, queue full
)

const EventRingSize = 32

var (
	// debugPrintln is the platform debug print function
	debugPrintln DebugWriter = func(s string) {}

	debugEnabled bool

	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message when debug output is enabled.
// Foreground context only: writers may block on the UART.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent stores an event in the ring. Safe from any context, but
// must not be called inside another critical section.
func RecordEvent(kind uint8, value1, value2 uint32) {
	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = Event{
		Kind:   kind,
		Clock:  GetTime(),
		Value1: value1,
		Value2: value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// RecentEvents returns the recorded events, oldest first
func RecentEvents() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	events := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Kind == 0 {
			continue
		}
		events = append(events, evt)
	}
	return events
}

// EventName returns a short tag for an event kind
func EventName(kind uint8) string {
	switch kind {
	case EvtKey:
		return "KEY"
	case EvtTransition:
		return "STATE"
	case EvtTick:
		return "TICK"
	case EvtBusSent:
		return "BUS_TX"
	case EvtBusError:
		return "BUS_ERR!"
	case EvtBusDrop:
		return "BUS_DROP!"
	case EvtOverrun:
		return "ADC_OVERRUN!"
	case EvtWindow:
		return "WINDOW"
	case EvtCmdDrop:
		return "CMD_DROP!"
	default:
		return "UNKNOWN"
	}
}

// DumpEvents writes the event ring through the debug writer
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range RecentEvents() {
		debugPrintln("[EVENTS] " + EventName(evt.Kind) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEvents empties the event ring
func ClearEvents() {
	state := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	restoreInterrupts(state)
}
