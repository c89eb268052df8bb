package core

import "sync/atomic"

// TimerFreq is the tick rate of the system clock (1 MHz microsecond timer).
const TimerFreq = 1000000

var systemTicks atomic.Uint32

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return systemTicks.Load()
}

// SetTime sets the current system time. Targets call it from the main
// loop with the hardware counter; simulations advance it directly.
func SetTime(ticks uint32) {
	systemTicks.Store(ticks)
}

// AdvanceTime moves the system clock forward by ticks
func AdvanceTime(ticks uint32) uint32 {
	return systemTicks.Add(ticks)
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return ms * (TimerFreq / 1000)
}

// TimerToMS converts timer ticks to milliseconds
func TimerToMS(ticks uint32) uint32 {
	return ticks / (TimerFreq / 1000)
}

// timeReached reports whether now is at or past wake, tolerating wrap of
// the 32-bit counter.
func timeReached(wake, now uint32) bool {
	return int32(now-wake) >= 0
}

// ProcessTimers runs every timer that is due at the current time
func ProcessTimers() {
	TimerDispatch(GetTime())
}
