//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// On regular Go the tick and conversion callbacks run on their own
// goroutines, so a mutex stands in for the interrupt mask. Critical
// sections must not nest.
var hostMask sync.Mutex

// disableInterrupts enters a critical section
func disableInterrupts() State {
	hostMask.Lock()
	return 0
}

// restoreInterrupts leaves a critical section
func restoreInterrupts(state State) {
	hostMask.Unlock()
}
