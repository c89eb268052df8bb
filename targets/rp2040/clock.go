//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"lockstat/core"
)

// RP2040 timer peripheral, a free-running 1 MHz counter
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// GetHardwareTime reads the low 32 bits of the microsecond counter. The
// core clock runs at the same rate and wraps with it.
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime copies the hardware counter into the core clock
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}
