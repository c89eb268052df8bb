package sim

import (
	"errors"
	"sync"

	"lockstat/core"
)

// ErrConversionBusy is returned when a conversion is requested while one
// is still outstanding
var ErrConversionBusy = errors.New("sim: conversion in progress")

// ADC is a split-phase ADCDriver. In immediate mode a conversion completes
// inside StartConversion; otherwise it waits for Complete, which models the
// conversion-complete interrupt.
type ADC struct {
	mu        sync.Mutex
	handler   core.ADCCompleteFunc
	channels  map[core.ADCChannelID]bool
	value     core.ADCValue
	immediate bool
	pending   bool
	starts    int
}

// NewADC creates an ADC that reads code. immediate selects synchronous
// completion.
func NewADC(code core.ADCValue, immediate bool) *ADC {
	return &ADC{
		channels:  make(map[core.ADCChannelID]bool),
		value:     code,
		immediate: immediate,
	}
}

func (a *ADC) ConfigureChannel(ch core.ADCChannelID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.channels[ch] = true
	return nil
}

func (a *ADC) SetCompleteHandler(fn core.ADCCompleteFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = fn
}

func (a *ADC) StartConversion(ch core.ADCChannelID) error {
	a.mu.Lock()
	if !a.channels[ch] {
		a.mu.Unlock()
		return errors.New("sim: channel not configured")
	}
	if a.pending {
		a.mu.Unlock()
		return ErrConversionBusy
	}
	a.starts++
	a.pending = true
	immediate := a.immediate
	a.mu.Unlock()

	if immediate {
		a.Complete()
	}
	return nil
}

// Complete finishes the outstanding conversion, if any, and reports
// whether one was pending.
func (a *ADC) Complete() bool {
	a.mu.Lock()
	if !a.pending || a.handler == nil {
		a.mu.Unlock()
		return false
	}
	a.pending = false
	fn, v := a.handler, a.value
	a.mu.Unlock()

	fn(v)
	return true
}

// Set changes the code future conversions return, clamped to full scale
func (a *ADC) Set(code int) {
	if code < 0 {
		code = 0
	}
	if code > core.ADCMax {
		code = core.ADCMax
	}
	a.mu.Lock()
	a.value = core.ADCValue(code)
	a.mu.Unlock()
}

// Value returns the current code
func (a *ADC) Value() core.ADCValue {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// Pending reports an outstanding conversion
func (a *ADC) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Starts counts conversions requested
func (a *ADC) Starts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.starts
}

// SetImmediate switches between synchronous and deferred completion
func (a *ADC) SetImmediate(on bool) {
	a.mu.Lock()
	a.immediate = on
	a.mu.Unlock()
}
