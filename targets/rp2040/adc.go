//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"machine"

	"lockstat/core"
)

// tempChannel is the RP2040's internal temperature sensor input
const tempChannel core.ADCChannelID = 4

var errADCChannel = errors.New("adc: unsupported channel")

// RPADCDriver implements core.ADCDriver. Conversions are requested from
// the sample tick and completed by Poll in the main loop, which stands in
// for the end-of-conversion interrupt.
type RPADCDriver struct {
	channels [4]*machine.ADC
	handler  core.ADCCompleteFunc
	pending  bool
	channel  core.ADCChannelID
}

// NewRPADCDriver initializes the ADC block
func NewRPADCDriver() *RPADCDriver {
	machine.InitADC()
	return &RPADCDriver{}
}

// ConfigureChannel sets up the pin mux for an external input, or enables
// the internal temperature sensor for channel 4.
func (d *RPADCDriver) ConfigureChannel(ch core.ADCChannelID) error {
	if ch == tempChannel {
		rp.ADC.CS.SetBits(rp.ADC_CS_TS_EN)
		return nil
	}
	if int(ch) >= len(d.channels) {
		return errADCChannel
	}
	if d.channels[ch] != nil {
		return nil
	}

	pins := [4]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3}
	adc := &machine.ADC{Pin: pins[ch]}
	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}
	d.channels[ch] = adc
	return nil
}

func (d *RPADCDriver) SetCompleteHandler(fn core.ADCCompleteFunc) {
	d.handler = fn
}

// StartConversion latches a request. It is called from timer context and
// must not block.
func (d *RPADCDriver) StartConversion(ch core.ADCChannelID) error {
	if ch != tempChannel && (int(ch) >= len(d.channels) || d.channels[ch] == nil) {
		return errADCChannel
	}
	d.channel = ch
	d.pending = true
	return nil
}

// Poll performs a requested conversion and hands the 12-bit result to the
// completion handler
func (d *RPADCDriver) Poll() {
	if !d.pending {
		return
	}
	d.pending = false

	var code core.ADCValue
	if d.channel == tempChannel {
		code = rawInternalTemp()
	} else {
		// machine.ADC scales results to 16 bits
		code = core.ADCValue(d.channels[d.channel].Get() >> 4)
	}
	if d.handler != nil {
		d.handler(code)
	}
}

// rawInternalTemp runs one conversion on the temperature sensor input
func rawInternalTemp() core.ADCValue {
	rp.ADC.CS.ReplaceBits(
		uint32(tempChannel)<<rp.ADC_CS_AINSEL_Pos,
		rp.ADC_CS_AINSEL_Msk,
		0,
	)
	rp.ADC.CS.SetBits(rp.ADC_CS_START_ONCE)
	for !rp.ADC.CS.HasBits(rp.ADC_CS_READY) {
	}
	return core.ADCValue(rp.ADC.RESULT.Get() & core.ADCMax)
}
