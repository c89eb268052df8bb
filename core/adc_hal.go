package core

// ADCChannelID identifies a logical ADC channel.
type ADCChannelID uint8

// ADCValue is a raw 12-bit conversion result (0..ADCMax).
type ADCValue uint16

// ADCMax is the full-scale code of the 12-bit converter.
const ADCMax = 4095

// ADCCompleteFunc receives a finished conversion. Targets call it from
// their conversion-complete interrupt.
type ADCCompleteFunc func(ADCValue)

// ADCDriver is the abstract ADC interface that core code uses.
// Conversions are split-phase: StartConversion returns immediately and
// the result arrives later through the registered completion handler.
type ADCDriver interface {
	// ConfigureChannel prepares a channel for analog input.
	ConfigureChannel(ch ADCChannelID) error

	// SetCompleteHandler registers the conversion-complete callback.
	SetCompleteHandler(fn ADCCompleteFunc)

	// StartConversion requests one conversion on ch. A driver whose
	// hardware converts synchronously may call the handler before
	// returning.
	StartConversion(ch ADCChannelID) error
}

var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
