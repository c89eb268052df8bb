package core

import "math"

// Unit selects the displayed temperature scale
type Unit uint8

const (
	Celsius Unit = iota
	Fahrenheit
)

// Letter is the unit marker shown after the reading
func (u Unit) Letter() byte {
	if u == Fahrenheit {
		return 'F'
	}
	return 'C'
}

func (u Unit) String() string {
	if u == Fahrenheit {
		return "fahrenheit"
	}
	return "celsius"
}

// Convert turns a raw code into a temperature in u
func (u Unit) Convert(code int) float64 {
	if u == Fahrenheit {
		return ADCToFahrenheit(code)
	}
	return ADCToCelsius(code)
}

// Sensor transfer function constants (LM19-style analog sensor on a 3.3 V,
// 12-bit converter).
const (
	sensorVRef    = 3.3
	sensorOffset  = -1481.96
	sensorSquare  = 2.1962e6
	sensorV0      = 1.8639
	sensorSlope   = 3.88e-6
	codeToVoltage = sensorVRef / ADCMax
)

// ADCToCelsius converts a raw code to degrees Celsius
func ADCToCelsius(code int) float64 {
	volts := float64(code) * codeToVoltage
	return sensorOffset + math.Sqrt(sensorSquare+(sensorV0-volts)/sensorSlope)
}

// ADCToFahrenheit converts a raw code to degrees Fahrenheit
func ADCToFahrenheit(code int) float64 {
	return 1.8*ADCToCelsius(code) + 32
}

// formatTenths renders v as two integer digits, a point and one
// fractional digit ("07.5", "22.4"). Negative values use one integer
// digit ("-3.2"). Out-of-range values clamp to "99.9" and "-9.9".
func formatTenths(v float64) [4]byte {
	var out [4]byte
	if math.IsNaN(v) {
		copy(out[:], "--.-")
		return out
	}

	tenths := int(math.Round(v * 10))
	if tenths > 999 {
		tenths = 999
	}
	if tenths < -99 {
		tenths = -99
	}

	if tenths < 0 {
		tenths = -tenths
		out[0] = '-'
		out[1] = byte('0' + tenths/10)
	} else {
		out[0] = byte('0' + tenths/100)
		out[1] = byte('0' + (tenths/10)%10)
	}
	out[2] = '.'
	out[3] = byte('0' + tenths%10)
	return out
}
