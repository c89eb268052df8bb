package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestADCConversionAtMidScale(t *testing.T) {
	volts := 2048 * (3.3 / 4095)
	celsius := -1481.96 + math.Sqrt(2.1962e6+(1.8639-volts)/3.88e-6)

	assert.InDelta(t, celsius, ADCToCelsius(2048), 1e-3)
	assert.InDelta(t, 1.8*celsius+32, ADCToFahrenheit(2048), 1e-3)
	assert.InDelta(t, 18.448, ADCToCelsius(2048), 1e-3)
}

func TestADCConversionIsMonotonic(t *testing.T) {
	prev := ADCToCelsius(0)
	for code := 1; code <= ADCMax; code += 64 {
		c := ADCToCelsius(code)
		assert.Less(t, c, prev, "code %d", code)
		prev = c
	}
}

func TestUnitConvert(t *testing.T) {
	assert.Equal(t, ADCToCelsius(1000), Celsius.Convert(1000))
	assert.Equal(t, ADCToFahrenheit(1000), Fahrenheit.Convert(1000))
	assert.Equal(t, byte('C'), Celsius.Letter())
	assert.Equal(t, byte('F'), Fahrenheit.Letter())
	assert.Equal(t, "fahrenheit", Fahrenheit.String())
}

func TestFormatTenths(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{7.5, "07.5"},
		{22.44, "22.4"},
		{22.46, "22.5"},
		{0, "00.0"},
		{-3.2, "-3.2"},
		{99.94, "99.9"},
		{150, "99.9"},
		{-40, "-9.9"},
		{math.NaN(), "--.-"},
	}
	for _, tt := range tests {
		got := formatTenths(tt.in)
		assert.Equal(t, tt.want, string(got[:]), "%v", tt.in)
	}
}
