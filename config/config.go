// Package config holds the controller wiring and tuning. The firmware
// builds from Default; host tools can load overrides from YAML.
package config

import (
	"fmt"

	"lockstat/core"
)

// Config represents the controller configuration.
type Config struct {
	Keypad      KeypadConfig `yaml:"keypad"`
	Outputs     OutputConfig `yaml:"outputs"`
	Sensor      SensorConfig `yaml:"sensor"`
	Bus         BusConfig    `yaml:"bus"`
	WindowEntry string       `yaml:"window_entry"` // literal or positional
	Tap         TapConfig    `yaml:"tap"`
	Debug       bool         `yaml:"debug"`
}

// KeypadConfig lists the matrix GPIO numbers. Rows are driven, columns
// are pulled-down inputs.
type KeypadConfig struct {
	Rows []uint32 `yaml:"rows"`
	Cols []uint32 `yaml:"cols"`
}

// OutputConfig contains the two digital outputs.
type OutputConfig struct {
	Indicator uint32 `yaml:"indicator"`
	Lock      uint32 `yaml:"lock"`
}

// SensorConfig contains the sampling parameters.
type SensorConfig struct {
	Channel  uint8  `yaml:"channel"`
	PeriodMS uint32 `yaml:"period_ms"`
	Window   int    `yaml:"window"`
	Average  string `yaml:"average"` // incremental or exact
	Unit     string `yaml:"unit"`    // celsius or fahrenheit
}

// BusConfig contains the I2C master settings.
type BusConfig struct {
	FrequencyHz uint32 `yaml:"frequency_hz"`
	SDA         uint32 `yaml:"sda"`
	SCL         uint32 `yaml:"scl"`
	QueueBytes  int    `yaml:"queue_bytes"`
}

// TapConfig controls mirroring of bus frames to the host.
type TapConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"` // host side serial device
	Baud    int    `yaml:"baud"`
}

// Default returns the wiring of the reference board.
func Default() *Config {
	return &Config{
		Keypad: KeypadConfig{
			Rows: []uint32{2, 3, 4, 5},
			Cols: []uint32{6, 7, 8, 9},
		},
		Outputs: OutputConfig{
			Indicator: 25,
			Lock:      15,
		},
		Sensor: SensorConfig{
			Channel:  0,
			PeriodMS: 500,
			Window:   core.DefaultWindow,
			Average:  "incremental",
			Unit:     "celsius",
		},
		Bus: BusConfig{
			FrequencyHz: 100000,
			SDA:         20,
			SCL:         21,
			QueueBytes:  core.DefaultBusQueue,
		},
		WindowEntry: "literal",
		Tap: TapConfig{
			Enabled: true,
			Port:    "/dev/ttyACM0",
			Baud:    115200,
		},
	}
}

// applyDefaults fills every zero field from Default.
func (c *Config) applyDefaults() {
	def := Default()

	if len(c.Keypad.Rows) == 0 {
		c.Keypad.Rows = def.Keypad.Rows
	}
	if len(c.Keypad.Cols) == 0 {
		c.Keypad.Cols = def.Keypad.Cols
	}
	if c.Sensor.PeriodMS == 0 {
		c.Sensor.PeriodMS = def.Sensor.PeriodMS
	}
	if c.Sensor.Window == 0 {
		c.Sensor.Window = def.Sensor.Window
	}
	if c.Sensor.Average == "" {
		c.Sensor.Average = def.Sensor.Average
	}
	if c.Sensor.Unit == "" {
		c.Sensor.Unit = def.Sensor.Unit
	}
	if c.Bus.FrequencyHz == 0 {
		c.Bus.FrequencyHz = def.Bus.FrequencyHz
	}
	if c.Bus.QueueBytes == 0 {
		c.Bus.QueueBytes = def.Bus.QueueBytes
	}
	if c.WindowEntry == "" {
		c.WindowEntry = def.WindowEntry
	}
	if c.Tap.Port == "" {
		c.Tap.Port = def.Tap.Port
	}
	if c.Tap.Baud == 0 {
		c.Tap.Baud = def.Tap.Baud
	}
}

// Validate checks configuration correctness. It does not mutate c.
func (c *Config) Validate() error {
	if len(c.Keypad.Rows) != 4 || len(c.Keypad.Cols) != 4 {
		return fmt.Errorf("keypad: need 4 rows and 4 columns, got %d and %d",
			len(c.Keypad.Rows), len(c.Keypad.Cols))
	}

	used := make(map[uint32]string)
	claim := func(pin uint32, name string) error {
		if prev, ok := used[pin]; ok {
			return fmt.Errorf("pin %d assigned to both %s and %s", pin, prev, name)
		}
		used[pin] = name
		return nil
	}
	for i, p := range c.Keypad.Rows {
		if err := claim(p, fmt.Sprintf("keypad row %d", i)); err != nil {
			return err
		}
	}
	for i, p := range c.Keypad.Cols {
		if err := claim(p, fmt.Sprintf("keypad column %d", i)); err != nil {
			return err
		}
	}
	if err := claim(c.Outputs.Indicator, "indicator"); err != nil {
		return err
	}
	if err := claim(c.Outputs.Lock, "lock"); err != nil {
		return err
	}

	if c.Sensor.Window < core.MinWindow || c.Sensor.Window > core.MaxWindow {
		return fmt.Errorf("sensor: window %d: %w", c.Sensor.Window, core.ErrWindowRange)
	}
	if c.Sensor.PeriodMS == 0 {
		return fmt.Errorf("sensor: period_ms must be positive")
	}
	if _, err := c.averageMode(); err != nil {
		return err
	}
	if _, err := c.unit(); err != nil {
		return err
	}
	if _, err := c.windowEntry(); err != nil {
		return err
	}
	if c.Bus.QueueBytes < core.MaxTextPayload+4 {
		return fmt.Errorf("bus: queue_bytes %d cannot hold one text frame", c.Bus.QueueBytes)
	}
	return nil
}

func (c *Config) averageMode() (core.AverageMode, error) {
	switch c.Sensor.Average {
	case "incremental":
		return core.AverageIncremental, nil
	case "exact":
		return core.AverageExact, nil
	}
	return 0, fmt.Errorf("sensor: unknown average mode %q", c.Sensor.Average)
}

func (c *Config) unit() (core.Unit, error) {
	switch c.Sensor.Unit {
	case "celsius", "C":
		return core.Celsius, nil
	case "fahrenheit", "F":
		return core.Fahrenheit, nil
	}
	return 0, fmt.Errorf("sensor: unknown unit %q", c.Sensor.Unit)
}

func (c *Config) windowEntry() (core.WindowEntry, error) {
	switch c.WindowEntry {
	case "literal":
		return core.EntryLiteral, nil
	case "positional":
		return core.EntryPositional, nil
	}
	return 0, fmt.Errorf("unknown window_entry %q", c.WindowEntry)
}

// KeypadPins converts the keypad wiring. Call Validate first.
func (c *Config) KeypadPins() core.KeypadPins {
	var pins core.KeypadPins
	for i := 0; i < 4; i++ {
		pins.Rows[i] = core.GPIOPin(c.Keypad.Rows[i])
		pins.Cols[i] = core.GPIOPin(c.Keypad.Cols[i])
	}
	return pins
}

// SampleConfig converts the sensor settings. Call Validate first.
func (c *Config) SampleConfig() core.SampleConfig {
	mode, _ := c.averageMode()
	unit, _ := c.unit()
	return core.SampleConfig{
		Channel: core.ADCChannelID(c.Sensor.Channel),
		Period:  core.TimerFromMS(c.Sensor.PeriodMS),
		Window:  c.Sensor.Window,
		Mode:    mode,
		Unit:    unit,
	}
}

// ControllerConfig converts the output and entry settings. Call Validate
// first.
func (c *Config) ControllerConfig() core.ControllerConfig {
	entry, _ := c.windowEntry()
	return core.ControllerConfig{
		IndicatorPin: core.GPIOPin(c.Outputs.Indicator),
		LockPin:      core.GPIOPin(c.Outputs.Lock),
		WindowEntry:  entry,
	}
}
