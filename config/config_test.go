package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lockstat/core"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []uint32{2, 3, 4, 5}, cfg.Keypad.Rows)
	assert.Equal(t, uint32(500), cfg.Sensor.PeriodMS)
	assert.Equal(t, core.DefaultWindow, cfg.Sensor.Window)
	assert.Equal(t, "literal", cfg.WindowEntry)

	sc := cfg.SampleConfig()
	assert.Equal(t, uint32(core.DefaultSamplePeriod), sc.Period)
	assert.Equal(t, core.AverageIncremental, sc.Mode)
	assert.Equal(t, core.Celsius, sc.Unit)

	cc := cfg.ControllerConfig()
	assert.Equal(t, core.GPIOPin(25), cc.IndicatorPin)
	assert.Equal(t, core.GPIOPin(15), cc.LockPin)
	assert.Equal(t, core.EntryLiteral, cc.WindowEntry)

	pins := cfg.KeypadPins()
	assert.Equal(t, core.GPIOPin(9), pins.Cols[3])
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockstat.yaml")
	content := `
sensor:
  window: 10
  average: exact
  unit: fahrenheit
window_entry: positional
outputs:
  indicator: 16
  lock: 17
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Sensor.Window)
	assert.Equal(t, uint32(500), cfg.Sensor.PeriodMS)
	assert.Equal(t, core.AverageExact, cfg.SampleConfig().Mode)
	assert.Equal(t, core.Fahrenheit, cfg.SampleConfig().Unit)
	assert.Equal(t, core.EntryPositional, cfg.ControllerConfig().WindowEntry)
	assert.Equal(t, core.GPIOPin(17), cfg.ControllerConfig().LockPin)
	assert.Equal(t, []uint32{6, 7, 8, 9}, cfg.Keypad.Cols)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sensor: [unclosed"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_RejectsOutOfRangeWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "window.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sensor:\n  window: 250\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, core.ErrWindowRange)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"short keypad", func(c *Config) { c.Keypad.Rows = c.Keypad.Rows[:3] }, "4 rows"},
		{"pin clash", func(c *Config) { c.Outputs.Lock = c.Keypad.Cols[0] }, "assigned to both"},
		{"bad average", func(c *Config) { c.Sensor.Average = "median" }, "average mode"},
		{"bad unit", func(c *Config) { c.Sensor.Unit = "kelvin" }, "unknown unit"},
		{"bad entry", func(c *Config) { c.WindowEntry = "hex" }, "window_entry"},
		{"tiny queue", func(c *Config) { c.Bus.QueueBytes = 8 }, "queue_bytes"},
		{"zero period", func(c *Config) { c.Sensor.PeriodMS = 0 }, "period_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Sensor.Window = 42
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
