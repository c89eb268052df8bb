package serial

import (
	"io"
	"time"
)

// Port is a byte stream to the controller's tap UART. Native serial and
// test fakes both satisfy it.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate; USB CDC ignores it
	Baud int

	// ReadTimeout bounds each Read. Zero blocks until data arrives.
	ReadTimeout time.Duration
}

// DefaultConfig returns the configuration the firmware's tap UART uses
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}
