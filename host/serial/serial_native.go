package serial

import (
	"errors"
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	rw  io.ReadWriteCloser
	cfg *Config
}

// Open opens a native serial port
func Open(cfg *Config) (*NativePort, error) {
	if cfg == nil {
		return nil, errors.New("serial: config cannot be nil")
	}
	if cfg.Device == "" {
		return nil, errors.New("serial: no device given")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return newNativePort(port, cfg), nil
}

func newNativePort(rw io.ReadWriteCloser, cfg *Config) *NativePort {
	return &NativePort{rw: rw, cfg: cfg}
}

// Read reads data from the serial port. With a read timeout configured, an
// idle line yields (0, nil) rather than the io.EOF tarm/serial reports.
func (p *NativePort) Read(b []byte) (int, error) {
	n, err := p.rw.Read(b)
	if n == 0 && errors.Is(err, io.EOF) && p.cfg.ReadTimeout > 0 {
		return 0, nil
	}
	return n, err
}

// Write writes data to the serial port
func (p *NativePort) Write(b []byte) (int, error) {
	return p.rw.Write(b)
}

// Close closes the serial port
func (p *NativePort) Close() error {
	if p.rw != nil {
		return p.rw.Close()
	}
	return nil
}

// Flush is a no-op; tarm/serial writes through
func (p *NativePort) Flush() error {
	return nil
}

// Device is the path the port was opened on
func (p *NativePort) Device() string {
	return p.cfg.Device
}
