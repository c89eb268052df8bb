package core

import "tinygo.org/x/drivers"

// I2CAddress is a 7-bit I2C device address.
type I2CAddress uint8

// I2CDriver is the abstract I2C interface that core code uses. The
// controller is the only master and only ever writes.
type I2CDriver interface {
	// Write performs one complete transaction (start, address, data,
	// stop) to addr. It blocks until the stop condition completes or the
	// driver's own timeout expires.
	Write(addr I2CAddress, data []byte) error
}

var i2cDriver I2CDriver

// SetI2CDriver is called by target-specific code to register its driver.
func SetI2CDriver(d I2CDriver) {
	i2cDriver = d
}

// MustI2C returns the configured driver or panics if missing.
func MustI2C() I2CDriver {
	if i2cDriver == nil {
		panic("I2C driver not configured")
	}
	return i2cDriver
}

// DriversI2C adapts any tinygo.org/x/drivers bus (machine.I2C included)
// to I2CDriver.
type DriversI2C struct {
	bus drivers.I2C
}

// NewDriversI2C wraps bus
func NewDriversI2C(bus drivers.I2C) *DriversI2C {
	return &DriversI2C{bus: bus}
}

// Write transmits data with no read phase
func (d *DriversI2C) Write(addr I2CAddress, data []byte) error {
	return d.bus.Tx(uint16(addr&0x7F), data, nil)
}
