// Package sim provides host-side stand-ins for the controller's hardware:
// a key matrix behind the GPIO HAL, a split-phase ADC, and an I2C bus with
// behavioral models of the display and pattern-driver peripherals. Tests
// and the lockctl simulator run the unmodified core against them.
package sim
