//go:build rp2040

package main

import (
	"machine"
	"time"

	"lockstat/config"
	"lockstat/core"
)

// loopPeriod paces the foreground loop and so the keypad scan rate
const loopPeriod = time.Millisecond

// watchdogTimeoutMS resets the board if the foreground loop stalls
const watchdogTimeoutMS = 1000

var loopPanics uint32

func main() {
	// Clear any watchdog state left over from before the reset
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitDebugUART()
	cfg := config.Default()
	core.SetDebugWriter(debugPrintln)
	core.SetDebugEnabled(cfg.Debug)

	gpioDriver := NewRPGPIODriver()
	core.SetGPIODriver(gpioDriver)

	adcDriver := NewRPADCDriver()
	core.SetADCDriver(adcDriver)

	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		Frequency: cfg.Bus.FrequencyHz,
		SDA:       machine.Pin(cfg.Bus.SDA),
		SCL:       machine.Pin(cfg.Bus.SCL),
	})
	if err != nil {
		halt("i2c configure failed: " + err.Error())
	}
	core.SetI2CDriver(core.NewDriversI2C(i2c))

	UpdateSystemTime()

	keypad := core.NewKeypad(core.MustGPIO(), cfg.KeypadPins())
	if err := keypad.Configure(); err != nil {
		halt("keypad configure failed: " + err.Error())
	}

	commands := core.NewCommandQueue()
	engine, err := core.NewSampleEngine(core.MustADC(), cfg.SampleConfig(), commands.Post)
	if err != nil {
		halt("sampler init failed: " + err.Error())
	}

	link := core.NewBusLink(core.MustI2C(), cfg.Bus.QueueBytes)
	if cfg.Tap.Enabled {
		link.SetTap(core.NewUARTTap(writeTap))
	}

	controller := core.NewController(cfg.ControllerConfig(), core.MustGPIO(), engine, link, commands)
	if err := controller.Init(); err != nil {
		halt("controller init failed: " + err.Error())
	}
	engine.Start()

	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: watchdogTimeoutMS}); err == nil {
		machine.Watchdog.Start()
	}
	debugPrintln("lockstat running")

	for {
		// A panic in one pass is logged and the loop carries on
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
					debugPrintln("main loop panic")
					core.DumpEvents()
				}
			}()

			UpdateSystemTime()
			core.ProcessTimers()
			adcDriver.Poll()
			controller.Iterate(keypad)
		}()

		machine.Watchdog.Update()
		time.Sleep(loopPeriod)
	}
}

// halt reports a start-up failure on the debug UART forever. The
// watchdog is not running yet, so the board stays put for inspection.
func halt(msg string) {
	for {
		debugPrintln(msg)
		time.Sleep(time.Second)
	}
}
