//go:build rp2040

package main

import "machine"

var debugUART *machine.UART

// InitDebugUART brings up UART0 on GPIO0 (TX) and GPIO1 (RX) at 115200
// baud. USB CDC carries the bus tap, so text goes here.
func InitDebugUART() {
	uart := machine.UART0
	err := uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	if err != nil {
		return
	}
	debugUART = uart
	debugPrintln("=== lockstat debug UART ===")
}

// debugPrintln writes s and a line ending to the debug UART
func debugPrintln(s string) {
	if debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}

// writeTap sends one tap block over USB CDC
func writeTap(block []byte) {
	machine.Serial.Write(block)
}
