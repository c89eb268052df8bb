// lockctl is the host companion for the keypad lock controller: an
// interactive simulator, a bus-tap monitor and a config dumper.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
