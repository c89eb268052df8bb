package core

import "lockstat/protocol"

// NewUARTTap returns a BusLink tap that mirrors every transmitted frame to
// write as a CRC-checked tap block. write must consume the block before
// returning; the slice is reused.
func NewUARTTap(write func([]byte)) func(BusFrame) {
	enc := protocol.NewTapEncoder()
	return func(f BusFrame) {
		write(enc.Encode(uint8(f.Kind), uint8(f.Addr), f.Data))
	}
}
