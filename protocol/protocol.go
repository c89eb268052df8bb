// Package protocol implements the byte-level framing shared by the lock
// controller firmware and its host tools: ring buffers for queued bus
// frames, and the CRC-checked block format of the bus tap stream.
package protocol

// Version represents the lockstat firmware version
const Version = "0.3.0"

// Protocol constants
const (
	MessageMax = 128 // Scratch output capacity

	// Tap block layout: len, seq, payload..., crc hi, crc lo, sync
	TapHeaderSize  = 2
	TapTrailerSize = 3
	TapLengthMin   = TapHeaderSize + TapTrailerSize
	TapLengthMax   = 64
	TapPositionLen = 0
	TapPositionSeq = 1
	TapTrailerCRC  = 3
	TapTrailerSync = 1
	TapValueSync   = 0x7E
	TapDest        = 0x10

	TapSeqMask = 0x0F
)
