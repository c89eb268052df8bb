package core

import "lockstat/protocol"

// Fixed peer addresses on the shared bus
const (
	DisplayAddr I2CAddress = 0x40
	PatternAddr I2CAddress = 0x45
)

// MaxTextPayload is the longest text the display accepts before the newline
const MaxTextPayload = 32

// FrameKind tells text frames from opcode frames
type FrameKind uint8

const (
	FrameText FrameKind = iota + 1
	FrameOpcode
)

func (k FrameKind) String() string {
	switch k {
	case FrameText:
		return "text"
	case FrameOpcode:
		return "opcode"
	default:
		return "unknown"
	}
}

// BusFrame is one transmitted transaction. Data aliases BusLink scratch
// space and is only valid during the tap callback.
type BusFrame struct {
	Kind FrameKind
	Addr I2CAddress
	Data []byte
}

// BusStats counts BusLink outcomes
type BusStats struct {
	Queued  uint32
	Sent    uint32
	Failed  uint32
	Dropped uint32
}

// frameHeader is kind, addr, length
const frameHeader = 3

// DefaultBusQueue holds a handful of full text frames
const DefaultBusQueue = 4 * (frameHeader + MaxTextPayload + 1)

// BusLink queues outbound frames and transmits them one transaction at a
// time. Send* never block; Pump does the blocking transfers and must only
// be called from the foreground loop.
type BusLink struct {
	i2c     I2CDriver
	queue   *protocol.FifoBuffer
	header  [frameHeader]byte
	scratch [MaxTextPayload + 1]byte
	tap     func(BusFrame)
	stats   BusStats
}

// NewBusLink creates a link whose queue holds queueBytes of framed data
func NewBusLink(i2c I2CDriver, queueBytes int) *BusLink {
	if queueBytes <= 0 {
		queueBytes = DefaultBusQueue
	}
	return &BusLink{
		i2c:   i2c,
		queue: protocol.NewFifoBuffer(queueBytes + 1),
	}
}

// SetTap registers a callback invoked after every successful transaction
func (b *BusLink) SetTap(fn func(BusFrame)) {
	b.tap = fn
}

// SendText queues text for addr with a newline terminator. Text beyond
// MaxTextPayload bytes, or after an embedded newline, is cut.
func (b *BusLink) SendText(addr I2CAddress, text []byte) bool {
	if len(text) > MaxTextPayload {
		text = text[:MaxTextPayload]
	}
	for i, c := range text {
		if c == '\n' {
			text = text[:i]
			break
		}
	}
	return b.enqueue(FrameText, addr, text, true)
}

// SendOpcode queues a single command byte for addr
func (b *BusLink) SendOpcode(addr I2CAddress, op byte) bool {
	b.scratch[0] = op
	return b.enqueue(FrameOpcode, addr, b.scratch[:1], false)
}

func (b *BusLink) enqueue(kind FrameKind, addr I2CAddress, data []byte, terminate bool) bool {
	n := len(data)
	if terminate {
		n++
	}
	if b.queue.Free() < frameHeader+n {
		b.stats.Dropped++
		RecordEvent(EvtBusDrop, uint32(addr), uint32(n))
		return false
	}
	b.queue.Write([]byte{byte(kind), byte(addr), byte(n)})
	b.queue.Write(data)
	if terminate {
		b.queue.Write([]byte{'\n'})
	}
	b.stats.Queued++
	return true
}

// Pending returns the number of bytes waiting, headers included
func (b *BusLink) Pending() int {
	return b.queue.Available()
}

// Pump transmits every queued frame in order and returns how many
// succeeded. A failed transaction is counted and the frame discarded.
func (b *BusLink) Pump() int {
	sent := 0
	for b.queue.Available() >= frameHeader {
		b.queue.Read(b.header[:])
		n := int(b.header[2])
		data := b.scratch[:b.queue.Read(b.scratch[:n])]
		frame := BusFrame{
			Kind: FrameKind(b.header[0]),
			Addr: I2CAddress(b.header[1]),
			Data: data,
		}

		if err := b.i2c.Write(frame.Addr, frame.Data); err != nil {
			b.stats.Failed++
			RecordEvent(EvtBusError, uint32(frame.Addr), uint32(len(data)))
			DebugPrintln("bus: write to " + utoa(uint32(frame.Addr)) + " failed: " + err.Error())
			continue
		}

		b.stats.Sent++
		sent++
		RecordEvent(EvtBusSent, uint32(frame.Addr), uint32(len(data)))
		if b.tap != nil {
			b.tap(frame)
		}
	}
	return sent
}

// Stats returns the link counters
func (b *BusLink) Stats() BusStats {
	return b.stats
}
