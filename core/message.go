package core

// Outbound status text layout. Bytes [0,16) are display row 0 and
// [16,32) row 1; byte 32 is the newline terminator.
const (
	MessagePayload = 32
	MessageFrame   = MessagePayload + 1

	labelOffset  = 0
	labelWidth   = 16
	tempOffset   = 18
	tempWidth    = 4
	unitOffset   = 22
	windowOffset = 28
	windowWidth  = 3
)

// Message is the fixed-layout status text sent to the display.
type Message struct {
	buf [MessageFrame]byte
}

// NewMessage returns an all-space message
func NewMessage() *Message {
	m := &Message{}
	m.Clear()
	return m
}

// Clear blanks every field
func (m *Message) Clear() {
	for i := 0; i < MessagePayload; i++ {
		m.buf[i] = ' '
	}
	m.buf[MessagePayload] = '\n'
}

// SetLabel writes the status or mode label, truncated to 16 characters
func (m *Message) SetLabel(label string) {
	putPadded(m.buf[labelOffset:labelOffset+labelWidth], label)
}

// SetTemperature writes the 4-character reading and its unit letter
func (m *Message) SetTemperature(text [4]byte, unit Unit) {
	copy(m.buf[tempOffset:tempOffset+tempWidth], text[:])
	m.buf[unitOffset] = unit.Letter()
}

// ClearTemperature blanks the reading and unit
func (m *Message) ClearTemperature() {
	putPadded(m.buf[tempOffset:unitOffset+1], "")
}

// SetWindow writes the window capacity as a zero-padded 3-digit token
func (m *Message) SetWindow(n int) {
	putZeroPadded(m.buf[windowOffset:windowOffset+windowWidth], n)
}

// Frame returns the full terminated frame. The slice aliases the message.
func (m *Message) Frame() []byte {
	return m.buf[:]
}

// Payload returns the 32 text bytes without the terminator
func (m *Message) Payload() []byte {
	return m.buf[:MessagePayload]
}

// Label returns the label field with padding
func (m *Message) Label() string {
	return string(m.buf[labelOffset : labelOffset+labelWidth])
}

// Temperature returns the reading field with padding
func (m *Message) Temperature() string {
	return string(m.buf[tempOffset : tempOffset+tempWidth])
}

// WindowToken returns the window field
func (m *Message) WindowToken() string {
	return string(m.buf[windowOffset : windowOffset+windowWidth])
}
