package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.Output([]byte{1, 2, 3})
	assert.Equal(t, 3, scratch.CurPosition())

	scratch.Output([]byte{4, 5})
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, scratch.Result())

	scratch.Update(0, 99)
	assert.Equal(t, byte(99), scratch.Result()[0])

	// Update past the write position is ignored
	scratch.Update(10, 7)
	assert.Equal(t, 5, scratch.CurPosition())

	scratch.Reset()
	assert.Equal(t, 0, scratch.CurPosition())
	assert.Empty(t, scratch.Result())
}

func TestScratchOutputTruncates(t *testing.T) {
	scratch := NewScratchOutput()
	scratch.Output(make([]byte, MessageMax+10))
	assert.Equal(t, MessageMax, scratch.CurPosition())
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)
	require.True(t, fifo.IsEmpty())
	assert.Equal(t, 9, fifo.Free())

	written := fifo.Write([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, 5, written)
	assert.Equal(t, 5, fifo.Available())

	readBuf := make([]byte, 3)
	read := fifo.Read(readBuf)
	assert.Equal(t, 3, read)
	assert.Equal(t, []byte{1, 2, 3}, readBuf)
	assert.Equal(t, 2, fifo.Available())

	fifo.Pop(1)
	assert.Equal(t, 1, fifo.Available())

	// One slot is reserved, so a size-10 FIFO stores 9 bytes
	fifo.Reset()
	bigData := make([]byte, 12)
	assert.Equal(t, 9, fifo.Write(bigData))
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Read(make([]byte, 2))

	written := fifo.Write([]byte{5, 6})
	require.Equal(t, 2, written)

	b, ok := fifo.Peek(3)
	require.True(t, ok)
	assert.Equal(t, byte(6), b)

	allData := make([]byte, 4)
	assert.Equal(t, 4, fifo.Read(allData))
	assert.Equal(t, []byte{3, 4, 5, 6}, allData)
}

func TestFifoBufferWriteAll(t *testing.T) {
	fifo := NewFifoBuffer(6)

	assert.True(t, fifo.WriteAll([]byte{1, 2, 3}))
	assert.False(t, fifo.WriteAll([]byte{4, 5, 6}), "only two bytes free")
	assert.Equal(t, 3, fifo.Available(), "rejected write must not be partial")
	assert.True(t, fifo.WriteAll([]byte{4, 5}))
	assert.Equal(t, 0, fifo.Free())
}

func TestFifoBufferPeekOutOfRange(t *testing.T) {
	fifo := NewFifoBuffer(4)
	_, ok := fifo.Peek(0)
	assert.False(t, ok)

	fifo.Write([]byte{9})
	_, ok = fifo.Peek(1)
	assert.False(t, ok)
	_, ok = fifo.Peek(-1)
	assert.False(t, ok)
}
