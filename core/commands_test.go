package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandQueueFIFO(t *testing.T) {
	resetCore(t)
	q := NewCommandQueue()

	for i := 0; i < 3; i++ {
		require.True(t, q.Post(Command{Kind: CmdTemperature, Reading: Reading{Code: i}}))
	}
	assert.Equal(t, 3, q.Len())

	for i := 0; i < 3; i++ {
		cmd, ok := q.Next()
		require.True(t, ok)
		assert.Equal(t, i, cmd.Reading.Code)
	}
	_, ok := q.Next()
	assert.False(t, ok)
}

func TestCommandQueueRejectsWhenFull(t *testing.T) {
	resetCore(t)
	q := NewCommandQueue()

	for i := 0; i < CommandQueueDepth; i++ {
		require.True(t, q.Post(Command{Kind: CmdTemperature, Reading: Reading{Code: i}}))
	}
	assert.False(t, q.Post(Command{Kind: CmdTemperature, Reading: Reading{Code: 99}}))
	assert.Equal(t, uint32(1), q.Dropped())
	assert.True(t, hasEvent(EvtCmdDrop))

	// the oldest entries survive
	cmd, _ := q.Next()
	assert.Equal(t, 0, cmd.Reading.Code)

	// wrap around
	require.True(t, q.Post(Command{Kind: CmdTemperature, Reading: Reading{Code: 100}}))
	var last Command
	for {
		c, ok := q.Next()
		if !ok {
			break
		}
		last = c
	}
	assert.Equal(t, 100, last.Reading.Code)
}
