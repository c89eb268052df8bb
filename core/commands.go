package core

// CommandKind tags work posted from interrupt context for the foreground
type CommandKind uint8

const (
	// CmdTemperature carries a fresh reading for the status text
	CmdTemperature CommandKind = iota + 1
)

// Command is one unit of deferred foreground work
type Command struct {
	Kind    CommandKind
	Reading Reading
}

// CommandQueueDepth bounds the deferred work queue
const CommandQueueDepth = 8

// CommandQueue is a bounded FIFO written from interrupt context and
// drained by the foreground loop. All index updates happen inside a
// critical section.
type CommandQueue struct {
	buf     [CommandQueueDepth]Command
	read    int
	count   int
	dropped uint32
}

// NewCommandQueue returns an empty queue
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Post appends cmd. A full queue rejects it and counts a drop.
func (q *CommandQueue) Post(cmd Command) bool {
	state := disableInterrupts()
	if q.count == CommandQueueDepth {
		q.dropped++
		restoreInterrupts(state)
		RecordEvent(EvtCmdDrop, uint32(cmd.Kind), 0)
		return false
	}
	q.buf[(q.read+q.count)%CommandQueueDepth] = cmd
	q.count++
	restoreInterrupts(state)
	return true
}

// Next pops the oldest command
func (q *CommandQueue) Next() (Command, bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if q.count == 0 {
		return Command{}, false
	}
	cmd := q.buf[q.read]
	q.read = (q.read + 1) % CommandQueueDepth
	q.count--
	return cmd, true
}

// Len returns the number of queued commands
func (q *CommandQueue) Len() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return q.count
}

// Dropped returns how many posts were rejected
func (q *CommandQueue) Dropped() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return q.dropped
}
