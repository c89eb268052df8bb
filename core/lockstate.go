package core

// LockState is the controller mode
type LockState uint8

const (
	Locked LockState = iota
	Digit1
	Digit2
	Digit3
	Unlocked
	PatternSelect
	WindowSelect
)

func (s LockState) String() string {
	switch s {
	case Locked:
		return "locked"
	case Digit1:
		return "digit1"
	case Digit2:
		return "digit2"
	case Digit3:
		return "digit3"
	case Unlocked:
		return "unlocked"
	case PatternSelect:
		return "pattern-select"
	case WindowSelect:
		return "window-select"
	default:
		return "unknown"
	}
}

// unlockKey is the only symbol the PIN accepts
const unlockKey KeyEvent = '1'

// effect is the side effect a transition asks the controller to apply
type effect uint8

const (
	effNone          effect = iota
	effArm                  // indicator on
	effAdvance              // next PIN digit, outputs unchanged
	effReset                // all outputs off
	effUnlock               // lock released
	effRelock               // outputs released, scratch cleared
	effEnterPattern         // show pattern menu
	effEnterWindow          // clear numeric scratch
	effToggleUnit           // flip C/F
	effSelectPattern        // opcode 0-7, label update
	effTimingDown           // opcode 10
	effTimingUp             // opcode 11
	effLeavePattern         // back to unlocked status
	effWindowDigit          // accumulate scratch
	effWindowCommit         // validate, resize window, back to unlocked
)

// transition is the whole mode table. It is pure: given the current state
// and a key it returns the next state and the effect to apply.
func transition(s LockState, k KeyEvent) (LockState, effect) {
	switch s {
	case Locked:
		if k == unlockKey {
			return Digit1, effArm
		}
		return Locked, effReset
	case Digit1:
		if k == unlockKey {
			return Digit2, effAdvance
		}
		return Locked, effReset
	case Digit2:
		if k == unlockKey {
			return Digit3, effAdvance
		}
		return Locked, effReset
	case Digit3:
		if k == unlockKey {
			return Unlocked, effUnlock
		}
		return Locked, effReset
	case Unlocked:
		switch k {
		case 'D':
			return Locked, effRelock
		case 'A':
			return PatternSelect, effEnterPattern
		case 'B':
			return WindowSelect, effEnterWindow
		case 'C':
			return Unlocked, effToggleUnit
		}
		return Unlocked, effNone
	case PatternSelect:
		switch {
		case k == 'D':
			return Locked, effRelock
		case k >= '0' && k <= '7':
			return PatternSelect, effSelectPattern
		case k == 'A':
			return PatternSelect, effTimingDown
		case k == 'B':
			return PatternSelect, effTimingUp
		case k == '*':
			return Unlocked, effLeavePattern
		}
		return PatternSelect, effNone
	case WindowSelect:
		switch {
		case k == 'D':
			return Locked, effRelock
		case k.IsDigit():
			return WindowSelect, effWindowDigit
		case k == '*':
			return Unlocked, effWindowCommit
		}
		return WindowSelect, effNone
	}
	// Unknown state: fail closed
	return Locked, effReset
}
