package core

// KeyEvent is one keypad symbol, or KeyNone.
type KeyEvent byte

// KeyNone means no key (or no new key) on this poll
const KeyNone KeyEvent = 0

// keyTable maps (row, column) to the printed symbol
var keyTable = [4][4]KeyEvent{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'*', '0', '#', 'D'},
}

// String returns the symbol, or "none"
func (k KeyEvent) String() string {
	if k == KeyNone {
		return "none"
	}
	return string(rune(k))
}

// IsDigit reports whether k is 0-9
func (k KeyEvent) IsDigit() bool {
	return k >= '0' && k <= '9'
}

// Digit returns the numeric value of a digit key
func (k KeyEvent) Digit() int {
	return int(k - '0')
}

// KeyAt returns the symbol printed at row, col (both 0..3)
func KeyAt(row, col int) KeyEvent {
	return keyTable[row][col]
}

// KeyPosition returns the matrix position of k
func KeyPosition(k KeyEvent) (row, col int, ok bool) {
	for r := range keyTable {
		for c := range keyTable[r] {
			if keyTable[r][c] == k {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// KeypadPins lists the matrix wiring. Rows are driven, columns sensed.
type KeypadPins struct {
	Rows [4]GPIOPin
	Cols [4]GPIOPin
}

// Keypad scans a 4x4 matrix and filters repeats of a held key.
type Keypad struct {
	gpio GPIODriver
	pins KeypadPins
	last KeyEvent
}

// NewKeypad creates a scanner over gpio
func NewKeypad(gpio GPIODriver, pins KeypadPins) *Keypad {
	return &Keypad{gpio: gpio, pins: pins}
}

// Configure sets rows as outputs driven low and columns as pulled-down inputs
func (k *Keypad) Configure() error {
	for _, pin := range k.pins.Rows {
		if err := k.gpio.ConfigureOutput(pin); err != nil {
			return err
		}
		if err := k.gpio.SetPin(pin, false); err != nil {
			return err
		}
	}
	for _, pin := range k.pins.Cols {
		if err := k.gpio.ConfigureInputPullDown(pin); err != nil {
			return err
		}
	}
	return nil
}

// Poll scans once and returns a symbol only on change from the previous
// scan. A held key reports once; it reports again only after a scan that
// saw no key.
func (k *Keypad) Poll() KeyEvent {
	return k.filter(k.scan())
}

// scan drives each row high in turn and reads the columns. With several
// keys down the last one in scan order wins.
func (k *Keypad) scan() KeyEvent {
	pressed := KeyNone
	for r, row := range k.pins.Rows {
		if k.gpio.SetPin(row, true) != nil {
			continue
		}
		for c, col := range k.pins.Cols {
			if high, err := k.gpio.GetPin(col); err == nil && high {
				pressed = keyTable[r][c]
			}
		}
		_ = k.gpio.SetPin(row, false)
	}
	return pressed
}

// filter is the edge detector. KeyNone is remembered like any symbol.
func (k *Keypad) filter(raw KeyEvent) KeyEvent {
	if raw == k.last {
		return KeyNone
	}
	k.last = raw
	return raw
}
