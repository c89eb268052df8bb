package core

// Pattern driver opcodes. Values below PatternCount select an animation.
const (
	PatternCount = 8

	OpPatternOff byte = 9
	OpPeriodDown byte = 10
	OpPeriodUp   byte = 11
)

// patternNames label each animation on the status line. Ids 2 and 4 have
// no animation table on the driver and show a blank bar.
var patternNames = [PatternCount]string{
	"STATIC",
	"TOGGLE",
	"BLANK 2",
	"IN-OUT",
	"BLANK 4",
	"SCROLL",
	"SCRL INV",
	"FILL",
}

// PatternName returns the status label for pattern id, or "OFF"
func PatternName(id int) string {
	if id < 0 || id >= PatternCount {
		return "OFF"
	}
	return patternNames[id]
}
