package core

// String helpers that avoid fmt, which is heavy on the microcontroller.

// itoa converts an integer to a string
func itoa(n int) string {
	if n < 0 {
		return "-" + utoa(uint32(-n))
	}
	return utoa(uint32(n))
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	var buf [10]byte
	pos := len(buf)
	for {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return string(buf[pos:])
}

// putZeroPadded writes n right-aligned into dst, filling with '0'.
// Digits that do not fit are dropped from the left.
func putZeroPadded(dst []byte, n int) {
	if n < 0 {
		n = 0
	}
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte('0' + n%10)
		n /= 10
	}
}

// putPadded copies s into dst and space-fills the remainder, truncating
// s when it is longer than dst.
func putPadded(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = ' '
	}
}
