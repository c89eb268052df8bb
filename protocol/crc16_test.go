package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16Empty(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), CRC16(nil))
}

func TestCRC16Consistency(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	assert.Equal(t, CRC16(data), CRC16(data))
}

func TestCRC16Different(t *testing.T) {
	assert.NotEqual(t, CRC16([]byte{0x01, 0x02, 0x03}), CRC16([]byte{0x01, 0x02, 0x04}))
}

func TestCRC16DetectsSingleBitFlips(t *testing.T) {
	data := []byte("LOCKED            22.5C     003 \n")
	want := CRC16(data)
	for i := range data {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), data...)
			flipped[i] ^= 1 << bit
			if CRC16(flipped) == want {
				t.Fatalf("flip of byte %d bit %d not detected", i, bit)
			}
		}
	}
}
