package protocol

import "errors"

var (
	ErrInvalidVLQ     = errors.New("invalid VLQ encoding")
	ErrBufferTooSmall = errors.New("buffer too small for VLQ")
)

// maxVLQBytes is enough groups for any uint32
const maxVLQBytes = 5

// EncodeVLQUint writes v in 7-bit groups, most significant first. Every
// group but the last has the continuation bit set, so values below 0x80
// take one byte.
func EncodeVLQUint(output OutputBuffer, v uint32) {
	var groups [maxVLQBytes]byte
	i := len(groups) - 1
	groups[i] = byte(v & 0x7F)
	for v >>= 7; v != 0; v >>= 7 {
		i--
		groups[i] = byte(v&0x7F) | 0x80
	}
	output.Output(groups[i:])
}

// DecodeVLQUint reads one value and advances data past it
func DecodeVLQUint(data *[]byte) (uint32, error) {
	var v uint32
	for i := 0; ; i++ {
		if len(*data) == 0 {
			return 0, ErrBufferTooSmall
		}
		if i == maxVLQBytes {
			return 0, ErrInvalidVLQ
		}
		c := (*data)[0]
		*data = (*data)[1:]
		v = v<<7 | uint32(c&0x7F)
		if c&0x80 == 0 {
			return v, nil
		}
	}
}

// EncodeVLQBytes writes a length prefix followed by data
func EncodeVLQBytes(output OutputBuffer, data []byte) {
	EncodeVLQUint(output, uint32(len(data)))
	output.Output(data)
}

// DecodeVLQBytes reads a length-prefixed byte string. The result aliases
// data.
func DecodeVLQBytes(data *[]byte) ([]byte, error) {
	length, err := DecodeVLQUint(data)
	if err != nil {
		return nil, err
	}
	if length > uint32(len(*data)) {
		return nil, ErrBufferTooSmall
	}
	result := (*data)[:length]
	*data = (*data)[length:]
	return result, nil
}
