package protocol

import "bytes"

// TapDataMax is the largest frame body a single tap block can carry.
const TapDataMax = TapLengthMax - TapLengthMin - 3

// TapRecord is one mirrored bus transaction.
type TapRecord struct {
	Seq  uint8
	Kind uint8
	Addr uint8
	Data []byte
}

// TapEncoder builds tap blocks. The slice returned by Encode is only valid
// until the next call.
type TapEncoder struct {
	out *ScratchOutput
	seq uint8
}

// NewTapEncoder creates an encoder starting at sequence 0
func NewTapEncoder() *TapEncoder {
	return &TapEncoder{out: NewScratchOutput()}
}

// Encode wraps kind, addr and data into a block. Data beyond TapDataMax is
// truncated.
func (e *TapEncoder) Encode(kind, addr uint8, data []byte) []byte {
	if len(data) > TapDataMax {
		data = data[:TapDataMax]
	}

	e.out.Reset()
	e.out.Output([]byte{0, TapDest | e.seq})
	e.out.Output([]byte{kind, addr})
	EncodeVLQBytes(e.out, data)

	msgLen := e.out.CurPosition() + TapTrailerSize
	e.out.Update(TapPositionLen, byte(msgLen))

	crc := CRC16(e.out.Result())
	e.out.Output([]byte{byte(crc >> 8), byte(crc), TapValueSync})

	e.seq = (e.seq + 1) & TapSeqMask
	return e.out.Result()
}

// TapStats counts decoder outcomes
type TapStats struct {
	Blocks    uint32
	CRCErrors uint32
	Resyncs   uint32
	Malformed uint32
	SeqGaps   uint32
}

// TapDecoder reassembles tap blocks from an arbitrary chunked byte stream.
// Garbage between blocks is skipped by hunting for the sync byte.
type TapDecoder struct {
	pending []byte
	synced  bool
	haveSeq bool
	nextSeq uint8
	stats   TapStats
}

// NewTapDecoder creates a decoder that assumes the stream starts on a block
func NewTapDecoder() *TapDecoder {
	return &TapDecoder{synced: true}
}

// Stats returns a copy of the decoder counters
func (d *TapDecoder) Stats() TapStats {
	return d.stats
}

// Feed consumes a chunk of the stream and returns every complete record in it.
// Partial blocks are kept for the next call.
func (d *TapDecoder) Feed(chunk []byte) []TapRecord {
	d.pending = append(d.pending, chunk...)
	data := d.pending

	var records []TapRecord
	for len(data) > 0 {
		if !d.synced {
			syncPos := bytes.IndexByte(data, TapValueSync)
			if syncPos < 0 {
				data = data[:0]
				break
			}
			data = data[syncPos+1:]
			d.synced = true
			d.stats.Resyncs++
			continue
		}

		if data[0] == TapValueSync {
			data = data[1:]
			continue
		}

		if len(data) < TapLengthMin {
			break
		}

		msgLen := int(data[TapPositionLen])
		if msgLen < TapLengthMin || msgLen > TapLengthMax {
			d.synced = false
			continue
		}

		seq := data[TapPositionSeq]
		if seq&^TapSeqMask != TapDest {
			d.synced = false
			continue
		}

		if len(data) < msgLen {
			break
		}

		if data[msgLen-TapTrailerSync] != TapValueSync {
			d.synced = false
			continue
		}

		frameCRC := uint16(data[msgLen-TapTrailerCRC])<<8 |
			uint16(data[msgLen-TapTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-TapTrailerSize]) {
			d.stats.CRCErrors++
			d.synced = false
			continue
		}

		payload := data[TapHeaderSize : msgLen-TapTrailerSize]
		data = data[msgLen:]

		rec, ok := parseTapPayload(seq&TapSeqMask, payload)
		if !ok {
			d.stats.Malformed++
			continue
		}

		if d.haveSeq && rec.Seq != d.nextSeq {
			d.stats.SeqGaps++
		}
		d.haveSeq = true
		d.nextSeq = (rec.Seq + 1) & TapSeqMask

		d.stats.Blocks++
		records = append(records, rec)
	}

	d.pending = append(d.pending[:0], data...)
	return records
}

func parseTapPayload(seq uint8, payload []byte) (TapRecord, bool) {
	if len(payload) < 2 {
		return TapRecord{}, false
	}
	rec := TapRecord{Seq: seq, Kind: payload[0], Addr: payload[1]}
	rest := payload[2:]
	body, err := DecodeVLQBytes(&rest)
	if err != nil || len(rest) != 0 {
		return TapRecord{}, false
	}
	rec.Data = append([]byte(nil), body...)
	return rec, true
}
