package wire

// Packet is the atomic wire unit: an 8-bit code plus 0..=MaxDataLen bytes
// of payload (§3).
type Packet struct {
	Code    byte
	Payload []byte
}

// Serialize frames a (code, payload) pair: code, length, payload, then the
// little-endian CRC-16 over the preceding bytes (§4.B).
func Serialize(code byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxDataLen {
		return nil, &PayloadTooLargeError{Len: len(payload)}
	}

	buf := make([]byte, 0, MaxFrameLen)
	buf = append(buf, code, byte(len(payload)))
	buf = append(buf, payload...)
	buf = AppendCRC(buf, buf)

	return buf, nil
}

// Parse attempts to pull one complete, CRC-valid packet off the front of
// buf. It never fails on corrupt input: a malformed header or a bad CRC
// causes it to drop one byte and retry, returning the remainder for the
// caller to feed back in on the next read (§4.B resynchronisation). The
// only two outcomes are "got a packet, here's the rest" and "not enough
// data yet, here's what is left" (ok == false; rest is buf minus any
// leading bytes already discarded by resynchronisation, so it may be
// shorter than buf).
func Parse(buf []byte) (pkt Packet, rest []byte, ok bool) {
	for {
		if len(buf) < 4 {
			return Packet{}, buf, false
		}

		code := buf[0]
		length := int(buf[1])

		if length > MaxDataLen {
			buf = buf[1:]
			continue
		}

		if len(buf) < length+4 {
			return Packet{}, buf, false
		}

		header := buf[0 : length+2]
		wantCRC := buf[length+2 : length+4]
		gotCRC := CRC16(header)

		if byte(gotCRC) != wantCRC[0] || byte(gotCRC>>8) != wantCRC[1] {
			buf = buf[1:]
			continue
		}

		payload := make([]byte, length)
		copy(payload, buf[2:length+2])

		return Packet{Code: code, Payload: payload}, buf[length+4:], true
	}
}
