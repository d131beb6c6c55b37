package protocol

import "strings"

// Response is any value parsed from an inbound packet: a command
// acknowledgement, a typed data response, or an asynchronous report
// (§4.F). This is a closed tagged union in the style the design notes
// call for, rather than the dynamic-dispatch class table the reference
// implementation uses: Go's interface satisfaction plus a single switch
// in ParseResponse plays the role of the source's RESPONSE_CLASSES map.
type Response interface {
	isResponse()
}

// Pong is the ping acknowledgement (0x40): it echoes the ping payload.
type Pong struct{ Payload []byte }

func (Pong) isResponse() {}

// Versions is the parsed "MODEL:hw, fw" version string (0x41).
type Versions struct {
	Model       string
	HardwareRev string
	FirmwareRev string
}

func (Versions) isResponse() {}

// Ack is a bare acknowledgement carrying no structured payload beyond
// whatever bytes the device sent (covers the majority of ACK codes that
// have no dedicated type: 0x42, 0x44, 0x45, 0x46, ...).
type Ack struct {
	Code    byte
	Payload []byte
}

func (Ack) isResponse() {}

// UserFlash is the 16-byte read-user-flash response (0x43).
type UserFlash struct{ Data [16]byte }

func (UserFlash) isResponse() {}

// LCDMemory is the read-LCD-memory response (0x4A): the address that
// was read, plus 8 bytes starting at it.
type LCDMemory struct {
	Address byte
	Data    [8]byte
}

func (LCDMemory) isResponse() {}

// DOWInfo is the read-DOW-info response (0x52): a bus index plus its
// 8-byte One-Wire ROM ID.
type DOWInfo struct {
	Index byte
	ROMID [8]byte
}

func (DOWInfo) isResponse() {}

// DOWTransactionResult is the DOW-transaction response (0x54): the bus
// index, any data read back, and whether the trailing CRC byte reported
// success.
type DOWTransactionResult struct {
	Index byte
	Data  []byte
	CRCOK bool
}

func (DOWTransactionResult) isResponse() {}

// KeypadPoll is the poll-keypad response (0x58).
type KeypadPoll struct{ States KeyStates }

func (KeypadPoll) isResponse() {}

// RawStatus is the read-status response (0x5E). Its byte layout is
// device-specific (§4.G), so further parsing belongs to the device
// capability layer rather than this package.
type RawStatus struct{ Data []byte }

func (RawStatus) isResponse() {}

// GpioState is the read-GPIO response (0x63).
type GpioState struct {
	Index       byte
	OutputState byte
	DriveByte   byte
}

func (GpioState) isResponse() {}

// ParseResponse classifies a packet's (code, payload) into a typed
// Response, or returns a DeviceError/UnknownResponseError for the
// non-ACK ranges (§4.F).
func ParseResponse(code byte, payload []byte) (Response, error) {
	switch code {
	case 0x40:
		return Pong{Payload: payload}, nil
	case 0x41:
		return parseVersions(payload)
	case 0x43:
		if len(payload) != 16 {
			return nil, &ResponseDecodeError{Code: code, Message: "user flash response expects 16 bytes"}
		}
		var d [16]byte
		copy(d[:], payload)
		return UserFlash{Data: d}, nil
	case 0x4A:
		if len(payload) != 9 {
			return nil, &ResponseDecodeError{Code: code, Message: "LCD memory response expects 9 bytes"}
		}
		var d [8]byte
		copy(d[:], payload[1:])
		return LCDMemory{Address: payload[0], Data: d}, nil
	case 0x52:
		if len(payload) != 9 {
			return nil, &ResponseDecodeError{Code: code, Message: "DOW info response expects 9 bytes"}
		}
		var d [8]byte
		copy(d[:], payload[1:])
		return DOWInfo{Index: payload[0], ROMID: d}, nil
	case 0x54:
		if len(payload) < 2 {
			return nil, &ResponseDecodeError{Code: code, Message: "DOW transaction response expects at least 2 bytes"}
		}
		return DOWTransactionResult{
			Index: payload[0],
			Data:  payload[1 : len(payload)-1],
			CRCOK: payload[len(payload)-1] != 0,
		}, nil
	case 0x58:
		states, err := ParseKeyStates(payload)
		if err != nil {
			return nil, err
		}
		return KeypadPoll{States: states}, nil
	case 0x5E:
		return RawStatus{Data: payload}, nil
	case 0x63:
		if len(payload) != 3 {
			return nil, &ResponseDecodeError{Code: code, Message: "GPIO state response expects 3 bytes"}
		}
		return GpioState{Index: payload[0], OutputState: payload[1], DriveByte: payload[2]}, nil
	case 0x80:
		activity, err := ParseKeyActivity(payload)
		if err != nil {
			return nil, err
		}
		return KeyActivityReport{Activity: activity}, nil
	case 0x82:
		return ParseTemperatureReport(payload)
	}

	if code >= 0x40 && code < 0x80 {
		return Ack{Code: code, Payload: payload}, nil
	}
	if IsDeviceErrorCode(code) {
		return nil, &DeviceError{Command: code & 0x3F, Payload: payload}
	}
	return nil, &UnknownResponseError{Code: code, Payload: payload}
}

func parseVersions(payload []byte) (Versions, error) {
	s := string(payload)
	model, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Versions{}, &ResponseDecodeError{Code: 0x41, Message: "missing ':' separator"}
	}
	hwFw := strings.SplitN(rest, ",", 2)
	if len(hwFw) != 2 {
		return Versions{}, &ResponseDecodeError{Code: 0x41, Message: "missing ',' separator between hardware and firmware revision"}
	}
	return Versions{
		Model:       model,
		HardwareRev: strings.TrimSpace(hwFw[0]),
		FirmwareRev: strings.TrimSpace(hwFw[1]),
	}, nil
}
