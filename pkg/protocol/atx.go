package protocol

// AtxFunction is one enabled ATX power-switch function (§3, §4.E).
type AtxFunction byte

const (
	AtxResetInvert      AtxFunction = 0x02
	AtxPowerInvert      AtxFunction = 0x04
	AtxLCDOffIfHostOff  AtxFunction = 0x10
	AtxKeypadReset      AtxFunction = 0x20
	AtxKeypadPowerOn    AtxFunction = 0x40
	AtxKeypadPowerOff   AtxFunction = 0x80
	atxAutoPolarityFlag AtxFunction = 0x01
)

// AtxSettings is the payload for "set ATX power switch" (0x1C).
type AtxSettings struct {
	Functions         []AtxFunction
	AutoPolarity      bool
	PowerPulseSeconds float64 // zero means "omit the pulse-length byte"
}

// Bytes packs the settings into the one- or two-byte wire payload
// (§4.E): a functions byte, OR'd with AUTO_POLARITY when enabled, and
// an optional pulse-length byte in units of 1/32s (minimum 1, clamped
// to 255).
func (s AtxSettings) Bytes() ([]byte, error) {
	var functions byte
	for _, f := range s.Functions {
		functions |= byte(f)
	}
	if s.AutoPolarity {
		functions |= byte(atxAutoPolarityFlag)
	}

	out := []byte{functions}
	if s.PowerPulseSeconds > 0 {
		pulse := int(s.PowerPulseSeconds * 32)
		if pulse < 1 {
			return nil, &InputValidationError{
				Field:   "power_pulse_length_seconds",
				Message: "must be at least 1/32s",
			}
		}
		if pulse > 255 {
			pulse = 255
		}
		out = append(out, byte(pulse))
	}
	return out, nil
}

var allAtxFunctions = []AtxFunction{
	AtxResetInvert, AtxPowerInvert, AtxLCDOffIfHostOff,
	AtxKeypadReset, AtxKeypadPowerOn, AtxKeypadPowerOff,
}

// DecodeAtxByte is the inverse of Bytes' functions byte, used when
// parsing a device status response (§4.G).
func DecodeAtxByte(b byte) AtxSettings {
	settings := AtxSettings{AutoPolarity: b&byte(atxAutoPolarityFlag) != 0}
	for _, f := range allAtxFunctions {
		if b&byte(f) != 0 {
			settings.Functions = append(settings.Functions, f)
		}
	}
	return settings
}
