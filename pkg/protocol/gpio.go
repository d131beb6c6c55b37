package protocol

import "fmt"

// GpioFunction selects whether a GPIO pin is under driver control
// (§3, §4.E).
type GpioFunction byte

const (
	GpioUnused GpioFunction = 0b0000
	GpioUsed   GpioFunction = 0b1000
)

// GpioDriveMode is one of the four physical drive strengths a GPIO pin
// can be configured with when pulled up or down.
type GpioDriveMode int

const (
	GpioSlowStrong GpioDriveMode = iota + 1
	GpioFastStrong
	GpioResistive
	GpioHiZ
)

// GpioSettings is the third, optional byte of "set/configure GPIO"
// (0x22): function OR'd with one of eight drive-mode encodings.
type GpioSettings struct {
	Function GpioFunction
	Mode     byte // 0..0b111
}

// NewGpioSettings builds settings from an explicit 3-bit mode code.
func NewGpioSettings(function GpioFunction, mode byte) (GpioSettings, error) {
	if mode > 0b111 {
		return GpioSettings{}, &InputValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("mode 0b%b exceeds 3 bits", mode),
		}
	}
	return GpioSettings{Function: function, Mode: mode}, nil
}

// NewGpioDriveSettings derives the 3-bit mode code from a (pull-up,
// pull-down) drive-mode pair. Seven pairs are recognised, one for each
// code except 0b110, which no pair produces (NewGpioSettings accepts
// any 3-bit code directly).
func NewGpioDriveSettings(function GpioFunction, whenUp, whenDown GpioDriveMode) (GpioSettings, error) {
	var mode byte
	switch {
	case whenUp == GpioFastStrong && whenDown == GpioResistive:
		mode = 0b000
	case whenUp == GpioFastStrong && whenDown == GpioFastStrong:
		mode = 0b001
	case whenUp == GpioResistive && whenDown == GpioFastStrong:
		mode = 0b011
	case whenUp == GpioSlowStrong && whenDown == GpioHiZ:
		mode = 0b100
	case whenUp == GpioSlowStrong && whenDown == GpioSlowStrong:
		mode = 0b101
	case whenUp == GpioHiZ && whenDown == 0:
		mode = 0b010
	case whenUp == GpioHiZ && whenDown == GpioSlowStrong:
		mode = 0b111
	default:
		return GpioSettings{}, &InputValidationError{
			Field:   "drive_mode",
			Message: fmt.Sprintf("unsupported combination when_up=%v when_down=%v", whenUp, whenDown),
		}
	}
	return GpioSettings{Function: function, Mode: mode}, nil
}

// Byte packs function and mode into the single settings byte.
func (s GpioSettings) Byte() byte {
	return byte(s.Function) + s.Mode
}
