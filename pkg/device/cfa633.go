package device

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lcdhost/cfa533driver/pkg/charrom"
	"github.com/lcdhost/cfa533driver/pkg/protocol"
)

// CFA633 is the sibling model: same 2x16 geometry as the CFA533, but a
// single-byte contrast encoding and no One-Wire temperature sensors
// (§4.G).
type CFA633 struct {
	rom    *charrom.Rom
	logger *log.Logger
}

// NewCFA633 returns a CFA633 with a fresh, default character ROM. A nil
// logger discards the non-fatal warnings this model can emit.
func NewCFA633(logger *log.Logger) *CFA633 {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CFA633{rom: charrom.New(), logger: logger}
}

func (d *CFA633) Model() string            { return "CFA633" }
func (d *CFA633) Lines() int               { return 2 }
func (d *CFA633) Columns() int             { return 16 }
func (d *CFA633) CharacterWidth() int      { return 6 }
func (d *CFA633) CharacterHeight() int     { return 8 }
func (d *CFA633) NTemperatureSensors() int { return 0 }
func (d *CFA633) Rom() *charrom.Rom        { return d.rom }

// EncodeContrast packs contrast (0..1) into the CFA633's single
// contrast byte: int(c*200).
func (d *CFA633) EncodeContrast(contrast float64) ([]byte, error) {
	if contrast < 0 || contrast > 1 {
		return nil, &protocol.InputValidationError{Field: "contrast", Message: "must be within [0,1]"}
	}
	return []byte{byte(int(contrast * 200))}, nil
}

// EncodeBrightness packs LCD brightness (0..1) into a single byte.
// Keypad brightness is not supported on this model; passing one logs a
// non-fatal warning and is ignored.
func (d *CFA633) EncodeBrightness(lcd float64, keypad *float64) ([]byte, error) {
	if lcd < 0 || lcd > 1 {
		return nil, &protocol.InputValidationError{Field: "lcd", Message: "must be within [0,1]"}
	}
	if keypad != nil {
		d.logger.Warn("CFA633 has no separate keypad brightness; ignoring")
	}
	return []byte{byte(int(lcd * 100))}, nil
}

// ParseStatus decodes the 15-byte status response using the CFA633's
// dedicated contrast/brightness byte positions.
func (d *CFA633) ParseStatus(data []byte) (Status, error) {
	raw, err := parseRawStatus(data)
	if err != nil {
		return Status{}, err
	}
	return Status{
		SensorsEnabled:   nil,
		KeyStates:        raw.keyStates(),
		Atx:              protocol.DecodeAtxByte(raw.atxByte),
		WatchdogCounter:  int(raw.watchdogCounter),
		Contrast:         float64(raw.cfa633Contrast) / 200.0,
		Brightness:       float64(raw.lcdBrightness) / 100.0,
		AtxSenseOnFloppy: raw.senseOnFloppy != 0,
	}, nil
}
