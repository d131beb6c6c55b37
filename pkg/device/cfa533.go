package device

import (
	"github.com/lcdhost/cfa533driver/pkg/charrom"
	"github.com/lcdhost/cfa533driver/pkg/protocol"
)

// CFA533 is the reference model: 2x16 character cells, 6x8 pixel
// glyphs, 32 One-Wire temperature sensors (§4.G).
type CFA533 struct {
	rom *charrom.Rom
}

// NewCFA533 returns a CFA533 with a fresh, default character ROM.
func NewCFA533() *CFA533 {
	return &CFA533{rom: charrom.New()}
}

func (d *CFA533) Model() string            { return "CFA533" }
func (d *CFA533) Lines() int               { return 2 }
func (d *CFA533) Columns() int             { return 16 }
func (d *CFA533) CharacterWidth() int      { return 6 }
func (d *CFA533) CharacterHeight() int     { return 8 }
func (d *CFA533) NTemperatureSensors() int { return 32 }
func (d *CFA533) Rom() *charrom.Rom        { return d.rom }

// EncodeContrast packs contrast (0..1) into the legacy and enhanced
// contrast bytes the CFA533 expects together: [int(c*50), int(c*255)].
func (d *CFA533) EncodeContrast(contrast float64) ([]byte, error) {
	if contrast < 0 || contrast > 1 {
		return nil, &protocol.InputValidationError{Field: "contrast", Message: "must be within [0,1]"}
	}
	return []byte{byte(int(contrast * 50)), byte(int(contrast * 255))}, nil
}

// EncodeBrightness packs LCD brightness (0..1) and optional keypad
// brightness (0..1) into one or two bytes.
func (d *CFA533) EncodeBrightness(lcd float64, keypad *float64) ([]byte, error) {
	if lcd < 0 || lcd > 1 {
		return nil, &protocol.InputValidationError{Field: "lcd", Message: "must be within [0,1]"}
	}
	out := []byte{byte(int(lcd * 100))}
	if keypad != nil {
		if *keypad < 0 || *keypad > 1 {
			return nil, &protocol.InputValidationError{Field: "keypad", Message: "must be within [0,1]"}
		}
		out = append(out, byte(int(*keypad*100)))
	}
	return out, nil
}

// ParseStatus decodes the 15-byte status response using the CFA533's
// legacy contrast/brightness byte positions.
func (d *CFA533) ParseStatus(data []byte) (Status, error) {
	raw, err := parseRawStatus(data)
	if err != nil {
		return Status{}, err
	}
	return Status{
		SensorsEnabled:   protocol.UnpackTemperatureSettings(raw.sensorsEnabled[:]),
		KeyStates:        raw.keyStates(),
		Atx:              protocol.DecodeAtxByte(raw.atxByte),
		WatchdogCounter:  int(raw.watchdogCounter),
		Contrast:         float64(raw.contrastAdjust) / 50.0,
		Brightness:       float64(raw.brightness) / 100.0,
		AtxSenseOnFloppy: raw.senseOnFloppy != 0,
	}, nil
}
