// Package device implements the per-model capability table (§4.G):
// geometry, contrast/brightness encoding, and status parsing for the
// CFA533 and CFA633.
package device

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lcdhost/cfa533driver/pkg/charrom"
)

// testedModel, testedHardwareRev, and testedFirmwareRev name the CFA533
// revisions Lookup accepts without a warning (§4.G).
const (
	testedModel       = "CFA533"
	testedHardwareRev = "h1.4"
	testedFirmwareRev = "u1v2"
)

// Device abstracts away per-model quirks behind one capability
// interface, resolved once at connection time and immutable thereafter
// (§3).
type Device interface {
	Model() string
	Lines() int
	Columns() int
	CharacterWidth() int
	CharacterHeight() int
	NTemperatureSensors() int
	Rom() *charrom.Rom
	EncodeContrast(contrast float64) ([]byte, error)
	EncodeBrightness(lcd float64, keypad *float64) ([]byte, error)
	ParseStatus(data []byte) (Status, error)
}

// DeviceLookupError reports a model with no registered capability
// table.
type DeviceLookupError struct {
	Model string
}

func (e *DeviceLookupError) Error() string {
	return fmt.Sprintf("crystalfontz: no device registered for model %q", e.Model)
}

// LookupOption configures Lookup's optional collaborators.
type LookupOption func(*lookupConfig)

type lookupConfig struct {
	logger *log.Logger
}

// WithLookupLogger installs the logger Lookup warns through on an
// untested hardware/firmware revision. The default discards the
// warning.
func WithLookupLogger(logger *log.Logger) LookupOption {
	return func(c *lookupConfig) { c.logger = logger }
}

// Lookup resolves a Device by model, hardware revision, and firmware
// revision (§4.G). A CFA533 hardware or firmware revision other than
// the tested one is accepted and returns the default Device, after
// logging a warning; an empty revision string is accepted without a
// warning. CFA633 revisions are not checked and never produce a
// warning. Only an unknown model fails.
func Lookup(model, hardwareRev, firmwareRev string, opts ...LookupOption) (Device, error) {
	cfg := lookupConfig{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch model {
	case testedModel:
		if hardwareRev != "" && hardwareRev != testedHardwareRev || firmwareRev != "" && firmwareRev != testedFirmwareRev {
			cfg.logger.Warn("untested device revision, using default capability table",
				"model", model, "hw", hardwareRev, "fw", firmwareRev, "tested_hw", testedHardwareRev, "tested_fw", testedFirmwareRev)
		}
		return NewCFA533(), nil
	case "CFA633":
		return NewCFA633(cfg.logger), nil
	default:
		return nil, &DeviceLookupError{Model: model}
	}
}
