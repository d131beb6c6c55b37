package device

import (
	"fmt"

	"github.com/lcdhost/cfa533driver/pkg/protocol"
)

// rawStatus is the byte-for-byte layout of the 15-byte status response
// (0x5E), common to both models (§4.G).
type rawStatus struct {
	sensorsEnabled  [4]byte
	keyPresses      byte
	keyReleases     byte
	atxByte         byte
	watchdogCounter byte
	contrastAdjust  byte
	brightness      byte
	senseOnFloppy   byte
	cfa633Contrast  byte
	lcdBrightness   byte
}

func parseRawStatus(data []byte) (rawStatus, error) {
	if len(data) != 15 {
		return rawStatus{}, fmt.Errorf("crystalfontz: status response expects 15 bytes, got %d", len(data))
	}
	var r rawStatus
	// data[0] and data[12] are reserved.
	copy(r.sensorsEnabled[:], data[1:5])
	r.keyPresses = data[5]
	r.keyReleases = data[6]
	r.atxByte = data[7]
	r.watchdogCounter = data[8]
	r.contrastAdjust = data[9]
	r.brightness = data[10]
	r.senseOnFloppy = data[11]
	r.cfa633Contrast = data[13]
	r.lcdBrightness = data[14]
	return r, nil
}

// keyStates reconstructs the poll-keypad triple: only the
// pressed/released-since-last-poll fields are carried in the status
// block, prefixed with an implicit zero currently-pressed byte (§4.G).
func (r rawStatus) keyStates() protocol.KeyStates {
	return protocol.KeyStates{
		CurrentlyPressed:      0,
		PressedSinceLastPoll:  protocol.KeyMask(r.keyPresses),
		ReleasedSinceLastPoll: protocol.KeyMask(r.keyReleases),
	}
}

// Status is the denormalised status response: device-encoded bytes
// translated back into their logical types (§4.G).
type Status struct {
	SensorsEnabled   []int
	KeyStates        protocol.KeyStates
	Atx              protocol.AtxSettings
	WatchdogCounter  int
	Contrast         float64
	Brightness       float64
	AtxSenseOnFloppy bool
}
