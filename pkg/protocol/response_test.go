package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: ping round-trip.
func TestParseResponsePong(t *testing.T) {
	resp, err := ParseResponse(0x40, []byte("hello"))
	require.NoError(t, err)
	pong, ok := resp.(Pong)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), pong.Payload)
}

// S2: versions parse.
func TestParseResponseVersions(t *testing.T) {
	resp, err := ParseResponse(0x41, []byte("CFA533:h1.4, u1v2"))
	require.NoError(t, err)
	versions, ok := resp.(Versions)
	require.True(t, ok)
	assert.Equal(t, "CFA533", versions.Model)
	assert.Equal(t, "h1.4", versions.HardwareRev)
	assert.Equal(t, "u1v2", versions.FirmwareRev)
}

// S3: key activity report.
func TestParseResponseKeyActivity(t *testing.T) {
	resp, err := ParseResponse(0x80, []byte{0x04})
	require.NoError(t, err)
	report, ok := resp.(KeyActivityReport)
	require.True(t, ok)
	assert.Equal(t, KeyRightPress, report.Activity)
}

// S6: temperature decode.
func TestParseResponseTemperature(t *testing.T) {
	resp, err := ParseResponse(0x82, []byte{0x01, 0x01, 0x00, 0xff})
	require.NoError(t, err)
	report, ok := resp.(TemperatureReport)
	require.True(t, ok)
	assert.Equal(t, 1, report.SensorIndex)
	assert.Equal(t, 16.0, report.Celsius)
	assert.Equal(t, 60.8, report.Fahrenheit)
}

func TestParseResponseDeviceError(t *testing.T) {
	_, err := ParseResponse(0xC1, []byte("bad"))
	require.Error(t, err)
	var devErr *DeviceError
	require.ErrorAs(t, err, &devErr)
	assert.Equal(t, byte(0x01), devErr.Command)
}

func TestParseResponseUnknown(t *testing.T) {
	_, err := ParseResponse(0x2A, nil)
	require.Error(t, err)
	var unknownErr *UnknownResponseError
	require.ErrorAs(t, err, &unknownErr)
}

func TestParseResponseGenericAck(t *testing.T) {
	resp, err := ParseResponse(0x46, nil)
	require.NoError(t, err)
	ack, ok := resp.(Ack)
	require.True(t, ok)
	assert.Equal(t, byte(0x46), ack.Code)
}

func TestParseResponseBadTemperatureCRC(t *testing.T) {
	_, err := ParseResponse(0x82, []byte{0x01, 0x01, 0x00, 0x00})
	require.Error(t, err)
}
