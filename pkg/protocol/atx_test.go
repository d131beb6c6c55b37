package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtxSettingsBytesWithPulse(t *testing.T) {
	settings := AtxSettings{
		Functions:         []AtxFunction{AtxResetInvert, AtxKeypadReset},
		AutoPolarity:      true,
		PowerPulseSeconds: 0.5,
	}
	out, err := settings.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02 | 0x20 | 0x01, 16}, out)
}

func TestAtxSettingsNoPulseByte(t *testing.T) {
	settings := AtxSettings{AutoPolarity: false}
	out, err := settings.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, out)
}

func TestAtxSettingsRejectsTooShortPulse(t *testing.T) {
	settings := AtxSettings{PowerPulseSeconds: 0.001}
	_, err := settings.Bytes()
	require.Error(t, err)
}

func TestAtxSettingsClampsPulseTo255(t *testing.T) {
	settings := AtxSettings{PowerPulseSeconds: 100}
	out, err := settings.Bytes()
	require.NoError(t, err)
	assert.Equal(t, byte(255), out[1])
}
