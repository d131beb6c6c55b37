package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// P6: KeyStates round-trips through Bytes/ParseKeyStates for any
// construction.
func TestRapidKeyStatesRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		states := KeyStates{
			CurrentlyPressed:      KeyMask(rapid.Byte().Draw(t, "current")),
			PressedSinceLastPoll:  KeyMask(rapid.Byte().Draw(t, "pressed")),
			ReleasedSinceLastPoll: KeyMask(rapid.Byte().Draw(t, "released")),
		}

		parsed, err := ParseKeyStates(states.Bytes())
		require.NoError(t, err)
		assert.Equal(t, states, parsed)
	})
}

func TestParseKeyStatesRejectsWrongLength(t *testing.T) {
	_, err := ParseKeyStates([]byte{1, 2})
	require.Error(t, err)
}

func TestKeyMaskHas(t *testing.T) {
	m := KeyMaskUp | KeyMaskExit
	assert.True(t, m.Has(KeyMaskUp))
	assert.True(t, m.Has(KeyMaskExit))
	assert.False(t, m.Has(KeyMaskDown))
}
