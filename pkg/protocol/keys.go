package protocol

// KeyActivity is a single key-press or key-release event as reported by
// the device's asynchronous key activity report (0x80).
type KeyActivity int

const (
	KeyUpPress KeyActivity = iota + 1
	KeyDownPress
	KeyLeftPress
	KeyRightPress
	KeyEnterPress
	KeyExitPress
	KeyUpRelease
	KeyDownRelease
	KeyLeftRelease
	KeyRightRelease
	KeyEnterRelease
	KeyExitRelease
)

var keyActivityNames = map[KeyActivity]string{
	KeyUpPress:      "KEY_UP_PRESS",
	KeyDownPress:    "KEY_DOWN_PRESS",
	KeyLeftPress:    "KEY_LEFT_PRESS",
	KeyRightPress:   "KEY_RIGHT_PRESS",
	KeyEnterPress:   "KEY_ENTER_PRESS",
	KeyExitPress:    "KEY_EXIT_PRESS",
	KeyUpRelease:    "KEY_UP_RELEASE",
	KeyDownRelease:  "KEY_DOWN_RELEASE",
	KeyLeftRelease:  "KEY_LEFT_RELEASE",
	KeyRightRelease: "KEY_RIGHT_RELEASE",
	KeyEnterRelease: "KEY_ENTER_RELEASE",
	KeyExitRelease:  "KEY_EXIT_RELEASE",
}

func (k KeyActivity) String() string {
	if name, ok := keyActivityNames[k]; ok {
		return name
	}
	return "KEY_ACTIVITY_UNKNOWN"
}

// KeyMask is a bitmap over the six physical keys, used both to configure
// which activity is reported (0x17) and to report key state (0x58).
type KeyMask byte

const (
	KeyMaskUp KeyMask = 1 << iota
	KeyMaskEnter
	KeyMaskExit
	KeyMaskLeft
	KeyMaskRight
	KeyMaskDown
)

// Has reports whether bit is set in the mask.
func (m KeyMask) Has(bit KeyMask) bool { return m&bit != 0 }

// KeyStates is the full key-state triple returned by a keypad poll
// (0x58): for each key, whether it is currently pressed, was pressed
// since the last poll, and was released since the last poll.
type KeyStates struct {
	CurrentlyPressed      KeyMask
	PressedSinceLastPoll  KeyMask
	ReleasedSinceLastPoll KeyMask
}

// Bytes packs the triple into the three-byte wire layout (P6).
func (k KeyStates) Bytes() []byte {
	return []byte{byte(k.CurrentlyPressed), byte(k.PressedSinceLastPoll), byte(k.ReleasedSinceLastPoll)}
}

// ParseKeyStates is the inverse of Bytes (P6).
func ParseKeyStates(data []byte) (KeyStates, error) {
	if len(data) != 3 {
		return KeyStates{}, &ResponseDecodeError{Code: 0x58, Message: "keypad poll expects 3 bytes"}
	}
	return KeyStates{
		CurrentlyPressed:      KeyMask(data[0]),
		PressedSinceLastPoll:  KeyMask(data[1]),
		ReleasedSinceLastPoll: KeyMask(data[2]),
	}, nil
}
