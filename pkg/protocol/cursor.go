package protocol

// CursorStyle selects the device's text-cursor appearance (0x0C).
type CursorStyle byte

const (
	CursorNone CursorStyle = iota
	CursorBlinkingBlock
	CursorUnderscore
	CursorBlinkingUnderscore
)
