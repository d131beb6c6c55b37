package wire

import "fmt"

// MaxDataLen is the largest payload a single packet may carry (§3).
const MaxDataLen = 18

// MaxFrameLen is the largest possible wire frame: 1 code + 1 length +
// MaxDataLen payload + 2 CRC bytes.
const MaxFrameLen = 2 + MaxDataLen + 2

// PayloadTooLargeError is returned by Serialize when the caller's payload
// exceeds MaxDataLen.
type PayloadTooLargeError struct {
	Len int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload length %d exceeds maximum of %d bytes", e.Len, MaxDataLen)
}
