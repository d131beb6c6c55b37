package protocol

import "fmt"

// Command is a validated, serialisable outbound request (§3, §4.E). Code
// is the command byte; Payload is already shaped to the device's wire
// format. AckCode is the response code this command expects back.
type Command struct {
	Code    byte
	Payload []byte
}

// AckCode returns the expected acknowledgement code for the command,
// which is the command code with bit 0x40 set (§3).
func (c Command) AckCode() byte { return 0x40 | c.Code }

// Ping (0x00) asks the device to echo an arbitrary payload of at most
// 16 bytes.
func Ping(payload []byte) (Command, error) {
	if len(payload) > 16 {
		return Command{}, &InputValidationError{Field: "payload", Message: "ping payload must be at most 16 bytes"}
	}
	return Command{Code: 0x00, Payload: payload}, nil
}

// GetVersions (0x01) requests the model and revision string.
func GetVersions() Command { return Command{Code: 0x01} }

// WriteUserFlash (0x02) writes the full 16-byte user flash block.
func WriteUserFlash(data [16]byte) Command {
	return Command{Code: 0x02, Payload: data[:]}
}

// ReadUserFlash (0x03) reads back the 16-byte user flash block.
func ReadUserFlash() Command { return Command{Code: 0x03} }

// StoreBootState (0x04) persists the device's current settings as its
// power-on defaults.
func StoreBootState() Command { return Command{Code: 0x04} }

// PowerAction selects one of the three magic byte sequences accepted by
// the power-action command.
type PowerAction int

const (
	PowerActionReboot PowerAction = iota
	PowerActionResetHost
	PowerActionShutdownHost
)

var powerActionMagic = map[PowerAction][3]byte{
	PowerActionReboot:       {8, 18, 99},
	PowerActionResetHost:    {12, 28, 97},
	PowerActionShutdownHost: {3, 11, 95},
}

// PowerActionCommand (0x05) triggers a reboot, host reset, or host
// shutdown, identified by a fixed three-byte magic sequence.
func PowerActionCommand(action PowerAction) (Command, error) {
	magic, ok := powerActionMagic[action]
	if !ok {
		return Command{}, &InputValidationError{Field: "action", Message: "unknown power action"}
	}
	return Command{Code: 0x05, Payload: magic[:]}, nil
}

// ClearScreen (0x06) clears the display.
func ClearScreen() Command { return Command{Code: 0x06} }

func padLine(text []byte, columns int) ([]byte, error) {
	if len(text) > columns {
		return nil, &InputValidationError{Field: "text", Message: fmt.Sprintf("line exceeds %d columns", columns)}
	}
	out := make([]byte, columns)
	copy(out, text)
	for i := len(text); i < columns; i++ {
		out[i] = ' '
	}
	return out, nil
}

// SetLine1 (0x07) is the deprecated single-line write for row 0,
// right-padded with spaces to columns.
func SetLine1(text []byte, columns int) (Command, error) {
	payload, err := padLine(text, columns)
	if err != nil {
		return Command{}, err
	}
	return Command{Code: 0x07, Payload: payload}, nil
}

// SetLine2 (0x08) is the deprecated single-line write for row 1.
func SetLine2(text []byte, columns int) (Command, error) {
	payload, err := padLine(text, columns)
	if err != nil {
		return Command{}, err
	}
	return Command{Code: 0x08, Payload: payload}, nil
}

// SetSpecialCharacterData (0x09) loads an 8-byte CGRAM glyph bitmap into
// one of the 8 special-character slots.
func SetSpecialCharacterData(index byte, bitmap []byte) (Command, error) {
	if index > 7 {
		return Command{}, &InputValidationError{Field: "index", Message: "special character index must be 0..7"}
	}
	if len(bitmap) != 8 {
		return Command{}, &InputValidationError{Field: "bitmap", Message: "special character bitmap must be exactly 8 bytes"}
	}
	payload := make([]byte, 0, 9)
	payload = append(payload, index)
	payload = append(payload, bitmap...)
	return Command{Code: 0x09, Payload: payload}, nil
}

// ReadLCDMemory (0x0A) reads 8 bytes of DDRAM/CGRAM starting at address.
func ReadLCDMemory(address byte) (Command, error) {
	if address == 0 || address == 255 {
		return Command{}, &InputValidationError{Field: "address", Message: "address must satisfy 0 < address < 255"}
	}
	return Command{Code: 0x0A, Payload: []byte{address}}, nil
}

// SetCursorPosition (0x0B) moves the text cursor, bounds-checked against
// the device's geometry.
func SetCursorPosition(col, row, columns, lines int) (Command, error) {
	if col < 0 || col >= columns {
		return Command{}, &InputValidationError{Field: "col", Message: fmt.Sprintf("column %d out of range 0..%d", col, columns-1)}
	}
	if row < 0 || row >= lines {
		return Command{}, &InputValidationError{Field: "row", Message: fmt.Sprintf("row %d out of range 0..%d", row, lines-1)}
	}
	return Command{Code: 0x0B, Payload: []byte{byte(col), byte(row)}}, nil
}

// SetCursorStyle (0x0C) selects the cursor appearance.
func SetCursorStyle(style CursorStyle) Command {
	return Command{Code: 0x0C, Payload: []byte{byte(style)}}
}

// SetContrast (0x0D) sends a device-encoded contrast payload; see the
// device capability table for the per-model encoding.
func SetContrast(encoded []byte) Command {
	return Command{Code: 0x0D, Payload: encoded}
}

// SetBacklight (0x0E) sends a device-encoded brightness payload; see the
// device capability table for the per-model encoding.
func SetBacklight(encoded []byte) Command {
	return Command{Code: 0x0E, Payload: encoded}
}

// ReadDOWInfo (0x12) reads the 8-byte One-Wire ROM ID at the given bus
// index.
func ReadDOWInfo(index byte) Command {
	return Command{Code: 0x12, Payload: []byte{index}}
}

// SetupTempReporting (0x13) enables or disables automatic temperature
// reports per sensor, via PackTemperatureSettings's bitmap.
func SetupTempReporting(bitmap []byte) Command {
	return Command{Code: 0x13, Payload: bitmap}
}

// DOWTransaction (0x14) issues a raw One-Wire bus read/write.
func DOWTransaction(index byte, bytesToRead int, dataToWrite []byte) (Command, error) {
	if bytesToRead < 0 || bytesToRead > 14 {
		return Command{}, &InputValidationError{Field: "bytesToRead", Message: "must be 0..14"}
	}
	if len(dataToWrite) > 15 {
		return Command{}, &InputValidationError{Field: "dataToWrite", Message: "must be at most 15 bytes"}
	}
	payload := make([]byte, 0, 2+len(dataToWrite))
	payload = append(payload, index, byte(bytesToRead))
	payload = append(payload, dataToWrite...)
	return Command{Code: 0x14, Payload: payload}, nil
}

// TempDisplayItem configures one live temperature-display slot (§4.E).
type TempDisplayItem struct {
	SensorIndex byte
	NDigits     byte // 3 or 5
	Column      byte
	Row         byte
	Units       byte // 0 = Celsius, 1 = Fahrenheit
}

// SetupLiveTempDisplay (0x15) assigns or clears a live temperature
// display slot. A nil item clears the slot: the slot index followed by a
// single zero byte.
func SetupLiveTempDisplay(slot byte, item *TempDisplayItem) (Command, error) {
	if item == nil {
		return Command{Code: 0x15, Payload: []byte{slot, 0}}, nil
	}
	if item.NDigits != 3 && item.NDigits != 5 {
		return Command{}, &InputValidationError{Field: "NDigits", Message: "must be 3 or 5"}
	}
	payload := []byte{slot, item.SensorIndex, item.NDigits, item.Column, item.Row, item.Units}
	return Command{Code: 0x15, Payload: payload}, nil
}

// LCDControllerCommand (0x16) forwards a raw command byte to the HD44780
// controller on the given register (0 = instruction, 1 = data).
func LCDControllerCommand(register, data byte) (Command, error) {
	if register > 1 {
		return Command{}, &InputValidationError{Field: "register", Message: "must be 0 or 1"}
	}
	return Command{Code: 0x16, Payload: []byte{register, data}}, nil
}

// ConfigureKeyReporting (0x17) selects which key transitions generate
// asynchronous key activity reports.
func ConfigureKeyReporting(whenPressed, whenReleased KeyMask) Command {
	return Command{Code: 0x17, Payload: []byte{byte(whenPressed), byte(whenReleased)}}
}

// PollKeypad (0x18) requests the current key-state triple.
func PollKeypad() Command { return Command{Code: 0x18} }

// SetAtxPowerSwitch (0x1C) configures the ATX power-switch functions.
func SetAtxPowerSwitch(settings AtxSettings) (Command, error) {
	payload, err := settings.Bytes()
	if err != nil {
		return Command{}, err
	}
	return Command{Code: 0x1C, Payload: payload}, nil
}

// ConfigureWatchdog (0x1D) sets the host watchdog timeout in seconds;
// 0 disables it.
func ConfigureWatchdog(seconds byte) Command {
	return Command{Code: 0x1D, Payload: []byte{seconds}}
}

// ReadStatus (0x1E) requests the device's status block; the payload
// shape is device-specific and is parsed by the device capability
// layer.
func ReadStatus() Command { return Command{Code: 0x1E} }

// SendData (0x1F) writes text at a given row/column, bounds-checked
// against the device's geometry.
func SendData(row, col int, data []byte, columns, lines int) (Command, error) {
	if row < 0 || row >= lines {
		return Command{}, &InputValidationError{Field: "row", Message: fmt.Sprintf("row %d out of range 0..%d", row, lines-1)}
	}
	if col < 0 || col >= columns {
		return Command{}, &InputValidationError{Field: "col", Message: fmt.Sprintf("col %d out of range 0..%d", col, columns-1)}
	}
	if len(data) > columns-col {
		return Command{}, &InputValidationError{Field: "data", Message: "text exceeds remaining columns on the row"}
	}
	payload := make([]byte, 0, 2+len(data))
	payload = append(payload, byte(col), byte(row))
	payload = append(payload, data...)
	return Command{Code: 0x1F, Payload: payload}, nil
}

// BaudRate selects the serial link's bit rate for "set baud rate".
type BaudRate byte

const (
	Baud19200  BaudRate = 0
	Baud115200 BaudRate = 1
)

// SetBaudRate (0x21) switches the link speed; the caller must
// reconfigure the underlying transport after the ACK (§4.H).
func SetBaudRate(rate BaudRate) Command {
	return Command{Code: 0x21, Payload: []byte{byte(rate)}}
}

// ConfigureGpio (0x22) sets a GPIO pin's output state and, optionally,
// its drive-mode settings.
func ConfigureGpio(index, outputState byte, settings *GpioSettings) (Command, error) {
	payload := []byte{index, outputState}
	if settings != nil {
		payload = append(payload, settings.Byte())
	}
	return Command{Code: 0x22, Payload: payload}, nil
}

// ReadGpio (0x23) reads a GPIO pin's current output state and drive
// settings.
func ReadGpio(index byte) Command {
	return Command{Code: 0x23, Payload: []byte{index}}
}
