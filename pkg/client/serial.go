package client

import (
	"fmt"

	"github.com/tarm/serial"
)

// SerialTransport adapts *serial.Port to Transport and BaudSetter. The
// underlying library has no in-place baud-rate change, so SetBaud
// closes and reopens the port (§4.H "baud-rate change").
type SerialTransport struct {
	port *serial.Port
	name string
}

// OpenSerial opens the named device 8N1, no flow control, at the given
// baud rate (§6).
func OpenSerial(name string, baud int) (*SerialTransport, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:     name,
		Baud:     baud,
		Size:     8,
		Parity:   serial.ParityNone,
		StopBits: serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("crystalfontz: failed to open serial port %s: %w", name, err)
	}
	return &SerialTransport{port: port, name: name}, nil
}

func (t *SerialTransport) Read(p []byte) (int, error)  { return t.port.Read(p) }
func (t *SerialTransport) Write(p []byte) (int, error) { return t.port.Write(p) }
func (t *SerialTransport) Close() error                { return t.port.Close() }

// SetBaud reopens the port at the new baud rate in place.
func (t *SerialTransport) SetBaud(baud int) error {
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("crystalfontz: failed to close port before baud change: %w", err)
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:     t.name,
		Baud:     baud,
		Size:     8,
		Parity:   serial.ParityNone,
		StopBits: serial.Stop1,
	})
	if err != nil {
		return fmt.Errorf("crystalfontz: failed to reopen port at %d baud: %w", baud, err)
	}
	t.port = port
	return nil
}
