package client

import (
	"context"
	"fmt"
	"time"

	"github.com/lcdhost/cfa533driver/pkg/charrom"
	"github.com/lcdhost/cfa533driver/pkg/device"
	"github.com/lcdhost/cfa533driver/pkg/protocol"
)

// options carries per-call overrides; the zero value means "use the
// engine's defaults" (§6).
type options struct {
	timeout time.Duration
	retries int
}

// Option overrides a Client method's timeout or retry count for one
// call (§6).
type Option func(*options)

// WithTimeout overrides the per-attempt timeout for one call.
func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithRetries overrides the retry count for one call.
func WithRetries(n int) Option { return func(o *options) { o.retries = n } }

func buildOptions(opts []Option) options {
	o := options{retries: -1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Client is the application-facing façade (§6): typed methods mirroring
// every command in §4.E, each accepting optional timeout/retry
// overrides.
type Client struct {
	engine *Engine
	device device.Device
}

// NewClient binds an Engine to a resolved Device.
func NewClient(engine *Engine, dev device.Device) *Client {
	return &Client{engine: engine, device: dev}
}

// Device returns the capability record this client was bound to.
func (c *Client) Device() device.Device { return c.device }

// Close shuts the underlying engine down (§4.H).
func (c *Client) Close() error { return c.engine.Close() }

func (c *Client) sendAck(ctx context.Context, cmd protocol.Command, o options) error {
	_, err := c.engine.SendCommand(ctx, cmd, o.timeout, o.retries)
	return err
}

func sendTyped[T any](ctx context.Context, c *Client, cmd protocol.Command, o options, extract func(protocol.Response) (T, bool)) (T, error) {
	var zero T
	resp, err := c.engine.SendCommand(ctx, cmd, o.timeout, o.retries)
	if err != nil {
		return zero, err
	}
	val, ok := extract(resp)
	if !ok {
		return zero, &protocol.ResponseDecodeError{
			Code:    cmd.AckCode(),
			Message: fmt.Sprintf("unexpected response type %T", resp),
		}
	}
	return val, nil
}

// Ping (0x00) asks the device to echo payload.
func (c *Client) Ping(ctx context.Context, payload []byte, opts ...Option) ([]byte, error) {
	cmd, err := protocol.Ping(payload)
	if err != nil {
		return nil, err
	}
	pong, err := sendTyped(ctx, c, cmd, buildOptions(opts), func(r protocol.Response) (protocol.Pong, bool) {
		p, ok := r.(protocol.Pong)
		return p, ok
	})
	return pong.Payload, err
}

// Versions (0x01) reads the model and revision strings.
func (c *Client) Versions(ctx context.Context, opts ...Option) (protocol.Versions, error) {
	return sendTyped(ctx, c, protocol.GetVersions(), buildOptions(opts), func(r protocol.Response) (protocol.Versions, bool) {
		v, ok := r.(protocol.Versions)
		return v, ok
	})
}

// WriteUserFlash (0x02) writes the 16-byte user flash block.
func (c *Client) WriteUserFlash(ctx context.Context, data [16]byte, opts ...Option) error {
	return c.sendAck(ctx, protocol.WriteUserFlash(data), buildOptions(opts))
}

// ReadUserFlash (0x03) reads the 16-byte user flash block.
func (c *Client) ReadUserFlash(ctx context.Context, opts ...Option) ([16]byte, error) {
	flash, err := sendTyped(ctx, c, protocol.ReadUserFlash(), buildOptions(opts), func(r protocol.Response) (protocol.UserFlash, bool) {
		f, ok := r.(protocol.UserFlash)
		return f, ok
	})
	return flash.Data, err
}

// StoreBootState (0x04) persists the current settings as power-on
// defaults.
func (c *Client) StoreBootState(ctx context.Context, opts ...Option) error {
	return c.sendAck(ctx, protocol.StoreBootState(), buildOptions(opts))
}

// PowerAction (0x05) triggers a reboot, host reset, or host shutdown.
func (c *Client) PowerAction(ctx context.Context, action protocol.PowerAction, opts ...Option) error {
	cmd, err := protocol.PowerActionCommand(action)
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// ClearScreen (0x06) clears the display.
func (c *Client) ClearScreen(ctx context.Context, opts ...Option) error {
	return c.sendAck(ctx, protocol.ClearScreen(), buildOptions(opts))
}

// SetLine1 (0x07, deprecated) writes row 0.
func (c *Client) SetLine1(ctx context.Context, text []byte, opts ...Option) error {
	cmd, err := protocol.SetLine1(text, c.device.Columns())
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// SetLine2 (0x08, deprecated) writes row 1.
func (c *Client) SetLine2(ctx context.Context, text []byte, opts ...Option) error {
	cmd, err := protocol.SetLine2(text, c.device.Columns())
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// SetSpecialCharacterData (0x09) loads a CGRAM glyph into slot index,
// validating its shape against the bound device first.
func (c *Client) SetSpecialCharacterData(ctx context.Context, index byte, bitmap *charrom.Special, opts ...Option) error {
	if err := bitmap.Validate(c.device.CharacterHeight(), c.device.CharacterWidth()); err != nil {
		return err
	}
	cmd, err := protocol.SetSpecialCharacterData(index, bitmap.Bytes())
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// ReadLCDMemory (0x0A) reads 8 bytes starting at address.
func (c *Client) ReadLCDMemory(ctx context.Context, address byte, opts ...Option) (protocol.LCDMemory, error) {
	cmd, err := protocol.ReadLCDMemory(address)
	if err != nil {
		return protocol.LCDMemory{}, err
	}
	return sendTyped(ctx, c, cmd, buildOptions(opts), func(r protocol.Response) (protocol.LCDMemory, bool) {
		m, ok := r.(protocol.LCDMemory)
		return m, ok
	})
}

// SetCursorPosition (0x0B) moves the text cursor.
func (c *Client) SetCursorPosition(ctx context.Context, col, row int, opts ...Option) error {
	cmd, err := protocol.SetCursorPosition(col, row, c.device.Columns(), c.device.Lines())
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// SetCursorStyle (0x0C) selects the cursor appearance.
func (c *Client) SetCursorStyle(ctx context.Context, style protocol.CursorStyle, opts ...Option) error {
	return c.sendAck(ctx, protocol.SetCursorStyle(style), buildOptions(opts))
}

// SetContrast (0x0D) encodes contrast for the bound device and sends
// it.
func (c *Client) SetContrast(ctx context.Context, contrast float64, opts ...Option) error {
	encoded, err := c.device.EncodeContrast(contrast)
	if err != nil {
		return err
	}
	return c.sendAck(ctx, protocol.SetContrast(encoded), buildOptions(opts))
}

// SetBacklight (0x0E) encodes LCD (and optional keypad) brightness for
// the bound device and sends it.
func (c *Client) SetBacklight(ctx context.Context, lcd float64, keypad *float64, opts ...Option) error {
	encoded, err := c.device.EncodeBrightness(lcd, keypad)
	if err != nil {
		return err
	}
	return c.sendAck(ctx, protocol.SetBacklight(encoded), buildOptions(opts))
}

// ReadDOWInfo (0x12) reads the One-Wire ROM ID at a bus index.
func (c *Client) ReadDOWInfo(ctx context.Context, index byte, opts ...Option) (protocol.DOWInfo, error) {
	return sendTyped(ctx, c, protocol.ReadDOWInfo(index), buildOptions(opts), func(r protocol.Response) (protocol.DOWInfo, bool) {
		d, ok := r.(protocol.DOWInfo)
		return d, ok
	})
}

// SetupTempReporting (0x13) enables automatic temperature reports for
// the given 1-based sensor indices.
func (c *Client) SetupTempReporting(ctx context.Context, enabledSensors []int, opts ...Option) error {
	bitmap, err := protocol.PackTemperatureSettings(enabledSensors, c.device.NTemperatureSensors())
	if err != nil {
		return err
	}
	return c.sendAck(ctx, protocol.SetupTempReporting(bitmap), buildOptions(opts))
}

// DOWTransaction (0x14) issues a raw One-Wire bus read/write.
func (c *Client) DOWTransaction(ctx context.Context, index byte, bytesToRead int, dataToWrite []byte, opts ...Option) (protocol.DOWTransactionResult, error) {
	cmd, err := protocol.DOWTransaction(index, bytesToRead, dataToWrite)
	if err != nil {
		return protocol.DOWTransactionResult{}, err
	}
	return sendTyped(ctx, c, cmd, buildOptions(opts), func(r protocol.Response) (protocol.DOWTransactionResult, bool) {
		res, ok := r.(protocol.DOWTransactionResult)
		return res, ok
	})
}

// SetupLiveTempDisplay (0x15) assigns or, with a nil item, clears a
// live temperature display slot.
func (c *Client) SetupLiveTempDisplay(ctx context.Context, slot byte, item *protocol.TempDisplayItem, opts ...Option) error {
	cmd, err := protocol.SetupLiveTempDisplay(slot, item)
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// LCDControllerCommand (0x16) forwards a raw command byte to the
// HD44780 controller.
func (c *Client) LCDControllerCommand(ctx context.Context, register, data byte, opts ...Option) error {
	cmd, err := protocol.LCDControllerCommand(register, data)
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// ConfigureKeyReporting (0x17) selects which key transitions generate
// asynchronous reports.
func (c *Client) ConfigureKeyReporting(ctx context.Context, whenPressed, whenReleased protocol.KeyMask, opts ...Option) error {
	return c.sendAck(ctx, protocol.ConfigureKeyReporting(whenPressed, whenReleased), buildOptions(opts))
}

// PollKeypad (0x18) requests the current key-state triple.
func (c *Client) PollKeypad(ctx context.Context, opts ...Option) (protocol.KeyStates, error) {
	poll, err := sendTyped(ctx, c, protocol.PollKeypad(), buildOptions(opts), func(r protocol.Response) (protocol.KeypadPoll, bool) {
		p, ok := r.(protocol.KeypadPoll)
		return p, ok
	})
	return poll.States, err
}

// SetAtxPowerSwitch (0x1C) configures the ATX power-switch functions.
func (c *Client) SetAtxPowerSwitch(ctx context.Context, settings protocol.AtxSettings, opts ...Option) error {
	cmd, err := protocol.SetAtxPowerSwitch(settings)
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// ConfigureWatchdog (0x1D) sets the host watchdog timeout in seconds;
// 0 disables it.
func (c *Client) ConfigureWatchdog(ctx context.Context, seconds byte, opts ...Option) error {
	return c.sendAck(ctx, protocol.ConfigureWatchdog(seconds), buildOptions(opts))
}

// ReadStatus (0x1E) reads and decodes the device's status block.
func (c *Client) ReadStatus(ctx context.Context, opts ...Option) (device.Status, error) {
	raw, err := sendTyped(ctx, c, protocol.ReadStatus(), buildOptions(opts), func(r protocol.Response) (protocol.RawStatus, bool) {
		s, ok := r.(protocol.RawStatus)
		return s, ok
	})
	if err != nil {
		return device.Status{}, err
	}
	return c.device.ParseStatus(raw.Data)
}

// SendData (0x1F) writes text at a given row/column.
func (c *Client) SendData(ctx context.Context, row, col int, data []byte, opts ...Option) error {
	cmd, err := protocol.SendData(row, col, data, c.device.Columns(), c.device.Lines())
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// SetBaudRate (0x21) switches the link speed: the command completes
// over the wire like any other, then the underlying transport is
// reconfigured to the new rate. A failure to reconfigure is fatal and
// closes the engine (§4.H).
func (c *Client) SetBaudRate(ctx context.Context, rate protocol.BaudRate, opts ...Option) error {
	if err := c.sendAck(ctx, protocol.SetBaudRate(rate), buildOptions(opts)); err != nil {
		return err
	}

	setter, ok := c.engine.transport.(BaudSetter)
	if !ok {
		return nil
	}
	baud := 19200
	if rate == protocol.Baud115200 {
		baud = 115200
	}
	if err := setter.SetBaud(baud); err != nil {
		wrapped := fmt.Errorf("crystalfontz: failed to reconfigure baud rate after ack: %w", err)
		c.engine.fail(wrapped)
		return wrapped
	}
	return nil
}

// ConfigureGpio (0x22) sets a GPIO pin's output state and, optionally,
// its drive-mode settings.
func (c *Client) ConfigureGpio(ctx context.Context, index, outputState byte, settings *protocol.GpioSettings, opts ...Option) error {
	cmd, err := protocol.ConfigureGpio(index, outputState, settings)
	if err != nil {
		return err
	}
	return c.sendAck(ctx, cmd, buildOptions(opts))
}

// ReadGpio (0x23) reads a GPIO pin's output state and drive settings.
func (c *Client) ReadGpio(ctx context.Context, index byte, opts ...Option) (protocol.GpioState, error) {
	return sendTyped(ctx, c, protocol.ReadGpio(index), buildOptions(opts), func(r protocol.Response) (protocol.GpioState, bool) {
		g, ok := r.(protocol.GpioState)
		return g, ok
	})
}
