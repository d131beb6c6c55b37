package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lcdhost/cfa533driver/pkg/protocol"
	"github.com/lcdhost/cfa533driver/pkg/wire"
)

// Transport is the byte-oriented full-duplex serial stream the engine
// drives (§6); it is assumed available from outside the core.
type Transport interface {
	io.ReadWriter
	io.Closer
}

// BaudSetter is implemented by transports that can switch to a new bit
// rate after the baud-rate command is acknowledged (§4.H).
// SerialTransport does so by closing and reopening its port.
type BaudSetter interface {
	SetBaud(baud int) error
}

// Event is what a subscriber queue carries: either a decoded response
// or the error that stands in for it (a decode failure or a
// device-signalled error for the awaited command).
type Event struct {
	Response protocol.Response
	Err      error
}

type subscription struct {
	ch chan Event
}

// Response classes that are always subscribed internally, plus the
// sentinel key for the RawResponse debugging hook (§4.H "Resync").
const (
	classKeyActivity = int(0x80)
	classTemperature = int(0x82)
	classRaw         = -1
)

// subscriberKey maps a response code onto the key a waiting command
// registered under. Both the ACK (0b01xxxxxx) and the device-error
// (0b11xxxxxx) ranges for the same command code route to the command's
// ACK code, so a DeviceError reaches the same queue the ACK would have.
func subscriberKey(code byte) int {
	switch code >> 6 {
	case 0b01:
		return int(code)
	case 0b11:
		return int(0x40 | (code & 0x3F))
	default:
		return int(code)
	}
}

// Engine is the protocol multiplexer (§4.H): it owns the transport,
// serialises outbound commands through a single send lock, and
// demultiplexes inbound packets to subscriber queues.
type Engine struct {
	transport Transport
	logger    *log.Logger

	sendMu sync.Mutex

	mu   sync.Mutex
	subs map[int][]*subscription

	closedCh  chan struct{}
	closeOnce sync.Once
	closeErr  error

	transportCloseOnce sync.Once
	transportCloseErr  error

	wg sync.WaitGroup

	defaultTimeout time.Duration
	defaultRetries int

	reportHandler ReportHandler
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithDefaultTimeout overrides the per-attempt command timeout
// (default 250ms, §6).
func WithDefaultTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.defaultTimeout = d }
}

// WithDefaultRetries overrides the default retry count (default 0,
// §6).
func WithDefaultRetries(n int) EngineOption {
	return func(e *Engine) { e.defaultRetries = n }
}

// WithReportHandler installs the application's report sink (§4.I).
func WithReportHandler(h ReportHandler) EngineOption {
	return func(e *Engine) { e.reportHandler = h }
}

// WithLogger installs a structured logger; the default discards all
// output.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine starts the engine's read loop and its two internal report
// tasks (key activity, temperature) over transport.
func NewEngine(transport Transport, opts ...EngineOption) *Engine {
	e := &Engine{
		transport:      transport,
		logger:         log.New(io.Discard),
		subs:           make(map[int][]*subscription),
		closedCh:       make(chan struct{}),
		defaultTimeout: 250 * time.Millisecond,
		defaultRetries: 0,
		reportHandler:  NopReportHandler{},
	}
	for _, opt := range opts {
		opt(e)
	}

	keyActivitySub := e.subscribe(classKeyActivity)
	temperatureSub := e.subscribe(classTemperature)

	e.wg.Add(3)
	go e.readLoop()
	go e.reportLoop(keyActivitySub, e.deliverKeyActivity)
	go e.reportLoop(temperatureSub, e.deliverTemperature)

	return e
}

func (e *Engine) subscribe(key int) *subscription {
	s := &subscription{ch: make(chan Event, 4)}
	e.mu.Lock()
	e.subs[key] = append(e.subs[key], s)
	e.mu.Unlock()
	return s
}

func (e *Engine) unsubscribe(key int, s *subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.subs[key]
	for i, x := range list {
		if x == s {
			e.subs[key] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
}

// SubscribeRaw registers a debugging hook that receives every parsed
// packet regardless of whether anything else is waiting for it (§4.H
// "Resync"). The returned cancel function must be called to stop
// receiving.
func (e *Engine) SubscribeRaw() (<-chan Event, func()) {
	s := e.subscribe(classRaw)
	return s.ch, func() { e.unsubscribe(classRaw, s) }
}

func (e *Engine) readLoop() {
	defer e.wg.Done()

	var buf []byte
	chunk := make([]byte, 256)

	for {
		select {
		case <-e.closedCh:
			return
		default:
		}

		n, err := e.transport.Read(chunk)
		if err != nil {
			e.fail(fmt.Errorf("crystalfontz: transport read failed: %w", err))
			return
		}
		if n == 0 {
			continue
		}
		buf = append(buf, chunk[:n]...)

		for {
			pkt, rest, ok := wire.Parse(buf)
			if !ok {
				buf = rest
				break
			}
			buf = rest
			e.dispatch(pkt)
		}
	}
}

func (e *Engine) dispatch(pkt wire.Packet) {
	resp, err := protocol.ParseResponse(pkt.Code, pkt.Payload)

	var unknownErr *protocol.UnknownResponseError
	if errors.As(err, &unknownErr) {
		e.logger.Error("unknown response code, closing", "code", fmt.Sprintf("0x%02x", pkt.Code))
		e.fail(err)
		return
	}

	key := subscriberKey(pkt.Code)

	e.mu.Lock()
	subs := append([]*subscription(nil), e.subs[key]...)
	rawSubs := append([]*subscription(nil), e.subs[classRaw]...)
	e.mu.Unlock()

	event := Event{Response: resp, Err: err}

	for _, s := range rawSubs {
		select {
		case s.ch <- event:
		default:
		}
	}

	// A response with no waiter is a stale reply to a cancelled or
	// already-timed-out command; it is silently dropped (§5
	// "Cancellation").
	for _, s := range subs {
		select {
		case s.ch <- event:
		default:
		}
	}
}

func (e *Engine) reportLoop(sub *subscription, deliver func(Event)) {
	defer e.wg.Done()
	for {
		select {
		case event := <-sub.ch:
			deliver(event)
		case <-e.closedCh:
			return
		}
	}
}

func (e *Engine) deliverKeyActivity(event Event) {
	if event.Err != nil {
		return
	}
	if report, ok := event.Response.(protocol.KeyActivityReport); ok {
		e.reportHandler.OnKeyActivity(report)
	}
}

func (e *Engine) deliverTemperature(event Event) {
	if event.Err != nil {
		return
	}
	if report, ok := event.Response.(protocol.TemperatureReport); ok {
		e.reportHandler.OnTemperature(report)
	}
}

// fail closes the engine because of an unrecoverable error: an
// unrecognised response with nowhere to route it, or a transport
// failure (§4.H "Failure escalation").
func (e *Engine) fail(err error) {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closeErr = err
		e.mu.Unlock()
		close(e.closedCh)
	})
	e.closeTransport()
}

// closeTransport closes the transport exactly once, regardless of
// whether it was fail or Close that first decided the engine is done,
// and reports the first close's result to every caller.
func (e *Engine) closeTransport() error {
	e.transportCloseOnce.Do(func() {
		e.transportCloseErr = e.transport.Close()
	})
	return e.transportCloseErr
}

// Close shuts the engine down in an orderly fashion: it is idempotent,
// cancels the two report tasks, awaits them, and leaves every
// subsequent operation failing with ErrClosed (§4.H, I4). The transport
// is closed before waiting on the tasks: readLoop only notices
// closedCh between reads, so closing the channel alone never
// interrupts a blocking Read on a real serial port or the test
// io.Pipe; closing the transport first unblocks it.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.closedCh)
	})
	closeErr := e.closeTransport()
	e.wg.Wait()
	return closeErr
}

func (e *Engine) closedError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closeErr != nil {
		return e.closeErr
	}
	return ErrClosed
}

// SendCommand runs the command protocol (§4.H): subscribe once, write,
// await with a per-attempt timeout, retry the same packet on timeout
// without resubscribing, and return the first non-stale reply.
func (e *Engine) SendCommand(ctx context.Context, cmd protocol.Command, timeout time.Duration, retries int) (protocol.Response, error) {
	select {
	case <-e.closedCh:
		return nil, e.closedError()
	default:
	}

	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	if retries < 0 {
		retries = e.defaultRetries
	}

	frame, err := wire.Serialize(cmd.Code, cmd.Payload)
	if err != nil {
		return nil, err
	}

	e.sendMu.Lock()
	defer e.sendMu.Unlock()

	key := subscriberKey(cmd.AckCode())
	sub := e.subscribe(key)
	defer e.unsubscribe(key, sub)

	attempts := 1 + retries
	for attempt := 0; attempt < attempts; attempt++ {
		if _, err := e.transport.Write(frame); err != nil {
			e.fail(fmt.Errorf("crystalfontz: transport write failed: %w", err))
			return nil, e.closedError()
		}

		select {
		case event := <-sub.ch:
			if event.Err != nil {
				return nil, event.Err
			}
			return event.Response, nil
		case <-time.After(timeout):
			continue
		case <-e.closedCh:
			return nil, e.closedError()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, &TimeoutError{Attempts: attempts}
}
