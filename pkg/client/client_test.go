package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcdhost/cfa533driver/pkg/device"
	"github.com/lcdhost/cfa533driver/pkg/protocol"
)

func newTestClient(t *testing.T, pt *pipeTransport) *Client {
	t.Helper()
	engine := NewEngine(pt)
	c := NewClient(engine, device.NewCFA533())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientPing(t *testing.T) {
	pt := newPipeTransport()
	c := newTestClient(t, pt)

	go func() {
		pkt, err := pt.deviceRead()
		require.NoError(t, err)
		_ = pt.deviceReply(0x40, pkt.Payload)
	}()

	echoed, err := c.Ping(context.Background(), []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), echoed)
}

func TestClientPingRejectsOverlongPayload(t *testing.T) {
	pt := newPipeTransport()
	c := newTestClient(t, pt)

	_, err := c.Ping(context.Background(), make([]byte, 17))
	require.Error(t, err)
}

func TestClientVersions(t *testing.T) {
	pt := newPipeTransport()
	c := newTestClient(t, pt)

	go func() {
		_, err := pt.deviceRead()
		require.NoError(t, err)
		_ = pt.deviceReply(0x41, []byte("CFA533:h1.0, f2.0"))
	}()

	v, err := c.Versions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CFA533", v.Model)
	assert.Equal(t, "h1.0", v.HardwareRev)
	assert.Equal(t, "f2.0", v.FirmwareRev)
}

func TestClientMalformedResponseIsDecodeError(t *testing.T) {
	pt := newPipeTransport()
	c := newTestClient(t, pt)

	go func() {
		_, err := pt.deviceRead()
		require.NoError(t, err)
		// Wrong length for a DOW info payload: ParseResponse itself
		// rejects it before sendTyped ever sees a response value.
		_ = pt.deviceReply(0x52, []byte{0x00})
	}()

	_, err := c.ReadDOWInfo(context.Background(), 0)
	require.Error(t, err)
	var decodeErr *protocol.ResponseDecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestClientSetContrastUsesDeviceEncoding(t *testing.T) {
	pt := newPipeTransport()
	c := newTestClient(t, pt)

	var gotPayload []byte
	done := make(chan struct{})
	go func() {
		defer close(done)
		pkt, err := pt.deviceRead()
		require.NoError(t, err)
		gotPayload = pkt.Payload
		_ = pt.deviceReply(0x4D, nil)
	}()

	require.NoError(t, c.SetContrast(context.Background(), 0.5))
	<-done
	assert.Equal(t, []byte{25, 127}, gotPayload)
}

func TestClientReadStatusDecodesViaDevice(t *testing.T) {
	pt := newPipeTransport()
	c := newTestClient(t, pt)

	status := make([]byte, 15)
	status[9] = 25
	status[10] = 50

	go func() {
		_, err := pt.deviceRead()
		require.NoError(t, err)
		_ = pt.deviceReply(0x5E, status)
	}()

	got, err := c.ReadStatus(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got.Contrast, 0.001)
	assert.InDelta(t, 0.5, got.Brightness, 0.001)
}

// fakeBaudTransport layers BaudSetter on top of a pipeTransport so
// SetBaudRate's post-ack reconfiguration path can be exercised.
type fakeBaudTransport struct {
	*pipeTransport
	setBaudCalls []int
	setBaudErr   error
}

func (f *fakeBaudTransport) SetBaud(baud int) error {
	f.setBaudCalls = append(f.setBaudCalls, baud)
	return f.setBaudErr
}

func TestClientSetBaudRateReconfiguresTransport(t *testing.T) {
	inner := newPipeTransport()
	transport := &fakeBaudTransport{pipeTransport: inner}
	engine := NewEngine(transport)
	c := NewClient(engine, device.NewCFA533())
	defer c.Close()

	go func() {
		_, err := inner.deviceRead()
		require.NoError(t, err)
		_ = inner.deviceReply(0x61, nil)
	}()

	require.NoError(t, c.SetBaudRate(context.Background(), 1))
	require.Len(t, transport.setBaudCalls, 1)
	assert.Equal(t, 115200, transport.setBaudCalls[0])
}

func TestClientContextCancellationPropagates(t *testing.T) {
	pt := newPipeTransport()
	c := newTestClient(t, pt)

	go func() {
		// Absorb the write but never reply.
		_, _ = pt.deviceRead()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := c.Ping(ctx, nil, WithTimeout(time.Second))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
