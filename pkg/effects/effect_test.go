package effects

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcdhost/cfa533driver/pkg/device"
)

// fakeClient is a minimal ClientProtocol double that records every
// SendData/ClearScreen call instead of touching a real device.
type fakeClient struct {
	dev device.Device

	mu         sync.Mutex
	sendCalls  []sendCall
	clearCalls int
	failAfter  int // if > 0, the failAfter-th SendData call (1-based) and every later one return failErr
	failErr    error
}

type sendCall struct {
	row, col int
	data     []byte
}

func (f *fakeClient) SendData(ctx context.Context, row, col int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls = append(f.sendCalls, sendCall{row: row, col: col, data: append([]byte(nil), data...)})
	if f.failAfter > 0 && len(f.sendCalls) >= f.failAfter {
		return f.failErr
	}
	return nil
}

func (f *fakeClient) ClearScreen(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	return nil
}

func (f *fakeClient) Device() device.Device { return f.dev }

func (f *fakeClient) sends() []sendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sendCall(nil), f.sendCalls...)
}

func TestMarqueeRejectsInvalidRow(t *testing.T) {
	fc := &fakeClient{dev: device.NewCFA533()}
	_, err := NewMarquee(fc, 99, []byte("hi"))
	require.Error(t, err)
}

func TestMarqueeScrollsEachTick(t *testing.T) {
	fc := &fakeClient{dev: device.NewCFA533()}
	m, err := NewMarquee(fc, 0, []byte("HI"), WithMarqueeTick(5*time.Millisecond), WithMarqueePause(time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err = m.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	sends := fc.sends()
	require.NotEmpty(t, sends)
	for _, s := range sends {
		assert.Equal(t, 0, s.row)
		assert.Equal(t, 0, s.col)
		assert.Len(t, s.data, 16)
	}
	// Successive renders shift the text, so at least two distinct
	// buffers should appear across several ticks.
	if len(sends) > 1 {
		assert.NotEqual(t, sends[0].data, sends[len(sends)-1].data)
	}
}

func TestMarqueeLineWraps(t *testing.T) {
	fc := &fakeClient{dev: device.NewCFA533()}
	m, err := NewMarquee(fc, 1, []byte("ABCD"))
	require.NoError(t, err)

	// columns=16, text padded to 16 bytes ("ABCD" + 12 spaces).
	m.shift = 0
	first := m.line()
	assert.Equal(t, "ABCD            ", string(first))

	m.shift = 1
	second := m.line()
	assert.Len(t, second, 16)
	assert.Equal(t, byte('B'), second[0])
}

func TestMarqueeStopEndsRunCleanly(t *testing.T) {
	fc := &fakeClient{dev: device.NewCFA533()}
	m, err := NewMarquee(fc, 0, []byte("HI"), WithMarqueeTick(5*time.Millisecond), WithMarqueePause(time.Millisecond))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()

	time.Sleep(15 * time.Millisecond)
	m.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestScreensaverRejectsOverlongText(t *testing.T) {
	fc := &fakeClient{dev: device.NewCFA533()}
	_, err := NewScreensaver(fc, make([]byte, 16))
	require.Error(t, err)
}

func TestScreensaverClearsAndPrintsWithinBounds(t *testing.T) {
	fc := &fakeClient{dev: device.NewCFA533()}
	s, err := NewScreensaver(fc, []byte("hi"), WithScreensaverTick(5*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	err = s.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	sends := fc.sends()
	require.NotEmpty(t, sends)
	for _, send := range sends {
		assert.GreaterOrEqual(t, send.row, 0)
		assert.Less(t, send.row, fc.dev.Lines())
		assert.GreaterOrEqual(t, send.col, 0)
		assert.LessOrEqual(t, send.col+len(send.data), fc.dev.Columns())
	}
	assert.Equal(t, len(sends), fc.clearCalls)
}

func TestEffectRenderFailurePropagates(t *testing.T) {
	fc := &fakeClient{dev: device.NewCFA533(), failAfter: 1, failErr: errors.New("write failed")}
	m, err := NewMarquee(fc, 0, []byte("HI"), WithMarqueeTick(5*time.Millisecond), WithMarqueePause(time.Millisecond))
	require.NoError(t, err)

	err = m.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, "write failed", err.Error())
}
