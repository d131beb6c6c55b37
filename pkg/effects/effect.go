// Package effects implements the effects runtime (§4.J): cooperative,
// cancellable, tick-driven renderers layered on top of the command
// client. Effects hold only the small capability interface they need
// (send_data, clear_screen, the bound device), not a full client
// reference, so they can be driven by a fake in tests.
package effects

import (
	"context"
	"sync"
	"time"

	"github.com/lcdhost/cfa533driver/pkg/device"
)

// ClientProtocol is the capability surface an effect needs from a
// command client (§9 design notes).
type ClientProtocol interface {
	SendData(ctx context.Context, row, col int, data []byte) error
	ClearScreen(ctx context.Context) error
	Device() device.Device
}

// Effect is a time-driven sequence of commands producing a visual
// behaviour on the display.
type Effect interface {
	// Run drives the effect until ctx is cancelled, Stop is called, or
	// a render returns an error. It blocks until the effect finishes.
	Run(ctx context.Context) error
	// Stop requests a clean finish after the current render completes.
	Stop()
}

// runner is the start -> (render; wait)* loop shared by every concrete
// effect. Marquee adds one extra render+wait ahead of the loop for its
// initial pause; Screensaver enters the loop directly.
type runner struct {
	tick   time.Duration
	render func(ctx context.Context) error

	stopOnce sync.Once
	stopCh   chan struct{}
}

func (r *runner) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopCh:
			return nil
		default:
		}
		if err := r.renderAndWait(ctx, r.tick); err != nil {
			return err
		}
	}
}

// renderAndWait runs one render then sleeps out whatever remains of
// wait. A render slower than wait is not compensated beyond skipping
// the sleep entirely, mirroring the reference implementation's
// reset_timer/time_remaining pairing.
func (r *runner) renderAndWait(ctx context.Context, wait time.Duration) error {
	started := time.Now()
	if err := r.render(ctx); err != nil {
		return err
	}
	remaining := wait - time.Since(started)
	if remaining <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.stopCh:
		return nil
	case <-time.After(remaining):
		return nil
	}
}

func (r *runner) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}
