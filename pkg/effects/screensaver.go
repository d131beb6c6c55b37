package effects

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const defaultScreensaverTick = 3 * time.Second

type screensaverOptions struct {
	tick time.Duration
}

// ScreensaverOption configures a Screensaver at construction time.
type ScreensaverOption func(*screensaverOptions)

// WithScreensaverTick overrides the default 3s interval between
// redraws.
func WithScreensaverTick(d time.Duration) ScreensaverOption {
	return func(o *screensaverOptions) { o.tick = d }
}

// Screensaver clears the screen each tick and prints text at a random
// position (§4.J).
type Screensaver struct {
	client  ClientProtocol
	text    []byte
	columns int
	lines   int
	rng     *rand.Rand

	r *runner
}

// NewScreensaver builds a Screensaver over already-encoded text; text
// must be strictly shorter than the device's column count so at least
// one column position is available.
func NewScreensaver(c ClientProtocol, text []byte, opts ...ScreensaverOption) (*Screensaver, error) {
	dev := c.Device()
	if len(text) >= dev.Columns() {
		return nil, fmt.Errorf("crystalfontz: screensaver text length %d does not fit in %d columns", len(text), dev.Columns())
	}

	o := screensaverOptions{tick: defaultScreensaverTick}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Screensaver{
		client:  c,
		text:    text,
		columns: dev.Columns(),
		lines:   dev.Lines(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.r = &runner{tick: o.tick, render: s.render, stopCh: make(chan struct{})}
	return s, nil
}

// Run clears and reprints the text at a random position on every tick
// until stopped or cancelled.
func (s *Screensaver) Run(ctx context.Context) error { return s.r.loop(ctx) }

func (s *Screensaver) Stop() { s.r.Stop() }

func (s *Screensaver) render(ctx context.Context) error {
	if err := s.client.ClearScreen(ctx); err != nil {
		return err
	}
	row := s.rng.Intn(s.lines)
	col := s.rng.Intn(s.columns - len(s.text))
	return s.client.SendData(ctx, row, col, s.text)
}
