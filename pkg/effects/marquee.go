package effects

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

const defaultMarqueeTick = 300 * time.Millisecond

type marqueeOptions struct {
	tick  time.Duration
	pause time.Duration
}

// MarqueeOption configures a Marquee at construction time.
type MarqueeOption func(*marqueeOptions)

// WithMarqueeTick overrides the default 300ms scroll interval.
func WithMarqueeTick(d time.Duration) MarqueeOption {
	return func(o *marqueeOptions) { o.tick = d }
}

// WithMarqueePause overrides the pause before the first shift, which
// otherwise equals the tick interval.
func WithMarqueePause(d time.Duration) MarqueeOption {
	return func(o *marqueeOptions) { o.pause = d }
}

// Marquee prints text to row r and scrolls it across the screen (§4.J).
type Marquee struct {
	client  ClientProtocol
	row     int
	text    []byte
	columns int
	shift   int
	pause   time.Duration

	r *runner
}

// NewMarquee builds a Marquee over already-encoded text; text shorter
// than the device's column count is right-padded with spaces.
func NewMarquee(c ClientProtocol, row int, text []byte, opts ...MarqueeOption) (*Marquee, error) {
	dev := c.Device()
	if row < 0 || row >= dev.Lines() {
		return nil, fmt.Errorf("crystalfontz: invalid marquee row %d", row)
	}

	o := marqueeOptions{tick: defaultMarqueeTick}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pause <= 0 {
		o.pause = o.tick
	}

	columns := dev.Columns()
	m := &Marquee{
		client:  c,
		row:     row,
		text:    padRight(text, columns),
		columns: columns,
		pause:   o.pause,
	}
	m.r = &runner{tick: o.tick, render: m.render, stopCh: make(chan struct{})}
	return m, nil
}

func padRight(text []byte, columns int) []byte {
	if len(text) >= columns {
		return text
	}
	out := make([]byte, columns)
	copy(out, text)
	for i := len(text); i < columns; i++ {
		out[i] = ' '
	}
	return out
}

// Run renders once, waits the configured pause, then scrolls on every
// tick until stopped or cancelled.
func (m *Marquee) Run(ctx context.Context) error {
	if err := m.r.renderAndWait(ctx, m.pause); err != nil {
		return err
	}
	return m.r.loop(ctx)
}

func (m *Marquee) Stop() { m.r.Stop() }

func (m *Marquee) render(ctx context.Context) error {
	if err := m.client.SendData(ctx, m.row, 0, m.line()); err != nil {
		return err
	}
	m.shift++
	if m.shift >= m.columns {
		m.shift = 0
	}
	return nil
}

func (m *Marquee) line() []byte {
	left := m.text[m.shift:]
	right := m.text[:m.shift]

	spacerLen := m.columns - len(m.text)
	if spacerLen < 1 {
		spacerLen = 1
	}
	spacer := bytes.Repeat([]byte(" "), spacerLen)

	buf := make([]byte, 0, len(left)+len(spacer)+len(right))
	buf = append(buf, left...)
	buf = append(buf, spacer...)
	buf = append(buf, right...)
	if len(buf) > m.columns {
		buf = buf[:m.columns]
	}
	return buf
}
