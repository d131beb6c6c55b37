package effects

import (
	"context"

	"github.com/lcdhost/cfa533driver/pkg/client"
	"github.com/lcdhost/cfa533driver/pkg/device"
)

// ClientAdapter narrows a *client.Client down to ClientProtocol, using
// the client's default timeout and retry settings for every call (§9
// design notes: effects should not hold a full client reference).
type ClientAdapter struct {
	c *client.Client
}

// NewClientAdapter wraps c for use by an effect.
func NewClientAdapter(c *client.Client) ClientAdapter {
	return ClientAdapter{c: c}
}

func (a ClientAdapter) SendData(ctx context.Context, row, col int, data []byte) error {
	return a.c.SendData(ctx, row, col, data)
}

func (a ClientAdapter) ClearScreen(ctx context.Context) error {
	return a.c.ClearScreen(ctx)
}

func (a ClientAdapter) Device() device.Device {
	return a.c.Device()
}
