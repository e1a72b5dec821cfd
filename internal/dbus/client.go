package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// Client talks to a splash control service on the session bus.
type Client struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	busName string
}

// NewClient connects to the service owning busName.
func NewClient(busName string) (*Client, error) {
	if busName == "" {
		busName = DBusInterface
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn:    conn,
		obj:     conn.Object(busName, DBusPath),
		busName: busName,
	}, nil
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) *dbus.Call {
	return c.obj.CallWithContext(ctx, DBusInterface+"."+method, 0, args...)
}

// UpdateMessage replaces the message, or appends to it.
func (c *Client) UpdateMessage(ctx context.Context, text string, appendText bool) error {
	return fromDBusError(c.call(ctx, "UpdateMessage", text, appendText).Err)
}

// UpdateColor changes the background color.
func (c *Client) UpdateColor(ctx context.Context, color string) error {
	return fromDBusError(c.call(ctx, "UpdateColor", color).Err)
}

// Step advances the progress bar by amount.
func (c *Client) Step(ctx context.Context, amount float64) error {
	return fromDBusError(c.call(ctx, "Step", amount).Err)
}

// SetProgress sets the progress value.
func (c *Client) SetProgress(ctx context.Context, value float64) error {
	return fromDBusError(c.call(ctx, "SetProgress", value).Err)
}

// Close closes the splash after delay.
func (c *Client) Close(ctx context.Context, delay time.Duration) error {
	return fromDBusError(c.call(ctx, "Close", uint32(delay/time.Millisecond)).Err)
}

// Status returns the splash status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var m map[string]dbus.Variant
	if err := c.call(ctx, "Status").Store(&m); err != nil {
		return Status{}, fromDBusError(err)
	}
	return StatusFromVariants(m)
}

// WaitClosed blocks until the service emits Closed or ctx is done, and
// returns the id of the closed splash.
func (c *Client) WaitClosed(ctx context.Context) (string, error) {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(DBusPath),
		dbus.WithMatchInterface(DBusInterface),
		dbus.WithMatchMember("Closed"),
	}
	if err := c.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return "", fmt.Errorf("failed to add match rule: %w", err)
	}
	defer c.conn.RemoveMatchSignal(opts...)

	ch := make(chan *dbus.Signal, 8)
	c.conn.Signal(ch)
	defer c.conn.RemoveSignal(ch)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case sig, ok := <-ch:
			if !ok {
				return "", fmt.Errorf("connection closed")
			}
			if sig.Name != DBusInterface+".Closed" || len(sig.Body) == 0 {
				continue
			}
			if id, ok := sig.Body[0].(string); ok {
				return id, nil
			}
		}
	}
}
