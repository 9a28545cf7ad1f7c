// Package bus owns the connection to the D-Bus message bus and turns method
// replies into reply trees.
package bus

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"sessionprobe/pkg/reply"
)

// Options controls how the connection is opened and how calls are bounded.
type Options struct {
	// Address of the bus to dial. Empty means the well-known system bus.
	Address string

	// CallTimeout bounds each method call. Zero leaves calls bounded only by
	// the caller's context.
	CallTimeout time.Duration
}

// Request names one method call on a remote object.
type Request struct {
	Destination string
	Path        string
	Interface   string
	Method      string
	Args        []interface{}
}

func (r Request) member() string {
	return r.Interface + "." + r.Method
}

// Conn is a private connection to a message bus. It must be closed exactly
// once by its owner.
type Conn struct {
	conn    *dbus.Conn
	timeout time.Duration
}

// Connect opens a private connection. A failure here means the host cannot
// answer any query, so callers are expected to treat it as fatal.
func Connect(opts Options) (*Conn, error) {
	var (
		conn *dbus.Conn
		err  error
	)

	if opts.Address == "" {
		conn, err = dbus.ConnectSystemBus()
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to system bus")
		}
	} else {
		conn, err = dbus.Connect(opts.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to connect to bus at %s", opts.Address)
		}
	}

	return &Conn{conn: conn, timeout: opts.CallTimeout}, nil
}

// Call performs one synchronous method call and decodes the first value of
// the reply body. Error replies from the remote side are returned wrapped;
// the D-Bus error name stays in the message.
func (c *Conn) Call(ctx context.Context, req Request) (reply.Node, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	obj := c.conn.Object(req.Destination, dbus.ObjectPath(req.Path))
	call := obj.CallWithContext(ctx, req.member(), 0, req.Args...)
	if call.Err != nil {
		return reply.Node{}, errors.Wrapf(call.Err, "%s on %s", req.member(), req.Path)
	}

	return Decode(call.Body), nil
}

// Close releases the underlying connection.
func (c *Conn) Close() error {
	if err := c.conn.Close(); err != nil {
		return errors.Wrap(err, "failed to close bus connection")
	}
	return nil
}
