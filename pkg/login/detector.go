// Package login answers whether a user owns a graphical login session by
// querying the session manager over the bus.
package login

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"sessionprobe/pkg/bus"
	"sessionprobe/pkg/reply"
)

// Detector runs session queries over a single Caller. Requests are issued
// one at a time in enumeration order.
type Detector struct {
	caller Caller
	log    zerolog.Logger
}

// NewDetector creates a detector bound to caller.
func NewDetector(caller Caller, log zerolog.Logger) *Detector {
	return &Detector{
		caller: caller,
		log:    log.With().Str("component", "login").Logger(),
	}
}

// ListSessions asks the session manager for every session and returns the
// object paths in the order the manager listed them.
//
// A reply that is not an array is logged and yields no handles; only a
// failed request is an error.
func (d *Detector) ListSessions(ctx context.Context) ([]Handle, error) {
	n, err := d.caller.Call(ctx, bus.Request{
		Destination: Destination,
		Path:        ManagerPath,
		Interface:   ManagerInterface,
		Method:      "ListSessions",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	handles, ok := SessionHandles(n)
	if !ok {
		d.log.Warn().Stringer("kind", n.Kind).Msg("ListSessions reply is not an array")
		return nil, nil
	}

	d.log.Debug().Int("sessions", len(handles)).Msg("listed sessions")
	return handles, nil
}

// SessionHandles extracts the object-path fields of each session record in
// a ListSessions reply. Records that are not structs are skipped and only
// fields directly inside a record are considered.
func SessionHandles(n reply.Node) ([]Handle, bool) {
	if !n.Is(reply.Array) {
		return nil, false
	}

	var handles []Handle
	reply.Walk(n, func(node reply.Node, depth int) bool {
		switch depth {
		case 0:
			return true
		case 1:
			return node.Is(reply.Struct)
		}
		if node.Is(reply.ObjectPath) && node.Text != "" {
			handles = append(handles, Handle(node.Text))
		}
		return false
	})
	return handles, true
}

// Inspect fetches all session properties of h. ok is false when the reply
// is not array-shaped.
func (d *Detector) Inspect(ctx context.Context, h Handle) (props PropertySet, ok bool, err error) {
	n, err := d.caller.Call(ctx, bus.Request{
		Destination: Destination,
		Path:        string(h),
		Interface:   PropertiesInterface,
		Method:      "GetAll",
		Args:        []interface{}{SessionInterface},
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read properties of %s", h)
	}

	props, ok = DecodeProperties(n)
	if !ok {
		d.log.Warn().Str("session", string(h)).Stringer("kind", n.Kind).
			Msg("GetAll reply is not an array")
		return nil, false, nil
	}
	return props, true, nil
}

// Matches reports whether session h belongs to user and is graphical.
func (d *Detector) Matches(ctx context.Context, h Handle, user string) (bool, error) {
	props, ok, err := d.Inspect(ctx, h)
	if err != nil || !ok {
		return false, err
	}

	owned, graphical := props.OwnedBy(user), props.IsGraphical()
	d.log.Debug().Str("session", string(h)).Bool("owned", owned).Bool("graphical", graphical).
		Msg("inspected session")
	return owned && graphical, nil
}

// HasGraphicalSession enumerates sessions and inspects them in order until
// one matches. A session whose inspection fails is recorded in
// Result.Skipped and the scan continues; a failed enumeration or a cancelled
// ctx is returned as an error.
func (d *Detector) HasGraphicalSession(ctx context.Context, user string) (*Result, error) {
	handles, err := d.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{User: user}
	for _, h := range handles {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "session scan interrupted")
		}

		result.Scanned++
		match, err := d.Matches(ctx, h, user)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(ctx.Err(), "session scan interrupted")
			}
			d.log.Warn().Err(err).Str("session", string(h)).Msg("skipping session")
			result.Skipped = append(result.Skipped, h)
			continue
		}
		if match {
			result.Found = true
			result.Session = h
			break
		}
	}

	return result, nil
}
