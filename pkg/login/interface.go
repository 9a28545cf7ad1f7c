package login

import (
	"context"

	"sessionprobe/pkg/bus"
	"sessionprobe/pkg/reply"
)

// Well-known names of the session manager on the system bus.
const (
	Destination         = "org.freedesktop.login1"
	ManagerPath         = "/org/freedesktop/login1"
	ManagerInterface    = "org.freedesktop.login1.Manager"
	SessionInterface    = "org.freedesktop.login1.Session"
	PropertiesInterface = "org.freedesktop.DBus.Properties"
)

// Session kinds that count as graphical.
const (
	TypeX11     = "x11"
	TypeWayland = "wayland"
)

// Caller is the transport the detector issues its requests through.
// *bus.Conn satisfies it.
type Caller interface {
	// Call sends one request and blocks until its reply or error arrives
	Call(ctx context.Context, req bus.Request) (reply.Node, error)
}

// Handle is a session object path as returned by the session manager.
type Handle string

// Result is the outcome of one detection run.
type Result struct {
	User    string   `json:"user"`
	Found   bool     `json:"found"`
	Session Handle   `json:"session,omitempty"`
	Scanned int      `json:"scanned"`
	Skipped []Handle `json:"skipped,omitempty"`
}
