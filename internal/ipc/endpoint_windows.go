//go:build windows

package ipc

import (
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// pipePath is the well-known named pipe path the daemon listens on
// and the CLI dials, derived from EndpointName.
func pipePath() string {
	return `\\.\pipe\` + EndpointName
}

// Listen opens the daemon's IPC rendezvous point: a Windows named
// pipe, generalizing the teacher's Unix-socket-only niri/niri_ipc.go
// onto a platform where Unix sockets aren't the native IPC primitive.
func Listen() (net.Listener, error) {
	l, err := winio.ListenPipe(pipePath(), nil)
	if err != nil {
		return nil, fmt.Errorf("ipc: listen on %s: %w", pipePath(), err)
	}
	return l, nil
}

// Dial connects to the daemon's named pipe, timing out if nothing is
// listening rather than blocking indefinitely.
func Dial() (net.Conn, error) {
	timeout := ReadTimeoutSeconds * time.Second
	conn, err := winio.DialPipe(pipePath(), &timeout)
	if err != nil {
		return nil, fmt.Errorf("ipc: dial %s: %w", pipePath(), err)
	}
	return conn, nil
}

// Probe reports whether a daemon is already listening on the
// rendezvous point, used by the startup sequence's "check the IPC
// rendezvous: if a peer answers, exit" step.
func Probe() bool {
	conn, err := Dial()
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
