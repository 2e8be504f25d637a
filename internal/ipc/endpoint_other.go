//go:build !windows

package ipc

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// socketPath is the Unix domain socket path used when OpenNiri is
// built on a non-Windows target (development and CI only — the
// window-management core itself is Windows-specific per spec.md
// section 1's Non-goals), mirroring the teacher's NIRI_SOCKET
// net.Dial("unix", ...) pattern in niri/niri_ipc.go.
func socketPath() (string, error) {
	return xdg.RuntimeFile(filepath.Join(EndpointName, EndpointName+".sock"))
}

// Listen opens the daemon's IPC rendezvous point: a Unix domain
// socket, removing any stale socket file left behind by a previous
// daemon that didn't shut down cleanly.
func Listen() (net.Listener, error) {
	path, err := socketPath()
	if err != nil {
		return nil, fmt.Errorf("ipc: resolve socket path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("ipc: create socket directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ipc: remove stale socket: %w", err)
	}
	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc: listen on %s: %w", path, err)
	}
	return l, nil
}

// Dial connects to the daemon's Unix domain socket.
func Dial() (net.Conn, error) {
	path, err := socketPath()
	if err != nil {
		return nil, fmt.Errorf("ipc: resolve socket path: %w", err)
	}
	conn, err := net.DialTimeout("unix", path, ReadTimeoutSeconds*time.Second)
	if err != nil {
		return nil, fmt.Errorf("ipc: dial %s: %w", path, err)
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
