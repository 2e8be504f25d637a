package ipc

import (
	"context"
	"net"
	"testing"
	"time"
)

func startTestServer(t *testing.T, handle Handler) (*Client, func()) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := NewServer(l, handle)
	ctx, cancel := context.WithCancel(context.Background())
	go server.Serve(ctx)

	client := NewClient(func() (net.Conn, error) {
		return net.Dial("tcp", l.Addr().String())
	})
	return client, func() { cancel(); l.Close() }
}

func TestServerClientRoundTrip(t *testing.T) {
	client, stop := startTestServer(t, func(cmd Command) Response {
		if cmd.Type != CmdQueryStatus {
			return Errorf("unexpected command %q", cmd.Type)
		}
		return StatusInfo("dev", 1, 2, 99)
	})
	defer stop()

	resp, err := client.Send(Command{Type: CmdQueryStatus})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Status != StatusStatusInfo || resp.Version != "dev" || resp.TotalWindows != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServerRespondsErrorOnInvalidJSON(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := NewServer(l, func(Command) Response { return OK() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Serve(ctx)
	defer l.Close()

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("not json\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got == "" {
		t.Fatal("expected a non-empty error response line")
	}
}

func TestServerClosesConnectionOnReadTimeout(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := NewServer(l, func(Command) Response { return OK() })
	server.ReadTimeout = 50 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Serve(ctx)
	defer l.Close()

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Never send a complete line; the server must close without a
	// response once its read deadline elapses (spec.md section 8's
	// slow-client scenario).
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if n != 0 || err == nil {
		t.Fatalf("expected the connection to close with no bytes written, got n=%d err=%v", n, err)
	}
}
