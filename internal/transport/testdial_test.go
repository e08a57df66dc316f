package transport

import (
	"net"
	"testing"
)

// dialTestClient connects to addr and wraps the connection as a Conn,
// standing in for internal/client in tests that only need the
// transport's framing, not the full reference client.
func dialTestClient(t *testing.T, addr string) Conn {
	t.Helper()
	raw, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("net.Dial() error = %v", err)
	}
	return newNetConn(raw)
}
