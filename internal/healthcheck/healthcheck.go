// Package healthcheck implements the riskgate binary's -healthcheck
// flag. The main protocol port has no HTTP surface to GET from, so
// this dials and closes it instead.
package healthcheck

import (
	"net"
	"time"
)

// Run dials address:port and reports whether the connection succeeded.
// It is used by `riskgate -healthcheck` to answer a container
// orchestrator's liveness probe without speaking the wire protocol.
func Run(address, port string) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(address, port), 2*time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
