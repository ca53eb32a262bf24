// Package server defines shared helpers that are reused across client and
// hub logic.
package server

import (
	"errors"
	"io"
	"net"
	"strings"
)

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "connection reset by peer") ||
		strings.Contains(errStr, "closed pipe") ||
		strings.Contains(errStr, "broken pipe")
}
