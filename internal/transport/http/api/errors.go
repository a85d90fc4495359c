package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// Unavailable reports whether err looks like a transient infrastructure
// failure the caller should retry, as opposed to a bug in this process.
func Unavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// FailStorage renders a store error. Transient failures become a retryable
// 503 with the shared "unavailable" code; anything else keeps the
// operation-specific 500 code so the logs stay attributable.
func FailStorage(w http.ResponseWriter, err error, code, message, requestID string) {
	if Unavailable(err) {
		Fail(w, http.StatusServiceUnavailable, "unavailable", "service temporarily unavailable, retry shortly", requestID)
		return
	}
	Fail(w, http.StatusInternalServerError, code, message, requestID)
}
