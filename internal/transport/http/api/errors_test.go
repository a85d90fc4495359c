package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http/httptest"
	"syscall"
	"testing"
)

func TestUnavailableClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, true},
		{"connection reset", &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped refused", errors.Join(errors.New("query users"), syscall.ECONNREFUSED), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Unavailable(tc.err); got != tc.want {
				t.Fatalf("Unavailable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestFailStorageSplitsTransientFromInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	FailStorage(rec, &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, "submission_failed", "failed to submit", "req-1")
	if rec.Code != 503 {
		t.Fatalf("transient error status = %d, want 503", rec.Code)
	}
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error == nil || env.Error.Code != "unavailable" {
		t.Fatalf("transient error code = %+v, want unavailable", env.Error)
	}

	rec = httptest.NewRecorder()
	FailStorage(rec, errors.New("constraint violated"), "submission_failed", "failed to submit", "req-2")
	if rec.Code != 500 {
		t.Fatalf("internal error status = %d, want 500", rec.Code)
	}
	env = Envelope{}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error == nil || env.Error.Code != "submission_failed" {
		t.Fatalf("internal error code = %+v, want submission_failed", env.Error)
	}
}
