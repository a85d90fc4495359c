package leavehandler

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/auth"
	"intranet/internal/domain/leave"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
)

// downStore fails every operation the way pgx surfaces an unreachable
// database.
type downStore struct{}

func (downStore) dialErr() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
}

func (s downStore) Create(ctx context.Context, userID string, sub leave.Submission) (*leave.LeaveRequest, error) {
	return nil, s.dialErr()
}

func (s downStore) Get(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	return nil, s.dialErr()
}

func (s downStore) ListByOwner(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	return nil, s.dialErr()
}

func (s downStore) List(ctx context.Context, status string, limit, offset int) ([]leave.LeaveRequest, int, error) {
	return nil, 0, s.dialErr()
}

func (s downStore) Transition(ctx context.Context, id, status, reviewerID, comments string) (bool, error) {
	return false, s.dialErr()
}

func TestSubmitReportsStorageOutageAsUnavailable(t *testing.T) {
	const secret = "test-secret"

	h := NewHandler(leave.NewService(downStore{}, 5), nil, nil, nil)
	router := chi.NewRouter()
	router.Use(middleware.Auth(secret, nil))
	h.RegisterRoutes(router)

	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "emp-1", RoleName: auth.RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	start := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	end := time.Now().UTC().AddDate(0, 0, 12).Format("2006-01-02")
	body := `{"leaveType":"vacation","startDate":"` + start + `","endDate":"` + end + `","reason":"trip"}`

	req := httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusServiceUnavailable, rec.Body.String())
	}
	var env api.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error == nil || env.Error.Code != "unavailable" {
		t.Fatalf("error = %+v, want code unavailable", env.Error)
	}
}
