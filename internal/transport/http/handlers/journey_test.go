package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"intranet/internal/app/server"
	"intranet/internal/platform/config"
	"intranet/internal/platform/db"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

// Exercises the whole leave flow over HTTP: provisioning on first login,
// submission with the advance-notice rule, the role gate on review, and
// the one-shot pending transition.
func TestLeaveRequestJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		Addr:               ":0",
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		OrgDomain:          "techcorp.com",
		LeaveNoticeDays:    5,
		SeedAdminEmail:     "admin@techcorp.com",
		SeedAdminPassword:  "ChangeMe123!",
		SeedAdminName:      "Portal Admin",
		AllowSelfSignup:    true,
		EmailFrom:          "no-reply@techcorp.com",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, "../../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(ctx, pool, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}

	app := server.New(ctx, cfg, pool)
	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()
	employeeEmail := fmt.Sprintf("journey-emp-%d@techcorp.com", suffix)
	managerEmail := fmt.Sprintf("journey-mgr-%d@techcorp.com", suffix)
	employeeID := signup(t, client, ts.URL, employeeEmail, "Journey Employee")
	managerID := signup(t, client, ts.URL, managerEmail, "Journey Manager")
	if employeeID == "" || managerID == "" {
		t.Fatal("signup returned empty profile ids")
	}

	// Outside-domain signup is rejected outright.
	status, _ := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/signup", "", map[string]string{
		"email":    fmt.Sprintf("intruder-%d@evil.com", suffix),
		"password": "Password123",
		"fullName": "Intruder",
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign domain signup, got %d", status)
	}

	// Admin promotes the second account to manager.
	status, _ = doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/profiles/"+managerID+"/role", adminToken, map[string]string{"role": "manager"})
	if status != http.StatusOK {
		t.Fatalf("role change failed with status %d", status)
	}

	employeeToken := login(t, client, ts.URL, employeeEmail, "Password123")
	managerToken := login(t, client, ts.URL, managerEmail, "Password123")

	// Too little notice is rejected and nothing persists.
	soon := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests", employeeToken, map[string]string{
		"leaveType": "vacation",
		"startDate": soon,
		"endDate":   soon,
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for short notice, got %d", status)
	}

	start := time.Now().UTC().AddDate(0, 0, 6).Format("2006-01-02")
	end := time.Now().UTC().AddDate(0, 0, 8).Format("2006-01-02")
	status, body := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests", employeeToken, map[string]string{
		"leaveType": "vacation",
		"startDate": start,
		"endDate":   end,
		"reason":    "family trip",
	})
	if status != http.StatusCreated {
		t.Fatalf("submit failed with status %d: %s", status, body)
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, body, &created)
	if created.Status != "pending" {
		t.Fatalf("new request status = %q, want pending", created.Status)
	}

	// The submitting employee cannot approve their own request.
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests/"+created.ID+"/approve", employeeToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for employee approval, got %d", status)
	}

	status, body = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests/"+created.ID+"/approve", managerToken, map[string]string{"comments": "enjoy"})
	if status != http.StatusOK {
		t.Fatalf("manager approval failed with status %d: %s", status, body)
	}
	var reviewed struct {
		Status           string `json:"status"`
		ReviewerID       string `json:"reviewerId"`
		ReviewerComments string `json:"reviewerComments"`
	}
	decodeData(t, body, &reviewed)
	if reviewed.Status != "approved" || reviewed.ReviewerID != managerID {
		t.Fatalf("unexpected review result: %+v", reviewed)
	}

	// A second decision on the same request conflicts.
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/leave/requests/"+created.ID+"/reject", managerToken, map[string]string{"comments": "changed my mind"})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for second decision, got %d", status)
	}

	// The employee sees the approved request in their own list.
	status, body = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/leave/requests", employeeToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list failed with status %d", status)
	}
	var listed struct {
		Requests []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"requests"`
	}
	decodeData(t, body, &listed)
	found := false
	for _, item := range listed.Requests {
		if item.ID == created.ID && item.Status == "approved" {
			found = true
		}
	}
	if !found {
		t.Fatalf("approved request %s missing from owner list", created.ID)
	}

	// The owner received a notification for the decision.
	status, body = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/notifications/unread-count", employeeToken, nil)
	if status != http.StatusOK {
		t.Fatalf("unread count failed with status %d", status)
	}
	var unread struct {
		Unread int `json:"unread"`
	}
	decodeData(t, body, &unread)
	if unread.Unread == 0 {
		t.Fatal("expected at least one unread notification after approval")
	}

	// Marking a notification that does not exist is a 404, not a silent 200.
	status, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/notifications/00000000-0000-0000-0000-000000000000/read", employeeToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("mark-read of unknown notification returned %d, want 404", status)
	}
}

func signup(t *testing.T, client *http.Client, baseURL, email, name string) string {
	t.Helper()
	status, body := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", "", map[string]string{
		"email":    email,
		"password": "Password123",
		"fullName": name,
	})
	if status != http.StatusCreated {
		t.Fatalf("signup for %s failed with status %d: %s", email, status, body)
	}
	var prof struct {
		ID string `json:"id"`
	}
	decodeData(t, body, &prof)
	return prof.ID
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	status, body := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login for %s failed with status %d: %s", email, status, body)
	}
	var out struct {
		Token string `json:"token"`
	}
	decodeData(t, body, &out)
	if out.Token == "" {
		t.Fatalf("login for %s returned no token", email)
	}
	return out.Token
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, body
}

func decodeData(t *testing.T, body []byte, out any) {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, body)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}
