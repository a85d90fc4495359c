package leave

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"intranet/internal/domain/auth"
)

// fakeStore mirrors the conditional-update semantics of the SQL store: the
// transition succeeds only while the row is still pending, under a lock, the
// way the database serializes writes to one row.
type fakeStore struct {
	mu       sync.Mutex
	requests map[string]*LeaveRequest
	seq      int
	creates  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{requests: map[string]*LeaveRequest{}}
}

func (f *fakeStore) Create(ctx context.Context, userID string, sub Submission) (*LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.creates++
	r := &LeaveRequest{
		ID:        fmt.Sprintf("req-%d", f.seq),
		UserID:    userID,
		LeaveType: sub.LeaveType,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		Reason:    sub.Reason,
		Status:    StatusPending,
		CreatedAt: time.Now().Add(time.Duration(f.seq) * time.Millisecond),
	}
	f.requests[r.ID] = r
	copied := *r
	return &copied, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, userID string) ([]LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []LeaveRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) List(ctx context.Context, status string, limit, offset int) ([]LeaveRequest, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []LeaveRequest
	for _, r := range f.requests {
		if status == "" || r.Status == status {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeStore) Transition(ctx context.Context, id, status, reviewerID, comments string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok || r.Status != StatusPending {
		return false, nil
	}
	now := time.Now()
	r.Status = status
	r.ReviewerID = reviewerID
	r.ReviewedAt = &now
	r.ReviewerComments = comments
	return true, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, DefaultNoticeDays)
	svc.Now = fixedClock(date(2024, 6, 1))
	return svc
}

func TestSubmitPersistsNothingOnValidationFailure(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeVacation, StartDate: date(2024, 6, 3), EndDate: date(2024, 6, 4)})
	if !errors.Is(err, ErrInsufficientNotice) {
		t.Fatalf("expected ErrInsufficientNotice, got %v", err)
	}
	if store.creates != 0 {
		t.Fatalf("expected no persisted request, got %d", store.creates)
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	r, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeVacation, StartDate: date(2024, 6, 7), EndDate: date(2024, 6, 17), Reason: "family trip"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", r.Status)
	}
	if r.ReviewerID != "" || r.ReviewedAt != nil {
		t.Fatalf("expected reviewer fields unset, got %+v", r)
	}
}

func TestReviewDeniedForEmployeeWithoutMutation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	r, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeSick, StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Review(context.Background(), "u2", auth.RoleEmployee, r.ID, StatusApproved, "")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	stored, _ := store.Get(context.Background(), r.ID)
	if stored.Status != StatusPending {
		t.Fatalf("denied review must not mutate state, got %s", stored.Status)
	}
}

func TestReviewSucceedsForEveryReviewerRole(t *testing.T) {
	for _, role := range []string{auth.RoleHR, auth.RoleManager, auth.RoleCEO, auth.RoleAdmin} {
		store := newFakeStore()
		svc := newTestService(store)

		r, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeSick, StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 2)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		updated, err := svc.Review(context.Background(), "rev1", role, r.ID, StatusApproved, "")
		if err != nil {
			t.Fatalf("expected %s to review, got %v", role, err)
		}
		if updated.Status != StatusApproved || updated.ReviewerID != "rev1" || updated.ReviewedAt == nil {
			t.Fatalf("unexpected reviewed request: %+v", updated)
		}
	}
}

func TestRejectionRequiresComments(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	r, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeSick, StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Review(context.Background(), "hr1", auth.RoleHR, r.ID, StatusRejected, "")
	if !errors.Is(err, ErrCommentsRequired) {
		t.Fatalf("expected ErrCommentsRequired, got %v", err)
	}

	stored, _ := store.Get(context.Background(), r.ID)
	if stored.Status != StatusPending {
		t.Fatal("failed validation must not mutate state")
	}

	updated, err := svc.Review(context.Background(), "hr1", auth.RoleHR, r.ID, StatusRejected, "insufficient coverage")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ReviewerComments != "insufficient coverage" {
		t.Fatalf("expected comments stored, got %q", updated.ReviewerComments)
	}
}

func TestSecondReviewReturnsNotPending(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	r, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeSick, StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Review(context.Background(), "hr1", auth.RoleHR, r.ID, StatusApproved, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Review(context.Background(), "mgr1", auth.RoleManager, r.ID, StatusRejected, "late"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}

	stored, _ := store.Get(context.Background(), r.ID)
	if stored.Status != StatusApproved || stored.ReviewerID != "hr1" {
		t.Fatalf("first decision must stand, got %+v", stored)
	}
}

func TestConcurrentReviewsResolveToExactlyOneWinner(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	r, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeSick, StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.Review(context.Background(), "hr1", auth.RoleHR, r.ID, StatusApproved, "")
		results <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Review(context.Background(), "mgr1", auth.RoleManager, r.ID, StatusRejected, "conflict")
		results <- err
	}()
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrNotPending):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner and one NotPending, got %d/%d", wins, losses)
	}
}

func TestListAllDeniedForEmployee(t *testing.T) {
	svc := newTestService(newFakeStore())
	if _, _, err := svc.ListAll(context.Background(), auth.RoleEmployee, "", 25, 0); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGetHidesForeignRequestsFromEmployees(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	r, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeSick, StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Get(context.Background(), "u1", auth.RoleEmployee, r.ID); err != nil {
		t.Fatalf("owner must see own request, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "u2", auth.RoleEmployee, r.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign employee, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "hr1", auth.RoleHR, r.ID); err != nil {
		t.Fatalf("reviewer must see any request, got %v", err)
	}
}

func TestSubmitThenApproveScenario(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	r, err := svc.Submit(context.Background(), "u1", Submission{
		LeaveType: TypeVacation,
		StartDate: date(2024, 6, 7),
		EndDate:   date(2024, 6, 16),
		Reason:    "family trip",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Review(context.Background(), "mgr1", auth.RoleManager, r.ID, StatusApproved, "enjoy"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	owned, err := svc.ListForOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(owned) != 1 {
		t.Fatalf("expected one request, got %d", len(owned))
	}
	got := owned[0]
	if got.Status != StatusApproved || got.ReviewerID != "mgr1" || got.ReviewerComments != "enjoy" {
		t.Fatalf("unexpected request state: %+v", got)
	}
}

func TestListForOwnerNewestFirst(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeSick, StartDate: date(2024, 6, 1+i), EndDate: date(2024, 6, 2+i)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	owned, err := svc.ListForOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(owned); i++ {
		if owned[i].CreatedAt.After(owned[i-1].CreatedAt) {
			t.Fatal("expected creation-descending order")
		}
	}
}

func TestReportsDeniedForEmployee(t *testing.T) {
	svc := newTestService(newFakeStore())
	if _, err := svc.BuildPDFReport(context.Background(), auth.RoleEmployee); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.BuildCSVReport(context.Background(), auth.RoleEmployee); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCSVReportContainsDecisions(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	r, err := svc.Submit(context.Background(), "u1", Submission{LeaveType: TypeSick, StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Review(context.Background(), "hr1", auth.RoleHR, r.ID, StatusRejected, "no coverage"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := svc.BuildCSVReport(context.Background(), auth.RoleHR)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	csvText := string(data)
	for _, expected := range []string{"rejected", "hr1", "no coverage", r.ID} {
		if !strings.Contains(csvText, expected) {
			t.Fatalf("expected CSV to contain %q:\n%s", expected, csvText)
		}
	}
}
