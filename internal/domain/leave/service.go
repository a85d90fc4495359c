package leave

import (
	"context"
	"time"

	"intranet/internal/domain/auth"
)

type Service struct {
	store      StoreAPI
	noticeDays int

	// Now is injectable so the advance-notice rule can be tested against a
	// fixed clock.
	Now func() time.Time
}

func NewService(store StoreAPI, noticeDays int) *Service {
	if noticeDays < 0 {
		noticeDays = DefaultNoticeDays
	}
	return &Service{store: store, noticeDays: noticeDays, Now: time.Now}
}

// Submit validates and persists a new request in the pending state. Nothing
// is written when validation fails.
func (s *Service) Submit(ctx context.Context, ownerID string, sub Submission) (*LeaveRequest, error) {
	if err := ValidateSubmission(sub, s.Now().UTC(), s.noticeDays); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, ownerID, sub)
}

// Review applies the single pending -> approved/rejected transition. The
// authorization check runs before any read or write; the state check is a
// conditional update so two concurrent reviews resolve to exactly one winner.
func (s *Service) Review(ctx context.Context, reviewerID, reviewerRole, requestID, decision, comments string) (*LeaveRequest, error) {
	if !auth.CanReview(reviewerRole) {
		return nil, ErrForbidden
	}
	if err := ValidateDecision(decision, comments); err != nil {
		return nil, err
	}

	if _, err := s.store.Get(ctx, requestID); err != nil {
		return nil, err
	}

	updated, err := s.store.Transition(ctx, requestID, decision, reviewerID, comments)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotPending
	}
	return s.store.Get(ctx, requestID)
}

func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]LeaveRequest, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

func (s *Service) ListAll(ctx context.Context, callerRole, status string, limit, offset int) ([]LeaveRequest, int, error) {
	if !auth.CanViewAll(callerRole) {
		return nil, 0, ErrForbidden
	}
	if status != "" && status != StatusPending && status != StatusApproved && status != StatusRejected {
		return nil, 0, ErrInvalidDecision
	}
	return s.store.List(ctx, status, limit, offset)
}

// Get returns a single request, visible to its owner and to reviewer-eligible
// roles only.
func (s *Service) Get(ctx context.Context, callerID, callerRole, requestID string) (*LeaveRequest, error) {
	request, err := s.store.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.UserID != callerID && !auth.CanViewAll(callerRole) {
		return nil, ErrForbidden
	}
	return request, nil
}
