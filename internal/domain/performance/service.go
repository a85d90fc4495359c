package performance

import (
	"context"
	"fmt"
	"strings"

	"intranet/internal/domain/auth"
)

type StoreAPI interface {
	Create(ctx context.Context, review Review) (string, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]Review, error)
	ListAll(ctx context.Context) ([]Review, error)
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Publish records a review authored by reviewerID. Only review-capable
// roles may publish, and a rating, when present, must fall in 1..5.
func (s *Service) Publish(ctx context.Context, reviewerID, reviewerRole string, review Review) (string, error) {
	if !auth.CanReview(reviewerRole) {
		return "", ErrForbidden
	}
	if strings.TrimSpace(review.EmployeeID) == "" {
		return "", fmt.Errorf("employee id is required")
	}
	if strings.TrimSpace(review.ReviewPeriod) == "" {
		return "", fmt.Errorf("review period is required")
	}
	if !ValidRating(review.Rating) {
		return "", ErrInvalidRating
	}
	review.ReviewerID = reviewerID
	return s.store.Create(ctx, review)
}

// ListFor returns reviews visible to the caller: employees see their own,
// review-capable roles may request anyone's or the full list.
func (s *Service) ListFor(ctx context.Context, callerID, callerRole, employeeID string) ([]Review, error) {
	if employeeID == "" {
		if !auth.CanViewAll(callerRole) {
			return s.store.ListForEmployee(ctx, callerID)
		}
		return s.store.ListAll(ctx)
	}
	if employeeID != callerID && !auth.CanViewAll(callerRole) {
		return nil, ErrForbidden
	}
	return s.store.ListForEmployee(ctx, employeeID)
}
