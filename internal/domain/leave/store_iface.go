package leave

import "context"

type StoreAPI interface {
	Create(ctx context.Context, userID string, sub Submission) (*LeaveRequest, error)
	Get(ctx context.Context, id string) (*LeaveRequest, error)
	ListByOwner(ctx context.Context, userID string) ([]LeaveRequest, error)
	List(ctx context.Context, status string, limit, offset int) ([]LeaveRequest, int, error)
	// Transition flips a pending request into a terminal state with a single
	// conditional write and reports whether a row was actually updated.
	Transition(ctx context.Context, id, status, reviewerID, comments string) (bool, error)
}
