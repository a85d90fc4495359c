package leave

import "errors"

// Validation errors: caller input problems, recoverable by resubmission.
var (
	ErrInvalidRange       = errors.New("end date before start date")
	ErrInsufficientNotice = errors.New("insufficient advance notice")
	ErrInvalidCategory    = errors.New("unknown leave category")
	ErrInvalidDecision    = errors.New("decision must be approved or rejected")
	ErrCommentsRequired   = errors.New("comments required when rejecting")
)

var (
	// ErrForbidden is an authorization failure, reported distinctly from
	// validation so clients can tell "can't" from "invalid input".
	ErrForbidden = errors.New("insufficient privilege")
	// ErrNotPending signals a lost race or stale view: the request has
	// already left the pending state.
	ErrNotPending = errors.New("request is not pending")
	ErrNotFound   = errors.New("leave request not found")
)

// IsValidation reports whether err is a submission or decision input problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInsufficientNotice) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidDecision) ||
		errors.Is(err, ErrCommentsRequired)
}
