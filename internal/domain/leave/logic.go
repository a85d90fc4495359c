package leave

import (
	"strings"
	"time"
)

// DefaultNoticeDays is the minimum lead time for non-sick categories.
const DefaultNoticeDays = 5

// NoticeDays returns whole calendar days between today and the leave start,
// comparing UTC date boundaries so the time-of-day of either value is
// irrelevant. Past start dates yield negative values.
func NoticeDays(start, today time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	todayDay := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(startDay.Sub(todayDay).Hours() / 24)
}

// ValidateSubmission applies the submission rules in order: category, date
// ordering, then the advance-notice rule. Sick leave is exempt from notice
// and may be submitted same-day or retroactively.
func ValidateSubmission(sub Submission, today time.Time, noticeDays int) error {
	if !ValidType(sub.LeaveType) {
		return ErrInvalidCategory
	}
	if sub.EndDate.Before(sub.StartDate) {
		return ErrInvalidRange
	}
	if sub.LeaveType != TypeSick && NoticeDays(sub.StartDate, today) < noticeDays {
		return ErrInsufficientNotice
	}
	return nil
}

// ValidateDecision checks a review decision. Rejections carry mandatory
// comments; approvals may omit them.
func ValidateDecision(decision, comments string) error {
	switch decision {
	case StatusApproved:
		return nil
	case StatusRejected:
		if strings.TrimSpace(comments) == "" {
			return ErrCommentsRequired
		}
		return nil
	default:
		return ErrInvalidDecision
	}
}
