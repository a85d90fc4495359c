package performance

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("performance review not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrForbidden     = errors.New("not allowed to access performance reviews")
)

type Review struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	ReviewerID   string    `json:"reviewerId"`
	ReviewPeriod string    `json:"reviewPeriod"`
	Rating       *int      `json:"rating,omitempty"`
	Feedback     string    `json:"feedback"`
	CreatedAt    time.Time `json:"createdAt"`
}

func ValidRating(rating *int) bool {
	if rating == nil {
		return true
	}
	return *rating >= 1 && *rating <= 5
}
