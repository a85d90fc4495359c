package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeVacation  = "vacation"
	TypeSick      = "sick"
	TypePersonal  = "personal"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
)

var leaveTypes = map[string]bool{
	TypeVacation:  true,
	TypeSick:      true,
	TypePersonal:  true,
	TypeMaternity: true,
	TypePaternity: true,
}

func ValidType(leaveType string) bool {
	return leaveTypes[leaveType]
}

type LeaveRequest struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	LeaveType        string     `json:"leaveType"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          time.Time  `json:"endDate"`
	Reason           string     `json:"reason,omitempty"`
	Status           string     `json:"status"`
	ReviewerID       string     `json:"reviewerId,omitempty"`
	ReviewedAt       *time.Time `json:"reviewedAt,omitempty"`
	ReviewerComments string     `json:"reviewerComments,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Submission is the caller-supplied portion of a new request.
type Submission struct {
	LeaveType string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}
