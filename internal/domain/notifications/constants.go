package notifications

const (
	TypeLeaveSubmitted  = "leave_submitted"
	TypeLeaveApproved   = "leave_approved"
	TypeLeaveRejected   = "leave_rejected"
	TypeRoleChanged     = "role_changed"
	TypeReviewPublished = "review_published"
	TypeUpdatePublished = "update_published"
	TypePolicyPublished = "policy_published"
)
