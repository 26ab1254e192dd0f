package leave

import (
	"strings"
	"time"
)

// Leave request statuses. A request starts Pending and moves exactly once to
// Approved or Rejected.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Request is a leave application filed by an authenticated user.
type Request struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	LeaveType string    `json:"leaveType"`
	FromDate  time.Time `json:"fromDate"`
	ToDate    time.Time `json:"toDate"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RequestInput carries the requester editable fields.
type RequestInput struct {
	LeaveType string
	FromDate  time.Time
	ToDate    time.Time
	Reason    string
}

// NormalizeDecision maps a status value to Approved or Rejected. Returns the
// empty string for anything else, including Pending: a processed request can
// never be reset.
func NormalizeDecision(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved":
		return StatusApproved
	case "rejected":
		return StatusRejected
	default:
		return ""
	}
}
