package entities

import "time"

// ApprovalStatus is the lifecycle status of an approval request
type ApprovalStatus string

const (
	ApprovalStatusPending           ApprovalStatus = "pending"
	ApprovalStatusPartiallyApproved ApprovalStatus = "partially_approved"
	ApprovalStatusFullyApproved     ApprovalStatus = "fully_approved"
	ApprovalStatusRejected          ApprovalStatus = "rejected"
)

// ApprovalRecord is one sign-off at a specific chain level
type ApprovalRecord struct {
	Level     string    `json:"level"`
	Approver  string    `json:"approver"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RejectionRecord is one rejection at a specific chain level
type RejectionRecord struct {
	Level     string    `json:"level"`
	Rejector  string    `json:"rejector"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// ApprovalRequest tracks sign-off of an assessment against a fixed
// chain of authority levels. A rejection at any level is final.
type ApprovalRequest struct {
	ID              string            `json:"id"`
	AssessmentID    string            `json:"assessment_id"`
	AssessmentData  map[string]any    `json:"assessment_data,omitempty"`
	RequiredLevel   string            `json:"required_level"`
	Status          ApprovalStatus    `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	Approvals       []ApprovalRecord  `json:"approvals"`
	Rejections      []RejectionRecord `json:"rejections"`
	FinalDecision   string            `json:"final_decision,omitempty"`
	FinalDecisionAt *time.Time        `json:"final_decision_at,omitempty"`
}

// ApprovalStatusSummary is the condensed view of an approval request
type ApprovalStatusSummary struct {
	ApprovalID      string     `json:"approval_id"`
	Status          ApprovalStatus `json:"status"`
	FinalDecision   string     `json:"final_decision,omitempty"`
	ApprovalsCount  int        `json:"approvals_count"`
	RejectionsCount int        `json:"rejections_count"`
	ApprovedBy      []string   `json:"approved_by"`
	RejectedBy      []string   `json:"rejected_by"`
	CreatedAt       time.Time  `json:"created_at"`
	FinalDecisionAt *time.Time `json:"final_decision_at,omitempty"`
}

// ApprovalEvent is one entry in an approval request's merged timeline
type ApprovalEvent struct {
	Action    string    `json:"action"`
	Level     string    `json:"level"`
	Actor     string    `json:"actor"`
	Notes     string    `json:"notes,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
