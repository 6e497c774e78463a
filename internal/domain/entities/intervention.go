package entities

import "time"

// InterventionType classifies why human intervention is required
type InterventionType string

const (
	InterventionReview        InterventionType = "review"
	InterventionApproval      InterventionType = "approval"
	InterventionClarification InterventionType = "clarification"
	InterventionOverride      InterventionType = "override"
	InterventionUrgent        InterventionType = "urgent"
)

// InterventionStatus is the lifecycle status of an intervention request
type InterventionStatus string

const (
	InterventionStatusPending    InterventionStatus = "pending"
	InterventionStatusInProgress InterventionStatus = "in_progress"
	InterventionStatusApproved   InterventionStatus = "approved"
	InterventionStatusRejected   InterventionStatus = "rejected"
	InterventionStatusEscalated  InterventionStatus = "escalated"
)

// InterventionPriority is the handling priority of an intervention request
type InterventionPriority string

const (
	PriorityLow    InterventionPriority = "low"
	PriorityNormal InterventionPriority = "normal"
	PriorityHigh   InterventionPriority = "high"
	PriorityUrgent InterventionPriority = "urgent"
)

// Comment is a reviewer note attached to an intervention request
type Comment struct {
	Text      string    `json:"text"`
	Reviewer  string    `json:"reviewer"`
	Timestamp time.Time `json:"timestamp"`
}

// InterventionRequest tracks one human intervention on an assessment.
// Approved and rejected are terminal; escalated is not.
type InterventionRequest struct {
	ID             string               `json:"id"`
	AssessmentID   string               `json:"assessment_id"`
	Type           InterventionType     `json:"type"`
	Status         InterventionStatus   `json:"status"`
	Priority       InterventionPriority `json:"priority"`
	Reason         string               `json:"reason"`
	CreatedAt      time.Time            `json:"created_at"`
	AssessmentData map[string]any       `json:"assessment_data,omitempty"`
	AssignedTo     string               `json:"assigned_to,omitempty"`
	Comments       []Comment            `json:"comments"`
	Decision       string               `json:"decision,omitempty"`
	ResolvedAt     *time.Time           `json:"resolved_at,omitempty"`
}

// Resolved reports whether the request has reached a terminal state
func (i *InterventionRequest) Resolved() bool {
	return i.Status == InterventionStatusApproved || i.Status == InterventionStatusRejected
}

// InterventionReport aggregates counts across all intervention requests
type InterventionReport struct {
	TotalInterventions int                            `json:"total_interventions"`
	Pending            int                            `json:"pending"`
	Urgent             int                            `json:"urgent"`
	Approved           int                            `json:"approved"`
	Rejected           int                            `json:"rejected"`
	Escalated          int                            `json:"escalated"`
	Interventions      map[string]InterventionRequest `json:"interventions"`
}
