package entities

import (
	"time"

	"github.com/google/uuid"
)

// GovernanceEventType represents the type of governance event
type GovernanceEventType string

const (
	GovernanceEventInterventionCreated   GovernanceEventType = "intervention_created"
	GovernanceEventInterventionAssigned  GovernanceEventType = "intervention_assigned"
	GovernanceEventInterventionResolved  GovernanceEventType = "intervention_resolved"
	GovernanceEventInterventionEscalated GovernanceEventType = "intervention_escalated"
	GovernanceEventApprovalDecided       GovernanceEventType = "approval_decided"
	GovernanceEventReviewCompleted       GovernanceEventType = "review_completed"
)

// GovernanceEvent represents a real-time update on the governance workflow
type GovernanceEvent struct {
	ID            string              `json:"id"`
	SubjectID     string              `json:"subject_id"`
	AssessmentID  string              `json:"assessment_id,omitempty"`
	EventType     GovernanceEventType `json:"event_type"`
	Timestamp     time.Time           `json:"timestamp"`
	ChangedFields map[string]any      `json:"changed_fields,omitempty"`
}

// NewGovernanceEvent creates a new governance event
func NewGovernanceEvent(subjectID, assessmentID string, eventType GovernanceEventType, changedFields map[string]any) *GovernanceEvent {
	return &GovernanceEvent{
		ID:            uuid.NewString(),
		SubjectID:     subjectID,
		AssessmentID:  assessmentID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		ChangedFields: changedFields,
	}
}
