package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinassist/assessment/internal/domain/entities"
	"github.com/clinassist/assessment/internal/domain/providers"
)

// DefaultConfidenceThreshold is the confidence below which an
// assessment is flagged for review
const DefaultConfidenceThreshold = 0.6

// InterventionService manages human intervention requests over
// assessments. A single mutex guards the store and the id counter so
// concurrent flaggers get distinct, gap-free ids.
type InterventionService struct {
	mu       sync.Mutex
	requests map[string]*entities.InterventionRequest
	counter  int
	events   providers.EventBus
}

// NewInterventionService creates a new intervention service. The event
// bus is optional; nil disables event publication.
func NewInterventionService(events providers.EventBus) *InterventionService {
	return &InterventionService{
		requests: make(map[string]*entities.InterventionRequest),
		events:   events,
	}
}

// CreateRequest creates a new intervention request and returns its id
func (s *InterventionService) CreateRequest(
	ctx context.Context,
	assessmentID string,
	interventionType entities.InterventionType,
	assessmentData map[string]any,
	reason string,
	priority entities.InterventionPriority,
) string {
	s.mu.Lock()
	s.counter++
	requestID := fmt.Sprintf("INT-%06d", s.counter)

	request := &entities.InterventionRequest{
		ID:             requestID,
		AssessmentID:   assessmentID,
		Type:           interventionType,
		Status:         entities.InterventionStatusPending,
		Priority:       priority,
		Reason:         reason,
		CreatedAt:      time.Now(),
		AssessmentData: assessmentData,
		Comments:       []entities.Comment{},
	}
	s.requests[requestID] = request
	s.mu.Unlock()

	log.Info().
		Str("request_id", requestID).
		Str("type", string(interventionType)).
		Str("priority", string(priority)).
		Msg("Created intervention request")

	s.publish(ctx, request, entities.GovernanceEventInterventionCreated, map[string]any{
		"type":     string(interventionType),
		"priority": string(priority),
		"reason":   reason,
	})

	return requestID
}

// FlagHighRisk flags an assessment as high-risk requiring human review
func (s *InterventionService) FlagHighRisk(ctx context.Context, assessmentID string, assessmentData map[string]any, riskFactors []string) string {
	reason := fmt.Sprintf("High-risk assessment identified. Risk factors: %s", strings.Join(riskFactors, ", "))
	return s.CreateRequest(ctx, assessmentID, entities.InterventionReview, assessmentData, reason, entities.PriorityHigh)
}

// FlagLowConfidence flags an assessment whose confidence falls below the
// threshold. Returns the request id, or "" when confidence is acceptable.
func (s *InterventionService) FlagLowConfidence(ctx context.Context, assessmentID string, assessmentData map[string]any, confidence, threshold float64) string {
	if confidence >= threshold {
		return ""
	}
	reason := fmt.Sprintf("Low confidence assessment (score: %.1f%%, threshold: %.1f%%)", confidence*100, threshold*100)
	return s.CreateRequest(ctx, assessmentID, entities.InterventionReview, assessmentData, reason, entities.PriorityNormal)
}

// FlagContradictoryDiagnosis flags an assessment with conflicting diagnoses
func (s *InterventionService) FlagContradictoryDiagnosis(ctx context.Context, assessmentID string, assessmentData map[string]any, conflicting []string) string {
	reason := fmt.Sprintf("Contradictory diagnoses detected: %s", strings.Join(conflicting, ", "))
	return s.CreateRequest(ctx, assessmentID, entities.InterventionClarification, assessmentData, reason, entities.PriorityHigh)
}

// FlagUrgentSymptoms flags an assessment with symptoms needing immediate attention
func (s *InterventionService) FlagUrgentSymptoms(ctx context.Context, assessmentID string, assessmentData map[string]any, urgentSymptoms []string) string {
	reason := fmt.Sprintf("Urgent symptoms detected: %s. Immediate medical attention required.", strings.Join(urgentSymptoms, ", "))
	return s.CreateRequest(ctx, assessmentID, entities.InterventionUrgent, assessmentData, reason, entities.PriorityUrgent)
}

// Assign assigns a request to a reviewer and moves it in progress
func (s *InterventionService) Assign(ctx context.Context, requestID, assignee string) bool {
	s.mu.Lock()
	request, ok := s.requests[requestID]
	if !ok {
		s.mu.Unlock()
		log.Warn().Str("request_id", requestID).Msg("Intervention request not found")
		return false
	}
	request.AssignedTo = assignee
	request.Status = entities.InterventionStatusInProgress
	s.mu.Unlock()

	s.publish(ctx, request, entities.GovernanceEventInterventionAssigned, map[string]any{
		"assigned_to": assignee,
	})
	return true
}

// AddComment appends a reviewer comment. Comments are permitted in every
// state, including after resolution.
func (s *InterventionService) AddComment(requestID, comment, reviewer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCommentLocked(requestID, comment, reviewer)
}

func (s *InterventionService) addCommentLocked(requestID, comment, reviewer string) bool {
	request, ok := s.requests[requestID]
	if !ok {
		return false
	}
	request.Comments = append(request.Comments, entities.Comment{
		Text:      comment,
		Reviewer:  reviewer,
		Timestamp: time.Now(),
	})
	return true
}

// Approve resolves a request as approved. Approval is terminal.
func (s *InterventionService) Approve(ctx context.Context, requestID, reviewer, notes string) bool {
	return s.resolve(ctx, requestID, entities.InterventionStatusApproved, "approved", reviewer, notes, "Approval notes: ")
}

// Reject resolves a request as rejected. Rejection is terminal.
func (s *InterventionService) Reject(ctx context.Context, requestID, reviewer, reason string) bool {
	if reason == "" {
		// Rejections always record why; approvals only when notes are given.
		reason = "unspecified"
	}
	return s.resolve(ctx, requestID, entities.InterventionStatusRejected, "rejected", reviewer, reason, "Rejection reason: ")
}

func (s *InterventionService) resolve(
	ctx context.Context,
	requestID string,
	status entities.InterventionStatus,
	decision, reviewer, notes, commentPrefix string,
) bool {
	s.mu.Lock()
	request, ok := s.requests[requestID]
	if !ok || request.Resolved() {
		s.mu.Unlock()
		return false
	}
	now := time.Now()
	request.Status = status
	request.Decision = decision
	request.ResolvedAt = &now
	if notes != "" {
		s.addCommentLocked(requestID, commentPrefix+notes, reviewer)
	}
	s.mu.Unlock()

	log.Info().Str("request_id", requestID).Str("decision", decision).Msg("Resolved intervention request")

	s.publish(ctx, request, entities.GovernanceEventInterventionResolved, map[string]any{
		"decision": decision,
		"reviewer": reviewer,
	})
	return true
}

// Escalate raises a request to urgent priority. The request stays open:
// it can still be assigned, approved or rejected afterwards.
func (s *InterventionService) Escalate(ctx context.Context, requestID, escalationReason string) bool {
	s.mu.Lock()
	request, ok := s.requests[requestID]
	if !ok || request.Resolved() {
		s.mu.Unlock()
		return false
	}
	request.Status = entities.InterventionStatusEscalated
	request.Priority = entities.PriorityUrgent
	s.addCommentLocked(requestID, "Escalated: "+escalationReason, "SYSTEM")
	s.mu.Unlock()

	log.Info().Str("request_id", requestID).Msg("Escalated intervention request")

	s.publish(ctx, request, entities.GovernanceEventInterventionEscalated, map[string]any{
		"reason": escalationReason,
	})
	return true
}

// Get returns a copy of the request, and whether it exists
func (s *InterventionService) Get(requestID string) (entities.InterventionRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[requestID]
	if !ok {
		return entities.InterventionRequest{}, false
	}
	return copyIntervention(request), true
}

// Pending returns all pending requests, optionally filtered by priority.
// An empty priority matches everything.
func (s *InterventionService) Pending(priority entities.InterventionPriority) []entities.InterventionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked(priority)
}

func (s *InterventionService) pendingLocked(priority entities.InterventionPriority) []entities.InterventionRequest {
	pending := []entities.InterventionRequest{}
	for _, request := range s.requests {
		if request.Status != entities.InterventionStatusPending {
			continue
		}
		if priority != "" && request.Priority != priority {
			continue
		}
		pending = append(pending, copyIntervention(request))
	}
	return pending
}

// Urgent returns all pending urgent-priority requests
func (s *InterventionService) Urgent() []entities.InterventionRequest {
	return s.Pending(entities.PriorityUrgent)
}

// Report aggregates the state of every intervention request
func (s *InterventionService) Report() entities.InterventionReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := entities.InterventionReport{
		TotalInterventions: len(s.requests),
		Pending:            len(s.pendingLocked("")),
		Urgent:             len(s.pendingLocked(entities.PriorityUrgent)),
		Interventions:      make(map[string]entities.InterventionRequest, len(s.requests)),
	}
	for id, request := range s.requests {
		switch request.Status {
		case entities.InterventionStatusApproved:
			report.Approved++
		case entities.InterventionStatusRejected:
			report.Rejected++
		case entities.InterventionStatusEscalated:
			report.Escalated++
		}
		report.Interventions[id] = copyIntervention(request)
	}
	return report
}

func (s *InterventionService) publish(ctx context.Context, request *entities.InterventionRequest, eventType entities.GovernanceEventType, fields map[string]any) {
	if s.events == nil {
		return
	}
	event := entities.NewGovernanceEvent(request.ID, request.AssessmentID, eventType, fields)
	if err := s.events.Publish(ctx, providers.EventChannelInterventionUpdates, event); err != nil {
		log.Warn().Err(err).Str("request_id", request.ID).Msg("Failed to publish intervention event")
	}
	if request.Priority == entities.PriorityUrgent {
		if err := s.events.Publish(ctx, providers.EventChannelInterventionUrgent, event); err != nil {
			log.Warn().Err(err).Str("request_id", request.ID).Msg("Failed to publish urgent intervention event")
		}
	}
}

func copyIntervention(request *entities.InterventionRequest) entities.InterventionRequest {
	out := *request
	out.Comments = append([]entities.Comment(nil), request.Comments...)
	return out
}
