package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinassist/assessment/internal/domain/entities"
	"github.com/clinassist/assessment/internal/domain/providers"
	"github.com/clinassist/assessment/pkg/errors"
)

// DefaultApprovalChain is the sign-off hierarchy used when none is configured
var DefaultApprovalChain = []string{"physician", "supervisor", "director"}

// ApprovalService manages multi-level sign-off of assessments against a
// fixed chain of authority levels. A rejection at any level is final.
type ApprovalService struct {
	mu       sync.Mutex
	requests map[string]*entities.ApprovalRequest
	counter  int
	chain    []string
	events   providers.EventBus
}

// NewApprovalService creates a new approval service. An empty chain
// falls back to the default; a nil event bus disables publication.
func NewApprovalService(chain []string, events providers.EventBus) *ApprovalService {
	if len(chain) == 0 {
		chain = DefaultApprovalChain
	}
	return &ApprovalService{
		requests: make(map[string]*entities.ApprovalRequest),
		chain:    append([]string(nil), chain...),
		events:   events,
	}
}

// Chain returns the configured approval chain, lowest level first
func (s *ApprovalService) Chain() []string {
	return append([]string(nil), s.chain...)
}

func (s *ApprovalService) chainIndex(level string) int {
	for i, l := range s.chain {
		if l == level {
			return i
		}
	}
	return -1
}

// CreateRequest creates an approval request targeting the given chain
// level. A level outside the chain is a validation error.
func (s *ApprovalService) CreateRequest(assessmentID string, assessmentData map[string]any, requiredLevel string) (string, error) {
	if requiredLevel == "" {
		requiredLevel = s.chain[0]
	}
	if s.chainIndex(requiredLevel) < 0 {
		return "", errors.NewValidationError(fmt.Sprintf(
			"required level %q is not in the approval chain (%s)", requiredLevel, strings.Join(s.chain, " -> ")))
	}

	s.mu.Lock()
	s.counter++
	approvalID := fmt.Sprintf("APR-%06d", s.counter)
	s.requests[approvalID] = &entities.ApprovalRequest{
		ID:             approvalID,
		AssessmentID:   assessmentID,
		AssessmentData: assessmentData,
		RequiredLevel:  requiredLevel,
		Status:         entities.ApprovalStatusPending,
		CreatedAt:      time.Now(),
		Approvals:      []entities.ApprovalRecord{},
		Rejections:     []entities.RejectionRecord{},
	}
	s.mu.Unlock()

	log.Info().
		Str("approval_id", approvalID).
		Str("required_level", requiredLevel).
		Msg("Created approval request")
	return approvalID, nil
}

// ApproveAtLevel records a sign-off at one chain level. When every level
// up to the required one has signed, the request becomes fully approved.
// Sign-offs on a rejected request are recorded but cannot revive it.
func (s *ApprovalService) ApproveAtLevel(ctx context.Context, approvalID, level, approver, notes string) bool {
	s.mu.Lock()
	request, ok := s.requests[approvalID]
	if !ok {
		s.mu.Unlock()
		log.Warn().Str("approval_id", approvalID).Msg("Approval request not found")
		return false
	}

	request.Approvals = append(request.Approvals, entities.ApprovalRecord{
		Level:     level,
		Approver:  approver,
		Notes:     notes,
		Timestamp: time.Now(),
	})

	fullyApproved := false
	if request.FinalDecision == "" {
		if s.chainComplete(request) {
			now := time.Now()
			request.Status = entities.ApprovalStatusFullyApproved
			request.FinalDecision = "approved"
			request.FinalDecisionAt = &now
			fullyApproved = true
		} else {
			request.Status = entities.ApprovalStatusPartiallyApproved
		}
	}
	s.mu.Unlock()

	log.Info().
		Str("approval_id", approvalID).
		Str("level", level).
		Str("approver", approver).
		Msg("Assessment approved at level")

	if fullyApproved {
		s.publishDecision(ctx, request, "approved")
	}
	return true
}

// RejectAtLevel rejects the request at one chain level. Rejection is
// immediate and irreversible regardless of prior approvals.
func (s *ApprovalService) RejectAtLevel(ctx context.Context, approvalID, level, rejector, reason string) bool {
	s.mu.Lock()
	request, ok := s.requests[approvalID]
	if !ok {
		s.mu.Unlock()
		return false
	}

	request.Rejections = append(request.Rejections, entities.RejectionRecord{
		Level:     level,
		Rejector:  rejector,
		Reason:    reason,
		Timestamp: time.Now(),
	})

	// Rejection overrides any earlier approval; only a prior rejection
	// leaves the decision untouched.
	decided := false
	if request.FinalDecision != "rejected" {
		now := time.Now()
		request.Status = entities.ApprovalStatusRejected
		request.FinalDecision = "rejected"
		request.FinalDecisionAt = &now
		decided = true
	}
	s.mu.Unlock()

	log.Info().
		Str("approval_id", approvalID).
		Str("level", level).
		Str("rejector", rejector).
		Msg("Assessment rejected at level")

	if decided {
		s.publishDecision(ctx, request, "rejected")
	}
	return true
}

// chainComplete reports whether every chain level up to and including
// the required level appears among the recorded approvals.
func (s *ApprovalService) chainComplete(request *entities.ApprovalRequest) bool {
	requiredIndex := s.chainIndex(request.RequiredLevel)
	if requiredIndex < 0 {
		requiredIndex = 0
	}

	approved := make(map[string]bool, len(request.Approvals))
	for _, a := range request.Approvals {
		approved[a.Level] = true
	}
	for i := 0; i <= requiredIndex; i++ {
		if !approved[s.chain[i]] {
			return false
		}
	}
	return true
}

// CanProceed reports whether the assessment behind a request is cleared
func (s *ApprovalService) CanProceed(approvalID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[approvalID]
	if !ok {
		return false
	}
	return request.Status == entities.ApprovalStatusFullyApproved && request.FinalDecision == "approved"
}

// Get returns a copy of the approval request, and whether it exists
func (s *ApprovalService) Get(approvalID string) (entities.ApprovalRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[approvalID]
	if !ok {
		return entities.ApprovalRequest{}, false
	}
	return copyApproval(request), true
}

// Pending returns requests still awaiting a final decision. A non-empty
// level keeps only requests already signed at that level.
func (s *ApprovalService) Pending(level string) []entities.ApprovalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := []entities.ApprovalRequest{}
	for _, request := range s.requests {
		if request.Status != entities.ApprovalStatusPending && request.Status != entities.ApprovalStatusPartiallyApproved {
			continue
		}
		if level != "" && !signedAt(request, level) {
			continue
		}
		pending = append(pending, copyApproval(request))
	}
	return pending
}

func signedAt(request *entities.ApprovalRequest, level string) bool {
	for _, a := range request.Approvals {
		if a.Level == level {
			return true
		}
	}
	return false
}

// Status returns a condensed summary of a request, and whether it exists
func (s *ApprovalService) Status(approvalID string) (entities.ApprovalStatusSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[approvalID]
	if !ok {
		return entities.ApprovalStatusSummary{}, false
	}

	summary := entities.ApprovalStatusSummary{
		ApprovalID:      approvalID,
		Status:          request.Status,
		FinalDecision:   request.FinalDecision,
		ApprovalsCount:  len(request.Approvals),
		RejectionsCount: len(request.Rejections),
		ApprovedBy:      make([]string, 0, len(request.Approvals)),
		RejectedBy:      make([]string, 0, len(request.Rejections)),
		CreatedAt:       request.CreatedAt,
		FinalDecisionAt: request.FinalDecisionAt,
	}
	for _, a := range request.Approvals {
		summary.ApprovedBy = append(summary.ApprovedBy, a.Approver)
	}
	for _, r := range request.Rejections {
		summary.RejectedBy = append(summary.RejectedBy, r.Rejector)
	}
	return summary, true
}

// History returns the merged approval/rejection timeline in ascending
// timestamp order, and whether the request exists
func (s *ApprovalService) History(approvalID string) ([]entities.ApprovalEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[approvalID]
	if !ok {
		return nil, false
	}

	history := make([]entities.ApprovalEvent, 0, len(request.Approvals)+len(request.Rejections))
	for _, a := range request.Approvals {
		history = append(history, entities.ApprovalEvent{
			Action:    "approved",
			Level:     a.Level,
			Actor:     a.Approver,
			Notes:     a.Notes,
			Timestamp: a.Timestamp,
		})
	}
	for _, r := range request.Rejections {
		history = append(history, entities.ApprovalEvent{
			Action:    "rejected",
			Level:     r.Level,
			Actor:     r.Rejector,
			Reason:    r.Reason,
			Timestamp: r.Timestamp,
		})
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})
	return history, true
}

func (s *ApprovalService) publishDecision(ctx context.Context, request *entities.ApprovalRequest, decision string) {
	if s.events == nil {
		return
	}
	event := entities.NewGovernanceEvent(request.ID, request.AssessmentID, entities.GovernanceEventApprovalDecided, map[string]any{
		"decision": decision,
	})
	if err := s.events.Publish(ctx, providers.EventChannelApprovalUpdates, event); err != nil {
		log.Warn().Err(err).Str("approval_id", request.ID).Msg("Failed to publish approval event")
	}
}

func copyApproval(request *entities.ApprovalRequest) entities.ApprovalRequest {
	out := *request
	out.Approvals = append([]entities.ApprovalRecord(nil), request.Approvals...)
	out.Rejections = append([]entities.RejectionRecord(nil), request.Rejections...)
	return out
}
