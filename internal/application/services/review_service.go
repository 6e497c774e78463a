package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinassist/assessment/internal/domain/entities"
	"github.com/clinassist/assessment/internal/domain/providers"
)

// ReviewService manages the detailed review of flagged assessments.
// A completed review is immutable apart from reads.
type ReviewService struct {
	mu      sync.Mutex
	reviews map[string]*entities.Review
	counter int
	events  providers.EventBus
}

// NewReviewService creates a new review service. The event bus is
// optional; nil disables event publication.
func NewReviewService(events providers.EventBus) *ReviewService {
	return &ReviewService{
		reviews: make(map[string]*entities.Review),
		events:  events,
	}
}

// Create opens a new review for an intervention and returns its id
func (s *ReviewService) Create(interventionID string, assessmentData map[string]any, reviewer string) string {
	s.mu.Lock()
	s.counter++
	reviewID := fmt.Sprintf("REV-%06d", s.counter)
	s.reviews[reviewID] = &entities.Review{
		ID:              reviewID,
		InterventionID:  interventionID,
		Reviewer:        reviewer,
		CreatedAt:       time.Now(),
		AssessmentData:  assessmentData,
		Findings:        []entities.Finding{},
		Questions:       []entities.Question{},
		Recommendations: []entities.Recommendation{},
		Status:          entities.ReviewStatusInProgress,
	}
	s.mu.Unlock()

	log.Info().Str("review_id", reviewID).Str("reviewer", reviewer).Msg("Created review")
	return reviewID
}

// AddFinding records a finding. An empty severity defaults to normal.
func (s *ReviewService) AddFinding(reviewID, finding string, severity entities.FindingSeverity) bool {
	if severity == "" {
		severity = entities.FindingNormal
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.mutableReview(reviewID)
	if !ok {
		return false
	}
	review.Findings = append(review.Findings, entities.Finding{
		Text:      finding,
		Severity:  severity,
		Timestamp: time.Now(),
	})
	return true
}

// AddQuestion records an open question, optionally tied to a field
func (s *ReviewService) AddQuestion(reviewID, question, field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.mutableReview(reviewID)
	if !ok {
		return false
	}
	review.Questions = append(review.Questions, entities.Question{
		Text:      question,
		Field:     field,
		Timestamp: time.Now(),
	})
	return true
}

// AddRecommendation records a follow-up action. An empty action type
// defaults to follow_up.
func (s *ReviewService) AddRecommendation(reviewID, recommendation, actionType string) bool {
	if actionType == "" {
		actionType = "follow_up"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.mutableReview(reviewID)
	if !ok {
		return false
	}
	review.Recommendations = append(review.Recommendations, entities.Recommendation{
		Text:       recommendation,
		ActionType: actionType,
		Timestamp:  time.Now(),
	})
	return true
}

// mutableReview returns a review only while it still accepts changes
func (s *ReviewService) mutableReview(reviewID string) (*entities.Review, bool) {
	review, ok := s.reviews[reviewID]
	if !ok || review.Status == entities.ReviewStatusCompleted {
		return nil, false
	}
	return review, true
}

// Complete marks the review completed. Completing an already completed
// review is a no-op that still reports success.
func (s *ReviewService) Complete(ctx context.Context, reviewID string) bool {
	s.mu.Lock()
	review, ok := s.reviews[reviewID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	alreadyDone := review.Status == entities.ReviewStatusCompleted
	if !alreadyDone {
		now := time.Now()
		review.Status = entities.ReviewStatusCompleted
		review.CompletedAt = &now
	}
	s.mu.Unlock()

	if !alreadyDone {
		log.Info().Str("review_id", reviewID).Msg("Completed review")
		s.publishCompleted(ctx, review)
	}
	return true
}

// Get returns a copy of the review, and whether it exists
func (s *ReviewService) Get(reviewID string) (entities.Review, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[reviewID]
	if !ok {
		return entities.Review{}, false
	}
	return copyReview(review), true
}

// Summary condenses a review into severity counts, and reports whether
// the review exists
func (s *ReviewService) Summary(reviewID string) (entities.ReviewSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[reviewID]
	if !ok {
		return entities.ReviewSummary{}, false
	}

	summary := entities.ReviewSummary{
		ReviewID:             reviewID,
		Reviewer:             review.Reviewer,
		Status:               review.Status,
		TotalFindings:        len(review.Findings),
		TotalQuestions:       len(review.Questions),
		TotalRecommendations: len(review.Recommendations),
		CompletedAt:          review.CompletedAt,
	}
	for _, f := range review.Findings {
		switch f.Severity {
		case entities.FindingCritical:
			summary.CriticalFindings++
		case entities.FindingHigh:
			summary.HighFindings++
		}
	}
	return summary, true
}

func (s *ReviewService) publishCompleted(ctx context.Context, review *entities.Review) {
	if s.events == nil {
		return
	}
	event := entities.NewGovernanceEvent(review.ID, review.InterventionID, entities.GovernanceEventReviewCompleted, map[string]any{
		"reviewer": review.Reviewer,
		"findings": len(review.Findings),
	})
	if err := s.events.Publish(ctx, providers.EventChannelInterventionUpdates, event); err != nil {
		log.Warn().Err(err).Str("review_id", review.ID).Msg("Failed to publish review event")
	}
}

func copyReview(review *entities.Review) entities.Review {
	out := *review
	out.Findings = append([]entities.Finding(nil), review.Findings...)
	out.Questions = append([]entities.Question(nil), review.Questions...)
	out.Recommendations = append([]entities.Recommendation(nil), review.Recommendations...)
	return out
}
