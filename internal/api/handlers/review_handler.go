package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clinassist/assessment/internal/domain/entities"
)

// ReviewService defines the review operations used by the handler.
type ReviewService interface {
	Create(interventionID string, assessmentData map[string]any, reviewer string) string
	AddFinding(reviewID, finding string, severity entities.FindingSeverity) bool
	AddQuestion(reviewID, question, field string) bool
	AddRecommendation(reviewID, recommendation, actionType string) bool
	Complete(ctx context.Context, reviewID string) bool
	Get(reviewID string) (entities.Review, bool)
	Summary(reviewID string) (entities.ReviewSummary, bool)
}

// ReviewHandler handles assessment review requests.
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type createReviewRequest struct {
	InterventionID string         `json:"intervention_id"`
	AssessmentData map[string]any `json:"assessment_data"`
	Reviewer       string         `json:"reviewer"`
}

// Create handles POST /api/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.InterventionID == "" {
		respondWithError(w, http.StatusBadRequest, "intervention_id is required")
		return
	}

	id := h.service.Create(payload.InterventionID, payload.AssessmentData, payload.Reviewer)
	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type reviewEntryRequest struct {
	Finding        string `json:"finding"`
	Severity       string `json:"severity"`
	Question       string `json:"question"`
	Field          string `json:"field"`
	Recommendation string `json:"recommendation"`
	ActionType     string `json:"action_type"`
}

func decodeReviewEntry(w http.ResponseWriter, r *http.Request) (*reviewEntryRequest, bool) {
	var payload reviewEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return nil, false
	}
	return &payload, true
}

// AddFinding handles POST /api/reviews/{id}/findings
func (h *ReviewHandler) AddFinding(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeReviewEntry(w, r)
	if !ok {
		return
	}
	if payload.Finding == "" {
		respondWithError(w, http.StatusBadRequest, "finding is required")
		return
	}
	if !h.service.AddFinding(r.PathValue("id"), payload.Finding, entities.FindingSeverity(payload.Severity)) {
		respondWithError(w, http.StatusConflict, "review not found or already completed")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "finding_added"})
}

// AddQuestion handles POST /api/reviews/{id}/questions
func (h *ReviewHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeReviewEntry(w, r)
	if !ok {
		return
	}
	if payload.Question == "" {
		respondWithError(w, http.StatusBadRequest, "question is required")
		return
	}
	if !h.service.AddQuestion(r.PathValue("id"), payload.Question, payload.Field) {
		respondWithError(w, http.StatusConflict, "review not found or already completed")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "question_added"})
}

// AddRecommendation handles POST /api/reviews/{id}/recommendations
func (h *ReviewHandler) AddRecommendation(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeReviewEntry(w, r)
	if !ok {
		return
	}
	if payload.Recommendation == "" {
		respondWithError(w, http.StatusBadRequest, "recommendation is required")
		return
	}
	if !h.service.AddRecommendation(r.PathValue("id"), payload.Recommendation, payload.ActionType) {
		respondWithError(w, http.StatusConflict, "review not found or already completed")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "recommendation_added"})
}

// Complete handles POST /api/reviews/{id}/complete
func (h *ReviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if !h.service.Complete(r.Context(), r.PathValue("id")) {
		respondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	summary, _ := h.service.Summary(r.PathValue("id"))
	respondWithJSON(w, http.StatusOK, summary)
}

// Get handles GET /api/reviews/{id}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	review, ok := h.service.Get(r.PathValue("id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "review not found")
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// GetSummary handles GET /api/reviews/{id}/summary
func (h *ReviewHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.service.Summary(r.PathValue("id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "review not found")
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}
