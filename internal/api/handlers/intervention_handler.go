package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clinassist/assessment/internal/domain/entities"
)

// InterventionService defines the intervention operations used by the handler.
type InterventionService interface {
	FlagHighRisk(ctx context.Context, assessmentID string, assessmentData map[string]any, riskFactors []string) string
	FlagLowConfidence(ctx context.Context, assessmentID string, assessmentData map[string]any, confidence, threshold float64) string
	FlagContradictoryDiagnosis(ctx context.Context, assessmentID string, assessmentData map[string]any, conflicting []string) string
	FlagUrgentSymptoms(ctx context.Context, assessmentID string, assessmentData map[string]any, urgentSymptoms []string) string
	Assign(ctx context.Context, requestID, assignee string) bool
	AddComment(requestID, comment, reviewer string) bool
	Approve(ctx context.Context, requestID, reviewer, notes string) bool
	Reject(ctx context.Context, requestID, reviewer, reason string) bool
	Escalate(ctx context.Context, requestID, escalationReason string) bool
	Get(requestID string) (entities.InterventionRequest, bool)
	Pending(priority entities.InterventionPriority) []entities.InterventionRequest
	Urgent() []entities.InterventionRequest
	Report() entities.InterventionReport
}

// InterventionHandler handles intervention workflow requests.
type InterventionHandler struct {
	service             InterventionService
	confidenceThreshold float64
}

// NewInterventionHandler creates a new intervention handler.
func NewInterventionHandler(service InterventionService, confidenceThreshold float64) *InterventionHandler {
	return &InterventionHandler{service: service, confidenceThreshold: confidenceThreshold}
}

type flagRequest struct {
	AssessmentID   string         `json:"assessment_id"`
	AssessmentData map[string]any `json:"assessment_data"`
	RiskFactors    []string       `json:"risk_factors"`
	Confidence     *float64       `json:"confidence"`
	Threshold      *float64       `json:"threshold"`
	Conflicting    []string       `json:"conflicting_diagnoses"`
	UrgentSymptoms []string       `json:"urgent_symptoms"`
}

func decodeFlagRequest(w http.ResponseWriter, r *http.Request) (*flagRequest, bool) {
	var payload flagRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return nil, false
	}
	if payload.AssessmentID == "" {
		respondWithError(w, http.StatusBadRequest, "assessment_id is required")
		return nil, false
	}
	return &payload, true
}

// FlagHighRisk handles POST /api/interventions/flags/high-risk
func (h *InterventionHandler) FlagHighRisk(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeFlagRequest(w, r)
	if !ok {
		return
	}
	id := h.service.FlagHighRisk(r.Context(), payload.AssessmentID, payload.AssessmentData, payload.RiskFactors)
	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// FlagLowConfidence handles POST /api/interventions/flags/low-confidence
func (h *InterventionHandler) FlagLowConfidence(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeFlagRequest(w, r)
	if !ok {
		return
	}
	if payload.Confidence == nil {
		respondWithError(w, http.StatusBadRequest, "confidence is required")
		return
	}
	threshold := h.confidenceThreshold
	if payload.Threshold != nil {
		threshold = *payload.Threshold
	}

	id := h.service.FlagLowConfidence(r.Context(), payload.AssessmentID, payload.AssessmentData, *payload.Confidence, threshold)
	if id == "" {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "confidence_acceptable"})
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// FlagContradiction handles POST /api/interventions/flags/contradiction
func (h *InterventionHandler) FlagContradiction(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeFlagRequest(w, r)
	if !ok {
		return
	}
	id := h.service.FlagContradictoryDiagnosis(r.Context(), payload.AssessmentID, payload.AssessmentData, payload.Conflicting)
	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// FlagUrgent handles POST /api/interventions/flags/urgent
func (h *InterventionHandler) FlagUrgent(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeFlagRequest(w, r)
	if !ok {
		return
	}
	id := h.service.FlagUrgentSymptoms(r.Context(), payload.AssessmentID, payload.AssessmentData, payload.UrgentSymptoms)
	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type actionRequest struct {
	AssignedTo string `json:"assigned_to"`
	Comment    string `json:"comment"`
	Reviewer   string `json:"reviewer"`
	Notes      string `json:"notes"`
	Reason     string `json:"reason"`
}

func decodeActionRequest(w http.ResponseWriter, r *http.Request) (*actionRequest, bool) {
	var payload actionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return nil, false
	}
	return &payload, true
}

// Assign handles POST /api/interventions/{id}/assign
func (h *InterventionHandler) Assign(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeActionRequest(w, r)
	if !ok {
		return
	}
	if payload.AssignedTo == "" {
		respondWithError(w, http.StatusBadRequest, "assigned_to is required")
		return
	}
	if !h.service.Assign(r.Context(), r.PathValue("id"), payload.AssignedTo) {
		respondWithError(w, http.StatusNotFound, "intervention request not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

// AddComment handles POST /api/interventions/{id}/comments
func (h *InterventionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeActionRequest(w, r)
	if !ok {
		return
	}
	if payload.Comment == "" {
		respondWithError(w, http.StatusBadRequest, "comment is required")
		return
	}
	if !h.service.AddComment(r.PathValue("id"), payload.Comment, payload.Reviewer) {
		respondWithError(w, http.StatusNotFound, "intervention request not found")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "comment_added"})
}

// Approve handles POST /api/interventions/{id}/approve
func (h *InterventionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeActionRequest(w, r)
	if !ok {
		return
	}
	if !h.service.Approve(r.Context(), r.PathValue("id"), payload.Reviewer, payload.Notes) {
		respondWithError(w, http.StatusConflict, "intervention request not found or already resolved")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

// Reject handles POST /api/interventions/{id}/reject
func (h *InterventionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeActionRequest(w, r)
	if !ok {
		return
	}
	if !h.service.Reject(r.Context(), r.PathValue("id"), payload.Reviewer, payload.Reason) {
		respondWithError(w, http.StatusConflict, "intervention request not found or already resolved")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// Escalate handles POST /api/interventions/{id}/escalate
func (h *InterventionHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeActionRequest(w, r)
	if !ok {
		return
	}
	if !h.service.Escalate(r.Context(), r.PathValue("id"), payload.Reason) {
		respondWithError(w, http.StatusConflict, "intervention request not found or already resolved")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "escalated"})
}

// Get handles GET /api/interventions/{id}
func (h *InterventionHandler) Get(w http.ResponseWriter, r *http.Request) {
	request, ok := h.service.Get(r.PathValue("id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "intervention request not found")
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}

// ListPending handles GET /api/interventions/pending
func (h *InterventionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	priority := entities.InterventionPriority(r.URL.Query().Get("priority"))
	pending := h.service.Pending(priority)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"interventions": pending,
		"count":         len(pending),
	})
}

// ListUrgent handles GET /api/interventions/urgent
func (h *InterventionHandler) ListUrgent(w http.ResponseWriter, r *http.Request) {
	urgent := h.service.Urgent()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"interventions": urgent,
		"count":         len(urgent),
	})
}

// GetReport handles GET /api/interventions/report
func (h *InterventionHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.Report())
}
