package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clinassist/assessment/internal/domain/entities"
)

// ApprovalService defines the approval chain operations used by the handler.
type ApprovalService interface {
	CreateRequest(assessmentID string, assessmentData map[string]any, requiredLevel string) (string, error)
	ApproveAtLevel(ctx context.Context, approvalID, level, approver, notes string) bool
	RejectAtLevel(ctx context.Context, approvalID, level, rejector, reason string) bool
	CanProceed(approvalID string) bool
	Get(approvalID string) (entities.ApprovalRequest, bool)
	Pending(level string) []entities.ApprovalRequest
	Status(approvalID string) (entities.ApprovalStatusSummary, bool)
	History(approvalID string) ([]entities.ApprovalEvent, bool)
}

// ApprovalHandler handles multi-level approval requests.
type ApprovalHandler struct {
	service ApprovalService
}

// NewApprovalHandler creates a new approval handler.
func NewApprovalHandler(service ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: service}
}

type createApprovalRequest struct {
	AssessmentID   string         `json:"assessment_id"`
	AssessmentData map[string]any `json:"assessment_data"`
	RequiredLevel  string         `json:"required_level"`
}

// Create handles POST /api/approvals
func (h *ApprovalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.AssessmentID == "" {
		respondWithError(w, http.StatusBadRequest, "assessment_id is required")
		return
	}

	id, err := h.service.CreateRequest(payload.AssessmentID, payload.AssessmentData, payload.RequiredLevel)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type approvalDecisionRequest struct {
	Level    string `json:"level"`
	Approver string `json:"approver"`
	Rejector string `json:"rejector"`
	Notes    string `json:"notes"`
	Reason   string `json:"reason"`
}

// Approve handles POST /api/approvals/{id}/approvals
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var payload approvalDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Level == "" {
		respondWithError(w, http.StatusBadRequest, "level is required")
		return
	}
	if !h.service.ApproveAtLevel(r.Context(), r.PathValue("id"), payload.Level, payload.Approver, payload.Notes) {
		respondWithError(w, http.StatusNotFound, "approval request not found")
		return
	}

	status, _ := h.service.Status(r.PathValue("id"))
	respondWithJSON(w, http.StatusOK, status)
}

// Reject handles POST /api/approvals/{id}/rejections
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var payload approvalDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Level == "" {
		respondWithError(w, http.StatusBadRequest, "level is required")
		return
	}
	if !h.service.RejectAtLevel(r.Context(), r.PathValue("id"), payload.Level, payload.Rejector, payload.Reason) {
		respondWithError(w, http.StatusNotFound, "approval request not found")
		return
	}

	status, _ := h.service.Status(r.PathValue("id"))
	respondWithJSON(w, http.StatusOK, status)
}

// Get handles GET /api/approvals/{id}
func (h *ApprovalHandler) Get(w http.ResponseWriter, r *http.Request) {
	request, ok := h.service.Get(r.PathValue("id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "approval request not found")
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}

// GetStatus handles GET /api/approvals/{id}/status
func (h *ApprovalHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := h.service.Status(r.PathValue("id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "approval request not found")
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

// GetHistory handles GET /api/approvals/{id}/history
func (h *ApprovalHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, ok := h.service.History(r.PathValue("id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "approval request not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events": history,
		"count":  len(history),
	})
}

// GetCanProceed handles GET /api/approvals/{id}/can-proceed
func (h *ApprovalHandler) GetCanProceed(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.service.Get(r.PathValue("id")); !ok {
		respondWithError(w, http.StatusNotFound, "approval request not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{
		"can_proceed": h.service.CanProceed(r.PathValue("id")),
	})
}

// ListPending handles GET /api/approvals/pending
func (h *ApprovalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending := h.service.Pending(r.URL.Query().Get("level"))
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"approvals": pending,
		"count":     len(pending),
	})
}
