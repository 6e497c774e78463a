package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clinassist/assessment/internal/adapters/stages"
	"github.com/clinassist/assessment/internal/domain/entities"
)

// AssessmentService defines the orchestration operations used by the handler.
type AssessmentService interface {
	Initialize(patient entities.Patient, symptoms []entities.Symptom) (*entities.AssessmentRecord, error)
	Run(ctx context.Context, record *entities.AssessmentRecord) *entities.AssessmentRecord
}

// AssessmentFlagger defines the intervention flags raised automatically
// after a completed run.
type AssessmentFlagger interface {
	FlagLowConfidence(ctx context.Context, assessmentID string, assessmentData map[string]any, confidence, threshold float64) string
	FlagUrgentSymptoms(ctx context.Context, assessmentID string, assessmentData map[string]any, urgentSymptoms []string) string
}

// AssessmentHandler handles assessment runs.
type AssessmentHandler struct {
	service             AssessmentService
	flagger             AssessmentFlagger
	confidenceThreshold float64
}

// NewAssessmentHandler creates a new assessment handler. The flagger is
// optional; nil disables automatic flagging.
func NewAssessmentHandler(service AssessmentService, flagger AssessmentFlagger, confidenceThreshold float64) *AssessmentHandler {
	return &AssessmentHandler{
		service:             service,
		flagger:             flagger,
		confidenceThreshold: confidenceThreshold,
	}
}

// assessmentRequest accepts both flat patient fields and a nested
// patient object.
type assessmentRequest struct {
	entities.Patient
	NestedPatient *entities.Patient  `json:"patient"`
	Symptoms      []entities.Symptom `json:"symptoms"`
}

// RunAssessment handles POST /api/assessments
func (h *AssessmentHandler) RunAssessment(w http.ResponseWriter, r *http.Request) {
	var payload assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	patient := payload.Patient
	if payload.NestedPatient != nil {
		patient = *payload.NestedPatient
	}

	record, err := h.service.Initialize(patient, payload.Symptoms)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	record = h.service.Run(r.Context(), record)

	flagged := h.autoFlag(r.Context(), record)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"assessment": record,
		"flags":      flagged,
	})
}

// autoFlag raises intervention requests for urgent symptoms and
// low-confidence diagnoses on a completed run.
func (h *AssessmentHandler) autoFlag(ctx context.Context, record *entities.AssessmentRecord) []string {
	flagged := []string{}
	if h.flagger == nil || record.Status != entities.AssessmentStatusCompleted {
		return flagged
	}

	data := map[string]any{
		"patient_name": record.Patient.Name,
		"symptoms":     record.SymptomNames(),
	}

	if urgent := stages.DetectUrgentSymptoms(record.Symptoms); len(urgent) > 0 {
		flagged = append(flagged, h.flagger.FlagUrgentSymptoms(ctx, record.ID, data, urgent))
	}

	if len(record.Diagnoses) > 0 {
		confidence := record.Diagnoses[0].ConfidenceScore
		if id := h.flagger.FlagLowConfidence(ctx, record.ID, data, confidence, h.confidenceThreshold); id != "" {
			flagged = append(flagged, id)
		}
	}

	return flagged
}
