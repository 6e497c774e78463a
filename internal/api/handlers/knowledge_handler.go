package handlers

import (
	"net/http"

	"github.com/clinassist/assessment/internal/domain/providers"
)

// KnowledgeHandler exposes read access to the medical knowledge base.
type KnowledgeHandler struct {
	store providers.KnowledgeStore
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(store providers.KnowledgeStore) *KnowledgeHandler {
	return &KnowledgeHandler{store: store}
}

// ListDiseases handles GET /api/knowledge/diseases
func (h *KnowledgeHandler) ListDiseases(w http.ResponseWriter, r *http.Request) {
	diseases, err := h.store.AllDiseases(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load diseases")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"diseases": diseases,
		"count":    len(diseases),
	})
}

// ListSymptoms handles GET /api/knowledge/symptoms
func (h *KnowledgeHandler) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	symptoms, err := h.store.AllSymptoms(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load symptoms")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symptoms": symptoms,
		"count":    len(symptoms),
	})
}

// GetDisease handles GET /api/knowledge/diseases/{name}
func (h *KnowledgeHandler) GetDisease(w http.ResponseWriter, r *http.Request) {
	disease, err := h.store.LookupByDisease(r.Context(), r.PathValue("name"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to look up disease")
		return
	}
	if disease == nil {
		respondWithError(w, http.StatusNotFound, "disease not found")
		return
	}
	respondWithJSON(w, http.StatusOK, disease)
}

// CheckInteraction handles GET /api/knowledge/interactions?drug_a=X&drug_b=Y
func (h *KnowledgeHandler) CheckInteraction(w http.ResponseWriter, r *http.Request) {
	drugA := r.URL.Query().Get("drug_a")
	drugB := r.URL.Query().Get("drug_b")
	if drugA == "" || drugB == "" {
		respondWithError(w, http.StatusBadRequest, "drug_a and drug_b are required")
		return
	}

	interaction, err := h.store.CheckInteraction(r.Context(), drugA, drugB)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to check interaction")
		return
	}
	if interaction == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"interaction_found": false})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"interaction_found": true,
		"interaction":       interaction,
	})
}

// CheckAllergy handles GET /api/knowledge/allergies?allergy=X
func (h *KnowledgeHandler) CheckAllergy(w http.ResponseWriter, r *http.Request) {
	allergy := r.URL.Query().Get("allergy")
	if allergy == "" {
		respondWithError(w, http.StatusBadRequest, "allergy is required")
		return
	}

	warning, err := h.store.CheckAllergy(r.Context(), allergy)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to check allergy")
		return
	}
	if warning == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"warning_found": false})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"warning_found": true,
		"warning":       warning,
	})
}
