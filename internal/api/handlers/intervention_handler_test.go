package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinassist/assessment/internal/api/handlers"
	"github.com/clinassist/assessment/internal/application/services"
	"github.com/clinassist/assessment/internal/domain/entities"
)

func newInterventionServer(t *testing.T) (*http.ServeMux, *services.InterventionService) {
	t.Helper()
	svc := services.NewInterventionService(nil)
	handler := handlers.NewInterventionHandler(svc, services.DefaultConfidenceThreshold)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/interventions/flags/high-risk", handler.FlagHighRisk)
	mux.HandleFunc("POST /api/interventions/flags/low-confidence", handler.FlagLowConfidence)
	mux.HandleFunc("POST /api/interventions/flags/urgent", handler.FlagUrgent)
	mux.HandleFunc("POST /api/interventions/{id}/assign", handler.Assign)
	mux.HandleFunc("POST /api/interventions/{id}/approve", handler.Approve)
	mux.HandleFunc("POST /api/interventions/{id}/reject", handler.Reject)
	mux.HandleFunc("GET /api/interventions/report", handler.GetReport)
	mux.HandleFunc("GET /api/interventions/{id}", handler.Get)
	return mux, svc
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestInterventionHandler_FlagHighRisk(t *testing.T) {
	mux, svc := newInterventionServer(t)

	w := doJSON(t, mux, "POST", "/api/interventions/flags/high-risk",
		`{"assessment_id":"assess-1","risk_factors":["smoking"]}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "INT-000001", response["id"])

	request, ok := svc.Get(response["id"])
	require.True(t, ok)
	assert.Equal(t, entities.PriorityHigh, request.Priority)
}

func TestInterventionHandler_FlagHighRisk_MissingAssessmentID(t *testing.T) {
	mux, _ := newInterventionServer(t)

	w := doJSON(t, mux, "POST", "/api/interventions/flags/high-risk", `{"risk_factors":["smoking"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInterventionHandler_FlagLowConfidence(t *testing.T) {
	mux, _ := newInterventionServer(t)

	w := doJSON(t, mux, "POST", "/api/interventions/flags/low-confidence",
		`{"assessment_id":"assess-1","confidence":0.3}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Acceptable confidence creates no request.
	w = doJSON(t, mux, "POST", "/api/interventions/flags/low-confidence",
		`{"assessment_id":"assess-1","confidence":0.9}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "confidence_acceptable", response["status"])

	// Missing confidence is rejected.
	w = doJSON(t, mux, "POST", "/api/interventions/flags/low-confidence",
		`{"assessment_id":"assess-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInterventionHandler_AssignAndResolve(t *testing.T) {
	mux, svc := newInterventionServer(t)
	w := doJSON(t, mux, "POST", "/api/interventions/flags/urgent",
		`{"assessment_id":"assess-1","urgent_symptoms":["severe chest pain"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	id := created["id"]

	w = doJSON(t, mux, "POST", "/api/interventions/"+id+"/assign", `{"assigned_to":"dr.adams"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, "POST", "/api/interventions/"+id+"/approve", `{"reviewer":"dr.adams","notes":"verified"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// Resolution is terminal.
	w = doJSON(t, mux, "POST", "/api/interventions/"+id+"/reject", `{"reviewer":"dr.baker"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	request, _ := svc.Get(id)
	assert.Equal(t, entities.InterventionStatusApproved, request.Status)
}

func TestInterventionHandler_GetNotFound(t *testing.T) {
	mux, _ := newInterventionServer(t)

	req := httptest.NewRequest("GET", "/api/interventions/INT-999999", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInterventionHandler_Report(t *testing.T) {
	mux, _ := newInterventionServer(t)
	doJSON(t, mux, "POST", "/api/interventions/flags/high-risk", `{"assessment_id":"a1"}`)
	doJSON(t, mux, "POST", "/api/interventions/flags/urgent", `{"assessment_id":"a2","urgent_symptoms":["severe bleeding"]}`)

	req := httptest.NewRequest("GET", "/api/interventions/report", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var report entities.InterventionReport
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	assert.Equal(t, 2, report.TotalInterventions)
	assert.Equal(t, 2, report.Pending)
	assert.Equal(t, 1, report.Urgent)
}
