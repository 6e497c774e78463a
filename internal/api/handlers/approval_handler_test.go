package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinassist/assessment/internal/api/handlers"
	"github.com/clinassist/assessment/internal/application/services"
	"github.com/clinassist/assessment/internal/domain/entities"
)

func newApprovalServer(t *testing.T) *http.ServeMux {
	t.Helper()
	svc := services.NewApprovalService(nil, nil)
	handler := handlers.NewApprovalHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/approvals", handler.Create)
	mux.HandleFunc("POST /api/approvals/{id}/approvals", handler.Approve)
	mux.HandleFunc("POST /api/approvals/{id}/rejections", handler.Reject)
	mux.HandleFunc("GET /api/approvals/pending", handler.ListPending)
	mux.HandleFunc("GET /api/approvals/{id}", handler.Get)
	mux.HandleFunc("GET /api/approvals/{id}/status", handler.GetStatus)
	mux.HandleFunc("GET /api/approvals/{id}/history", handler.GetHistory)
	mux.HandleFunc("GET /api/approvals/{id}/can-proceed", handler.GetCanProceed)
	return mux
}

func createApproval(t *testing.T, mux *http.ServeMux, requiredLevel string) string {
	t.Helper()
	w := doJSON(t, mux, "POST", "/api/approvals",
		`{"assessment_id":"assess-1","required_level":"`+requiredLevel+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response["id"]
}

func TestApprovalHandler_Create(t *testing.T) {
	mux := newApprovalServer(t)
	id := createApproval(t, mux, "supervisor")
	assert.Equal(t, "APR-000001", id)
}

func TestApprovalHandler_Create_InvalidLevel(t *testing.T) {
	mux := newApprovalServer(t)

	w := doJSON(t, mux, "POST", "/api/approvals",
		`{"assessment_id":"assess-1","required_level":"janitor"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprovalHandler_ApprovalFlow(t *testing.T) {
	mux := newApprovalServer(t)
	id := createApproval(t, mux, "supervisor")

	w := doJSON(t, mux, "POST", "/api/approvals/"+id+"/approvals",
		`{"level":"physician","approver":"dr.adams"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var status entities.ApprovalStatusSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, entities.ApprovalStatusPartiallyApproved, status.Status)

	w = doJSON(t, mux, "POST", "/api/approvals/"+id+"/approvals",
		`{"level":"supervisor","approver":"dr.baker"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, entities.ApprovalStatusFullyApproved, status.Status)
	assert.Equal(t, "approved", status.FinalDecision)

	req := httptest.NewRequest("GET", "/api/approvals/"+id+"/can-proceed", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var proceed map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&proceed))
	assert.True(t, proceed["can_proceed"])
}

func TestApprovalHandler_Rejection(t *testing.T) {
	mux := newApprovalServer(t)
	id := createApproval(t, mux, "physician")

	w := doJSON(t, mux, "POST", "/api/approvals/"+id+"/rejections",
		`{"level":"physician","rejector":"dr.adams","reason":"insufficient evidence"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var status entities.ApprovalStatusSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, entities.ApprovalStatusRejected, status.Status)
	assert.Equal(t, "rejected", status.FinalDecision)
}

func TestApprovalHandler_DecisionRequiresLevel(t *testing.T) {
	mux := newApprovalServer(t)
	id := createApproval(t, mux, "physician")

	w := doJSON(t, mux, "POST", "/api/approvals/"+id+"/approvals", `{"approver":"dr.adams"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApprovalHandler_History(t *testing.T) {
	mux := newApprovalServer(t)
	id := createApproval(t, mux, "supervisor")
	doJSON(t, mux, "POST", "/api/approvals/"+id+"/approvals", `{"level":"physician","approver":"dr.adams"}`)
	doJSON(t, mux, "POST", "/api/approvals/"+id+"/rejections", `{"level":"supervisor","rejector":"dr.baker","reason":"no"}`)

	req := httptest.NewRequest("GET", "/api/approvals/"+id+"/history", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Events []entities.ApprovalEvent `json:"events"`
		Count  int                      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, "approved", response.Events[0].Action)
	assert.Equal(t, "rejected", response.Events[1].Action)
}

func TestApprovalHandler_NotFound(t *testing.T) {
	mux := newApprovalServer(t)

	for _, path := range []string{
		"/api/approvals/APR-999999",
		"/api/approvals/APR-999999/status",
		"/api/approvals/APR-999999/history",
		"/api/approvals/APR-999999/can-proceed",
	} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}
