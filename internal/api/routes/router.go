package routes

import (
	"net/http"

	"github.com/clinassist/assessment/internal/api/handlers"
	"github.com/clinassist/assessment/internal/api/middleware"
	"github.com/clinassist/assessment/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	assessmentHandler   *handlers.AssessmentHandler
	interventionHandler *handlers.InterventionHandler
	approvalHandler     *handlers.ApprovalHandler
	reviewHandler       *handlers.ReviewHandler
	knowledgeHandler    *handlers.KnowledgeHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	assessmentHandler *handlers.AssessmentHandler,
	interventionHandler *handlers.InterventionHandler,
	approvalHandler *handlers.ApprovalHandler,
	reviewHandler *handlers.ReviewHandler,
	knowledgeHandler *handlers.KnowledgeHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		assessmentHandler:   assessmentHandler,
		interventionHandler: interventionHandler,
		approvalHandler:     approvalHandler,
		reviewHandler:       reviewHandler,
		knowledgeHandler:    knowledgeHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Assessment endpoints
	if r.assessmentHandler != nil {
		r.mux.HandleFunc("POST /api/assessments", r.assessmentHandler.RunAssessment)
	}

	// Intervention endpoints
	r.mux.HandleFunc("POST /api/interventions/flags/high-risk", r.interventionHandler.FlagHighRisk)
	r.mux.HandleFunc("POST /api/interventions/flags/low-confidence", r.interventionHandler.FlagLowConfidence)
	r.mux.HandleFunc("POST /api/interventions/flags/contradiction", r.interventionHandler.FlagContradiction)
	r.mux.HandleFunc("POST /api/interventions/flags/urgent", r.interventionHandler.FlagUrgent)

	r.mux.HandleFunc("POST /api/interventions/{id}/assign", r.interventionHandler.Assign)
	r.mux.HandleFunc("POST /api/interventions/{id}/comments", r.interventionHandler.AddComment)
	r.mux.HandleFunc("POST /api/interventions/{id}/approve", r.interventionHandler.Approve)
	r.mux.HandleFunc("POST /api/interventions/{id}/reject", r.interventionHandler.Reject)
	r.mux.HandleFunc("POST /api/interventions/{id}/escalate", r.interventionHandler.Escalate)

	r.mux.HandleFunc("GET /api/interventions/pending", r.interventionHandler.ListPending)
	r.mux.HandleFunc("GET /api/interventions/urgent", r.interventionHandler.ListUrgent)
	r.mux.HandleFunc("GET /api/interventions/report", r.interventionHandler.GetReport)
	r.mux.HandleFunc("GET /api/interventions/{id}", r.interventionHandler.Get)

	// Approval endpoints
	r.mux.HandleFunc("POST /api/approvals", r.approvalHandler.Create)
	r.mux.HandleFunc("POST /api/approvals/{id}/approvals", r.approvalHandler.Approve)
	r.mux.HandleFunc("POST /api/approvals/{id}/rejections", r.approvalHandler.Reject)

	r.mux.HandleFunc("GET /api/approvals/pending", r.approvalHandler.ListPending)
	r.mux.HandleFunc("GET /api/approvals/{id}", r.approvalHandler.Get)
	r.mux.HandleFunc("GET /api/approvals/{id}/status", r.approvalHandler.GetStatus)
	r.mux.HandleFunc("GET /api/approvals/{id}/history", r.approvalHandler.GetHistory)
	r.mux.HandleFunc("GET /api/approvals/{id}/can-proceed", r.approvalHandler.GetCanProceed)

	// Review endpoints
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.Create)
	r.mux.HandleFunc("POST /api/reviews/{id}/findings", r.reviewHandler.AddFinding)
	r.mux.HandleFunc("POST /api/reviews/{id}/questions", r.reviewHandler.AddQuestion)
	r.mux.HandleFunc("POST /api/reviews/{id}/recommendations", r.reviewHandler.AddRecommendation)
	r.mux.HandleFunc("POST /api/reviews/{id}/complete", r.reviewHandler.Complete)

	r.mux.HandleFunc("GET /api/reviews/{id}", r.reviewHandler.Get)
	r.mux.HandleFunc("GET /api/reviews/{id}/summary", r.reviewHandler.GetSummary)

	// Knowledge base endpoints
	r.mux.HandleFunc("GET /api/knowledge/diseases", r.knowledgeHandler.ListDiseases)
	r.mux.HandleFunc("GET /api/knowledge/diseases/{name}", r.knowledgeHandler.GetDisease)
	r.mux.HandleFunc("GET /api/knowledge/symptoms", r.knowledgeHandler.ListSymptoms)
	r.mux.HandleFunc("GET /api/knowledge/interactions", r.knowledgeHandler.CheckInteraction)
	r.mux.HandleFunc("GET /api/knowledge/allergies", r.knowledgeHandler.CheckAllergy)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
