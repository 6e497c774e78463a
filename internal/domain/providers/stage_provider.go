package providers

import (
	"context"

	"github.com/clinassist/assessment/internal/domain/entities"
)

// DataStage gathers reference medical data relevant to the reported symptoms
type DataStage interface {
	CollectData(ctx context.Context, record *entities.AssessmentRecord) (*entities.MedicalData, error)
}

// DiagnosisStage produces a ranked differential diagnosis list
type DiagnosisStage interface {
	Diagnose(ctx context.Context, record *entities.AssessmentRecord) ([]entities.Diagnosis, error)
}

// ReasoningStage validates the differential for consistency with the
// patient profile and reported symptoms
type ReasoningStage interface {
	ValidateReasoning(ctx context.Context, record *entities.AssessmentRecord) (*entities.Reasoning, error)
}

// TreatmentStage recommends treatments for the leading diagnoses
type TreatmentStage interface {
	RecommendTreatments(ctx context.Context, record *entities.AssessmentRecord) ([]entities.Treatment, error)
}

// EvaluationStage scores the overall quality of the assessment
type EvaluationStage interface {
	Evaluate(ctx context.Context, record *entities.AssessmentRecord) (*entities.Evaluation, error)
}

// Stages bundles the five analysis capabilities the orchestrator runs,
// in order. Any nil capability is skipped.
type Stages struct {
	Data       DataStage
	Diagnosis  DiagnosisStage
	Reasoning  ReasoningStage
	Treatment  TreatmentStage
	Evaluation EvaluationStage
}
