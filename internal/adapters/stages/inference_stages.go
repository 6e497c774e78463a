package stages

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clinassist/assessment/internal/domain/entities"
)

// Generator is the inference capability the language-model stages call
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DiagnosisStage generates a differential diagnosis via the inference service
type DiagnosisStage struct {
	generator Generator
}

// NewDiagnosisStage creates an inference-backed diagnosis stage
func NewDiagnosisStage(generator Generator) *DiagnosisStage {
	return &DiagnosisStage{generator: generator}
}

// Diagnose prompts the model with symptoms and candidate diseases, then
// parses a ranked diagnosis list from the free-text answer.
func (s *DiagnosisStage) Diagnose(ctx context.Context, record *entities.AssessmentRecord) ([]entities.Diagnosis, error) {
	log.Info().Str("assessment_id", record.ID).Msg("Generating diagnoses")

	response, err := s.generator.Generate(ctx, diagnosisSystemPrompt, buildDiagnosisPrompt(record))
	if err != nil {
		return nil, err
	}

	diseaseNames := []string{}
	if record.MedicalData != nil {
		for _, d := range record.MedicalData.Diseases {
			diseaseNames = append(diseaseNames, d.Name)
		}
	}

	diagnoses := parseDiagnoses(response, diseaseNames)
	log.Info().Int("diagnoses", len(diagnoses)).Msg("Generated diagnoses")
	return diagnoses, nil
}

// ReasoningStage validates the differential via the inference service
type ReasoningStage struct {
	generator Generator
}

// NewReasoningStage creates an inference-backed reasoning stage
func NewReasoningStage(generator Generator) *ReasoningStage {
	return &ReasoningStage{generator: generator}
}

// ValidateReasoning checks the diagnoses for consistency with the
// symptoms. With no diagnoses present there is nothing to validate.
func (s *ReasoningStage) ValidateReasoning(ctx context.Context, record *entities.AssessmentRecord) (*entities.Reasoning, error) {
	if len(record.Diagnoses) == 0 {
		return &entities.Reasoning{Status: "no_diagnoses"}, nil
	}

	log.Info().Str("assessment_id", record.ID).Msg("Validating diagnoses")

	response, err := s.generator.Generate(ctx, reasoningSystemPrompt, buildReasoningPrompt(record))
	if err != nil {
		return nil, err
	}

	return &entities.Reasoning{
		Status:            "validated",
		Reasoning:         response,
		AdjustedDiagnoses: append([]entities.Diagnosis(nil), record.Diagnoses...),
	}, nil
}

// TreatmentStage recommends treatments via the inference service
type TreatmentStage struct {
	generator Generator
}

// NewTreatmentStage creates an inference-backed treatment stage
func NewTreatmentStage(generator Generator) *TreatmentStage {
	return &TreatmentStage{generator: generator}
}

// RecommendTreatments asks for treatments for the top two diagnoses and
// parses typed recommendations from the answer. No diagnoses, no
// treatments.
func (s *TreatmentStage) RecommendTreatments(ctx context.Context, record *entities.AssessmentRecord) ([]entities.Treatment, error) {
	if len(record.Diagnoses) == 0 {
		return []entities.Treatment{}, nil
	}

	log.Info().Str("assessment_id", record.ID).Msg("Recommending treatments")

	response, err := s.generator.Generate(ctx, treatmentSystemPrompt, buildTreatmentPrompt(record))
	if err != nil {
		return nil, err
	}

	treatments := parseTreatments(response)
	log.Info().Int("treatments", len(treatments)).Msg("Generated treatment recommendations")
	return treatments, nil
}

// EvaluationStage scores assessment quality via the inference service
type EvaluationStage struct {
	generator Generator
}

// NewEvaluationStage creates an inference-backed evaluation stage
func NewEvaluationStage(generator Generator) *EvaluationStage {
	return &EvaluationStage{generator: generator}
}

// Evaluate scores the overall assessment and extracts strengths and concerns
func (s *EvaluationStage) Evaluate(ctx context.Context, record *entities.AssessmentRecord) (*entities.Evaluation, error) {
	log.Info().Str("assessment_id", record.ID).Msg("Evaluating assessment quality")

	response, err := s.generator.Generate(ctx, evaluationSystemPrompt, buildEvaluationPrompt(record))
	if err != nil {
		return nil, err
	}

	return &entities.Evaluation{
		Status:       "evaluated",
		QualityScore: extractQualityScore(response),
		Assessment:   response,
		Strengths:    extractKeywordLines(response, "strength"),
		Concerns:     extractKeywordLines(response, "concern"),
	}, nil
}
