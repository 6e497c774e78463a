package stages_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinassist/assessment/internal/adapters/stages"
	"github.com/clinassist/assessment/internal/domain/entities"
)

type stubGenerator struct {
	response string
	err      error

	lastSystemPrompt string
	lastUserPrompt   string
	calls            int
}

func (g *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.calls++
	g.lastSystemPrompt = systemPrompt
	g.lastUserPrompt = userPrompt
	return g.response, g.err
}

func recordWithDiseases(names ...string) *entities.AssessmentRecord {
	record := entities.NewAssessmentRecord(
		entities.Patient{Name: "Jane Doe", Age: 34, Gender: "Female"},
		[]entities.Symptom{{Name: "fever", Severity: entities.SeverityModerate, DurationDays: 3}},
	)
	data := &entities.MedicalData{}
	for _, name := range names {
		data.Diseases = append(data.Diseases, entities.Disease{Name: name})
	}
	record.MedicalData = data
	return record
}

func TestDiagnosisStage_Diagnose(t *testing.T) {
	generator := &stubGenerator{response: "Influenza: 80%\nCommon Cold: 30%"}
	stage := stages.NewDiagnosisStage(generator)

	record := recordWithDiseases("Influenza", "Common Cold", "Malaria")
	diagnoses, err := stage.Diagnose(context.Background(), record)

	require.NoError(t, err)
	require.Len(t, diagnoses, 2)
	assert.Equal(t, "Influenza", diagnoses[0].Disease)
	assert.Contains(t, generator.lastUserPrompt, "fever")
	assert.Contains(t, generator.lastUserPrompt, "Influenza")
}

func TestDiagnosisStage_GeneratorFailure(t *testing.T) {
	stage := stages.NewDiagnosisStage(&stubGenerator{err: errors.New("quota exceeded")})

	_, err := stage.Diagnose(context.Background(), recordWithDiseases("Influenza"))
	assert.Error(t, err)
}

func TestReasoningStage_NoDiagnosesSkipsModel(t *testing.T) {
	generator := &stubGenerator{response: "should not be called"}
	stage := stages.NewReasoningStage(generator)

	record := recordWithDiseases()
	reasoning, err := stage.ValidateReasoning(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, "no_diagnoses", reasoning.Status)
	assert.Zero(t, generator.calls)
}

func TestReasoningStage_ValidatesDiagnoses(t *testing.T) {
	generator := &stubGenerator{response: "The diagnoses are consistent with the symptoms."}
	stage := stages.NewReasoningStage(generator)

	record := recordWithDiseases("Influenza")
	record.Diagnoses = []entities.Diagnosis{{Disease: "Influenza", ConfidenceScore: 0.8}}

	reasoning, err := stage.ValidateReasoning(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, "validated", reasoning.Status)
	assert.Equal(t, generator.response, reasoning.Reasoning)
	require.Len(t, reasoning.AdjustedDiagnoses, 1)
	assert.Equal(t, "Influenza", reasoning.AdjustedDiagnoses[0].Disease)
}

func TestTreatmentStage_NoDiagnosesNoTreatments(t *testing.T) {
	generator := &stubGenerator{}
	stage := stages.NewTreatmentStage(generator)

	treatments, err := stage.RecommendTreatments(context.Background(), recordWithDiseases())

	require.NoError(t, err)
	assert.Empty(t, treatments)
	assert.Zero(t, generator.calls)
}

func TestTreatmentStage_ParsesRecommendations(t *testing.T) {
	generator := &stubGenerator{response: "- Prescribe oseltamivir 75mg twice daily\n- Order a confirmatory influenza test"}
	stage := stages.NewTreatmentStage(generator)

	record := recordWithDiseases("Influenza")
	record.Diagnoses = []entities.Diagnosis{{Disease: "Influenza", ConfidenceScore: 0.8}}

	treatments, err := stage.RecommendTreatments(context.Background(), record)

	require.NoError(t, err)
	require.Len(t, treatments, 2)
	assert.Equal(t, entities.TreatmentMedication, treatments[0].Type)
	assert.Equal(t, entities.TreatmentTest, treatments[1].Type)
}

func TestEvaluationStage_Evaluate(t *testing.T) {
	generator := &stubGenerator{response: `Quality: 85%
- strength: diagnoses match symptom profile
- concern: medication history not considered`}
	stage := stages.NewEvaluationStage(generator)

	evaluation, err := stage.Evaluate(context.Background(), recordWithDiseases("Influenza"))

	require.NoError(t, err)
	assert.Equal(t, "evaluated", evaluation.Status)
	assert.InDelta(t, 0.85, evaluation.QualityScore, 0.001)
	require.Len(t, evaluation.Strengths, 1)
	assert.Equal(t, "strength: diagnoses match symptom profile", evaluation.Strengths[0])
	require.Len(t, evaluation.Concerns, 1)
}
