package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinassist/assessment/internal/application/services"
	"github.com/clinassist/assessment/internal/domain/entities"
	"github.com/clinassist/assessment/internal/domain/providers"
)

type stubDataStage struct {
	data *entities.MedicalData
	err  error
}

func (s *stubDataStage) CollectData(ctx context.Context, record *entities.AssessmentRecord) (*entities.MedicalData, error) {
	return s.data, s.err
}

type stubDiagnosisStage struct {
	diagnoses []entities.Diagnosis
	err       error
}

func (s *stubDiagnosisStage) Diagnose(ctx context.Context, record *entities.AssessmentRecord) ([]entities.Diagnosis, error) {
	return s.diagnoses, s.err
}

type stubReasoningStage struct {
	reasoning *entities.Reasoning
	err       error
}

func (s *stubReasoningStage) ValidateReasoning(ctx context.Context, record *entities.AssessmentRecord) (*entities.Reasoning, error) {
	return s.reasoning, s.err
}

type stubTreatmentStage struct {
	treatments []entities.Treatment
	err        error
}

func (s *stubTreatmentStage) RecommendTreatments(ctx context.Context, record *entities.AssessmentRecord) ([]entities.Treatment, error) {
	return s.treatments, s.err
}

type stubEvaluationStage struct {
	evaluation *entities.Evaluation
	err        error
}

func (s *stubEvaluationStage) Evaluate(ctx context.Context, record *entities.AssessmentRecord) (*entities.Evaluation, error) {
	return s.evaluation, s.err
}

func testPatient() entities.Patient {
	return entities.Patient{
		Name:           "Jane Doe",
		Age:            34,
		Gender:         "Female",
		Allergies:      []string{"penicillin"},
		MedicalHistory: []string{"asthma"},
	}
}

func testSymptoms() []entities.Symptom {
	return []entities.Symptom{
		{Name: "fever", Severity: entities.SeverityModerate, DurationDays: 3},
		{Name: "cough", Severity: entities.SeverityMild, DurationDays: 5},
	}
}

func fullStages() providers.Stages {
	return providers.Stages{
		Data: &stubDataStage{data: &entities.MedicalData{
			SymptomsFound: []string{"fever", "cough"},
		}},
		Diagnosis: &stubDiagnosisStage{diagnoses: []entities.Diagnosis{
			{Disease: "Influenza", ConfidenceScore: 0.85},
			{Disease: "Common Cold", ConfidenceScore: 0.6},
			{Disease: "Bronchitis", ConfidenceScore: 0.4},
			{Disease: "Pneumonia", ConfidenceScore: 0.2},
		}},
		Reasoning: &stubReasoningStage{reasoning: &entities.Reasoning{Status: "validated"}},
		Treatment: &stubTreatmentStage{treatments: []entities.Treatment{
			{Type: entities.TreatmentMedication, Recommendation: "Oseltamivir 75mg twice daily", Confidence: 0.75},
		}},
		Evaluation: &stubEvaluationStage{evaluation: &entities.Evaluation{Status: "evaluated", QualityScore: 0.8}},
	}
}

func TestOrchestratorService_Initialize(t *testing.T) {
	svc := services.NewOrchestratorService(providers.Stages{})

	record, err := svc.Initialize(testPatient(), []entities.Symptom{{Name: "fever"}})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, entities.AssessmentStatusInitialized, record.Status)
	assert.Equal(t, entities.SeverityModerate, record.Symptoms[0].Severity, "missing severity defaults to moderate")
}

func TestOrchestratorService_Initialize_InvalidInput(t *testing.T) {
	svc := services.NewOrchestratorService(providers.Stages{})

	_, err := svc.Initialize(entities.Patient{Age: 34, Gender: "Female"}, testSymptoms())
	assert.Error(t, err, "missing patient name")

	_, err = svc.Initialize(testPatient(), nil)
	assert.Error(t, err, "no symptoms")

	patient := testPatient()
	patient.Age = 200
	_, err = svc.Initialize(patient, testSymptoms())
	assert.Error(t, err, "age out of range")
}

func TestOrchestratorService_Run_FullPipeline(t *testing.T) {
	svc := services.NewOrchestratorService(fullStages())
	record, err := svc.Initialize(testPatient(), testSymptoms())
	require.NoError(t, err)

	record = svc.Run(context.Background(), record)

	assert.Equal(t, entities.AssessmentStatusCompleted, record.Status)
	assert.NotNil(t, record.MedicalData)
	assert.Len(t, record.Diagnoses, 4)
	assert.NotNil(t, record.Reasoning)
	assert.Len(t, record.Treatments, 1)
	assert.NotNil(t, record.Evaluation)

	summary := record.FinalSummary
	require.NotNil(t, summary)
	assert.Equal(t, "Jane Doe", summary.PatientName)
	assert.Equal(t, []string{"fever", "cough"}, summary.SymptomsAnalyzed)
	assert.Len(t, summary.ProbableDiagnoses, 3, "summary carries the top three diagnoses")
	assert.Equal(t, "Influenza", summary.ProbableDiagnoses[0].Disease)
	assert.Equal(t, []string{"Test for Influenza", "Test for Common Cold"}, summary.DiagnosticTests)
	require.Len(t, summary.NextSteps, 4)
	assert.Equal(t, "Confirm diagnosis: Influenza", summary.NextSteps[0])
	assert.Equal(t, 0.8, summary.QualityScore)
	require.Len(t, summary.SafetyWarnings, 2)
	assert.Contains(t, summary.SafetyWarnings[0], "penicillin")
	assert.Contains(t, summary.SafetyWarnings[1], "asthma")
}

func TestOrchestratorService_Run_StageFailureStopsPipeline(t *testing.T) {
	stages := fullStages()
	stages.Diagnosis = &stubDiagnosisStage{err: errors.New("model unavailable")}

	svc := services.NewOrchestratorService(stages)
	record, err := svc.Initialize(testPatient(), testSymptoms())
	require.NoError(t, err)

	record = svc.Run(context.Background(), record)

	assert.Equal(t, entities.AssessmentStatusError, record.Status)
	assert.Contains(t, record.Error, "diagnosis stage")
	assert.Contains(t, record.Error, "model unavailable")
	assert.NotNil(t, record.MedicalData, "stages before the failure keep their output")
	assert.Nil(t, record.Reasoning, "stages after the failure never run")
	assert.Nil(t, record.Treatments)
}

func TestOrchestratorService_Run_NilStagesAreSkipped(t *testing.T) {
	svc := services.NewOrchestratorService(providers.Stages{})
	record, err := svc.Initialize(testPatient(), testSymptoms())
	require.NoError(t, err)

	record = svc.Run(context.Background(), record)

	assert.Equal(t, entities.AssessmentStatusCompleted, record.Status)
	require.NotNil(t, record.FinalSummary)
	assert.Empty(t, record.FinalSummary.ProbableDiagnoses)
	assert.Empty(t, record.FinalSummary.NextSteps, "no next steps without diagnoses")
	assert.Equal(t, 0.0, record.FinalSummary.QualityScore)
}

func TestOrchestratorService_Run_NoEvaluationMeansZeroQuality(t *testing.T) {
	stages := fullStages()
	stages.Evaluation = nil

	svc := services.NewOrchestratorService(stages)
	record, _ := svc.Initialize(testPatient(), testSymptoms())
	record = svc.Run(context.Background(), record)

	assert.Equal(t, entities.AssessmentStatusCompleted, record.Status)
	require.NotNil(t, record.FinalSummary)
	assert.Equal(t, 0.0, record.FinalSummary.QualityScore)
}
