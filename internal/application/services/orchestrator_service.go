package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/clinassist/assessment/internal/domain/entities"
	"github.com/clinassist/assessment/internal/domain/providers"
)

var (
	assessmentMetricsOnce sync.Once
	assessmentRunCounter  metric.Int64Counter
	assessmentRunDuration metric.Float64Histogram
)

func initAssessmentMetrics() {
	assessmentMetricsOnce.Do(func() {
		meter := otel.Meter("assessment.orchestrator")
		assessmentRunCounter, _ = meter.Int64Counter(
			"assessment.runs.total",
			metric.WithDescription("Total number of assessment runs by outcome"),
		)
		assessmentRunDuration, _ = meter.Float64Histogram(
			"assessment.run.duration_seconds",
			metric.WithDescription("Duration of full assessment runs"),
		)
	})
}

// OrchestratorService runs the multi-stage assessment pipeline over a
// mutable assessment record. Stages run in a fixed order, each reading
// what earlier stages produced; a missing capability skips its stage.
type OrchestratorService struct {
	stages providers.Stages
}

// NewOrchestratorService creates a new orchestrator over the given stages
func NewOrchestratorService(stages providers.Stages) *OrchestratorService {
	initAssessmentMetrics()
	return &OrchestratorService{stages: stages}
}

// Initialize validates patient input and creates an initialized record.
// Symptoms with no severity default to moderate.
func (s *OrchestratorService) Initialize(patient entities.Patient, symptoms []entities.Symptom) (*entities.AssessmentRecord, error) {
	if err := entities.ValidateAssessmentInput(patient, symptoms); err != nil {
		return nil, err
	}

	record := entities.NewAssessmentRecord(patient, entities.NormalizeSymptoms(symptoms))

	log.Info().
		Str("assessment_id", record.ID).
		Str("patient", patient.Name).
		Int("symptoms", len(symptoms)).
		Msg("Initialized assessment workflow")

	return record, nil
}

// Run executes the analysis stages against the record, in order, and
// always leaves a non-nil final summary on a completed record. A stage
// failure marks the record as error and stops the pipeline.
func (s *OrchestratorService) Run(ctx context.Context, record *entities.AssessmentRecord) *entities.AssessmentRecord {
	start := time.Now()
	logger := log.With().Str("assessment_id", record.ID).Logger()
	logger.Info().Msg("Starting coordinated assessment")

	if err := s.runStages(ctx, record); err != nil {
		record.Status = entities.AssessmentStatusError
		record.Error = err.Error()
		logger.Error().Err(err).Msg("Assessment workflow failed")
		s.recordRun(ctx, "error", start)
		return record
	}

	// Synthesis never fails the run; a partial summary is always produced.
	summary, err := s.createFinalSummary(record)
	if err != nil || summary == nil {
		logger.Warn().Err(err).Msg("Falling back to minimal summary")
		summary = s.minimalSummary(record, err)
	}
	record.FinalSummary = summary
	record.Status = entities.AssessmentStatusCompleted

	logger.Info().
		Int("diagnoses", len(record.Diagnoses)).
		Int("treatments", len(record.Treatments)).
		Float64("quality_score", summary.QualityScore).
		Msg("Assessment completed")
	s.recordRun(ctx, "completed", start)

	return record
}

func (s *OrchestratorService) runStages(ctx context.Context, record *entities.AssessmentRecord) error {
	logger := log.With().Str("assessment_id", record.ID).Logger()

	// Step 1: Data retrieval
	if s.stages.Data != nil {
		logger.Info().Msg("Step 1: Retrieving medical data")
		data, err := s.stages.Data.CollectData(ctx, record)
		if err != nil {
			return fmt.Errorf("data stage: %w", err)
		}
		record.MedicalData = data
	}

	// Step 2: Diagnosis generation
	if s.stages.Diagnosis != nil {
		logger.Info().Msg("Step 2: Generating diagnoses")
		diagnoses, err := s.stages.Diagnosis.Diagnose(ctx, record)
		if err != nil {
			return fmt.Errorf("diagnosis stage: %w", err)
		}
		record.Diagnoses = diagnoses
	}

	// Step 3: Reasoning and validation
	if s.stages.Reasoning != nil {
		logger.Info().Msg("Step 3: Applying medical reasoning")
		reasoning, err := s.stages.Reasoning.ValidateReasoning(ctx, record)
		if err != nil {
			return fmt.Errorf("reasoning stage: %w", err)
		}
		record.Reasoning = reasoning
	}

	// Step 4: Treatment recommendations
	if s.stages.Treatment != nil {
		logger.Info().Msg("Step 4: Recommending treatments")
		treatments, err := s.stages.Treatment.RecommendTreatments(ctx, record)
		if err != nil {
			return fmt.Errorf("treatment stage: %w", err)
		}
		record.Treatments = treatments
	}

	// Step 5: Quality evaluation
	if s.stages.Evaluation != nil {
		logger.Info().Msg("Step 5: Evaluating assessment quality")
		evaluation, err := s.stages.Evaluation.Evaluate(ctx, record)
		if err != nil {
			return fmt.Errorf("evaluation stage: %w", err)
		}
		record.Evaluation = evaluation
	}

	return nil
}

func (s *OrchestratorService) createFinalSummary(record *entities.AssessmentRecord) (*entities.FinalSummary, error) {
	now := time.Now()

	quality := 0.0
	if record.Evaluation != nil {
		quality = record.Evaluation.QualityScore
	}

	summary := &entities.FinalSummary{
		PatientName:       record.Patient.Name,
		AssessmentDate:    &now,
		SymptomsAnalyzed:  record.SymptomNames(),
		ProbableDiagnoses: record.TopDiagnoses(3),
		Treatments:        append([]entities.Treatment(nil), record.Treatments...),
		DiagnosticTests:   extractTests(record),
		NextSteps:         generateNextSteps(record.Diagnoses),
		SafetyWarnings:    extractWarnings(record.Patient),
		QualityScore:      quality,
	}

	return summary, nil
}

// minimalSummary is the degraded summary used when synthesis produced
// nothing usable. It carries whatever the stages left on the record.
// createFinalSummary cannot currently fail, so this guard exists solely
// to keep a completed record's summary non-nil if synthesis ever does.
func (s *OrchestratorService) minimalSummary(record *entities.AssessmentRecord, cause error) *entities.FinalSummary {
	summary := &entities.FinalSummary{
		SymptomsAnalyzed:  record.SymptomNames(),
		ProbableDiagnoses: append([]entities.Diagnosis(nil), record.Diagnoses...),
		Treatments:        append([]entities.Treatment(nil), record.Treatments...),
		DiagnosticTests:   []string{},
		NextSteps:         []string{},
		SafetyWarnings:    []string{},
		QualityScore:      0.0,
	}
	if cause != nil {
		summary.Error = cause.Error()
	}
	return summary
}

func extractTests(record *entities.AssessmentRecord) []string {
	tests := []string{}
	for _, d := range record.TopDiagnoses(2) {
		if d.Disease != "" {
			tests = append(tests, fmt.Sprintf("Test for %s", d.Disease))
		}
	}
	return tests
}

func generateNextSteps(diagnoses []entities.Diagnosis) []string {
	if len(diagnoses) == 0 {
		return []string{}
	}
	return []string{
		fmt.Sprintf("Confirm diagnosis: %s", diagnoses[0].Disease),
		"Complete recommended diagnostic tests",
		"Schedule follow-up consultation",
		"Monitor symptoms",
	}
}

func extractWarnings(patient entities.Patient) []string {
	warnings := []string{}
	if len(patient.Allergies) > 0 {
		warnings = append(warnings, "Allergies: "+strings.Join(patient.Allergies, ", "))
	}
	if len(patient.MedicalHistory) > 0 {
		warnings = append(warnings, "Medical history: "+strings.Join(patient.MedicalHistory, ", "))
	}
	return warnings
}

func (s *OrchestratorService) recordRun(ctx context.Context, outcome string, start time.Time) {
	if assessmentRunCounter != nil {
		assessmentRunCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
	if assessmentRunDuration != nil {
		assessmentRunDuration.Record(ctx, time.Since(start).Seconds())
	}
}
