package entities

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentStatus represents the lifecycle status of an assessment run
type AssessmentStatus string

const (
	AssessmentStatusInitialized AssessmentStatus = "initialized"
	AssessmentStatusCompleted   AssessmentStatus = "completed"
	AssessmentStatusError       AssessmentStatus = "error"
)

// SymptomSeverity represents how severe a reported symptom is
type SymptomSeverity string

const (
	SeverityMild     SymptomSeverity = "mild"
	SeverityModerate SymptomSeverity = "moderate"
	SeveritySevere   SymptomSeverity = "severe"
)

// Symptom is a single patient-reported symptom
type Symptom struct {
	Name         string          `json:"name"`
	Severity     SymptomSeverity `json:"severity"`
	DurationDays int             `json:"duration_days"`
	Details      string          `json:"details,omitempty"`
}

// Patient holds the patient descriptor threaded through an assessment.
// The core only checks presence of fields; clinical interpretation is
// left to the analysis stages.
type Patient struct {
	Name           string   `json:"name"`
	Age            int      `json:"age"`
	Gender         string   `json:"gender"`
	Allergies      []string `json:"allergies,omitempty"`
	MedicalHistory []string `json:"medical_history,omitempty"`
	Medications    []string `json:"medications,omitempty"`
}

// Diagnosis is one differential diagnosis produced by the diagnosis stage
type Diagnosis struct {
	Disease            string   `json:"disease"`
	ConfidenceScore    float64  `json:"confidence_score"`
	KeyIndicators      []string `json:"key_indicators,omitempty"`
	SupportingEvidence []string `json:"supporting_evidence,omitempty"`
}

// TreatmentType classifies a treatment recommendation
type TreatmentType string

const (
	TreatmentMedication   TreatmentType = "medication"
	TreatmentTest         TreatmentType = "test"
	TreatmentLifestyle    TreatmentType = "lifestyle"
	TreatmentConsultation TreatmentType = "consultation"
)

// Treatment is a single treatment recommendation
type Treatment struct {
	Type           TreatmentType `json:"type"`
	Recommendation string        `json:"recommendation"`
	Justification  string        `json:"justification,omitempty"`
	Confidence     float64       `json:"confidence"`
}

// MedicalData is the knowledge-store extract produced by the data stage
type MedicalData struct {
	Diseases      []Disease `json:"diseases"`
	SymptomsFound []string  `json:"symptoms_found"`
	RiskFactors   []string  `json:"risk_factors"`
	Treatments    []string  `json:"treatments"`
}

// Reasoning is the validation result produced by the reasoning stage
type Reasoning struct {
	Status            string      `json:"status"`
	Reasoning         string      `json:"reasoning,omitempty"`
	AdjustedDiagnoses []Diagnosis `json:"adjusted_diagnoses,omitempty"`
}

// Evaluation is the quality assessment produced by the evaluation stage
type Evaluation struct {
	Status       string   `json:"status"`
	QualityScore float64  `json:"quality_score"`
	Assessment   string   `json:"assessment,omitempty"`
	Strengths    []string `json:"strengths,omitempty"`
	Concerns     []string `json:"concerns,omitempty"`
}

// FinalSummary is the synthesized outcome of an assessment run. The
// orchestrator guarantees it is never nil on a completed record.
type FinalSummary struct {
	PatientName       string      `json:"patient_name,omitempty"`
	AssessmentDate    *time.Time  `json:"assessment_date,omitempty"`
	SymptomsAnalyzed  []string    `json:"symptoms_analyzed"`
	ProbableDiagnoses []Diagnosis `json:"probable_diagnoses"`
	Treatments        []Treatment `json:"treatments"`
	DiagnosticTests   []string    `json:"diagnostic_tests"`
	NextSteps         []string    `json:"next_steps"`
	SafetyWarnings    []string    `json:"safety_warnings"`
	QualityScore      float64     `json:"quality_score"`
	Error             string      `json:"error,omitempty"`
}

// AssessmentRecord is the mutable record threaded through all analysis
// stages of one assessment run. Each stage populates exactly one field,
// in stage order; fields stay nil until their stage has run.
type AssessmentRecord struct {
	ID           string           `json:"id"`
	Patient      Patient          `json:"patient"`
	Symptoms     []Symptom        `json:"symptoms"`
	MedicalData  *MedicalData     `json:"medical_data,omitempty"`
	Diagnoses    []Diagnosis      `json:"diagnoses,omitempty"`
	Reasoning    *Reasoning       `json:"reasoning,omitempty"`
	Treatments   []Treatment      `json:"treatments,omitempty"`
	Evaluation   *Evaluation      `json:"evaluation,omitempty"`
	FinalSummary *FinalSummary    `json:"final_summary,omitempty"`
	Status       AssessmentStatus `json:"status"`
	Error        string           `json:"error,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewAssessmentRecord creates an initialized record for a validated patient
func NewAssessmentRecord(patient Patient, symptoms []Symptom) *AssessmentRecord {
	return &AssessmentRecord{
		ID:        uuid.NewString(),
		Patient:   patient,
		Symptoms:  symptoms,
		Status:    AssessmentStatusInitialized,
		CreatedAt: time.Now(),
	}
}

// SymptomNames returns the names of all reported symptoms, in order
func (r *AssessmentRecord) SymptomNames() []string {
	names := make([]string, 0, len(r.Symptoms))
	for _, s := range r.Symptoms {
		names = append(names, s.Name)
	}
	return names
}

// TopDiagnoses returns up to n diagnoses in the order the diagnosis
// stage produced them (highest confidence first by that stage's contract)
func (r *AssessmentRecord) TopDiagnoses(n int) []Diagnosis {
	if len(r.Diagnoses) < n {
		n = len(r.Diagnoses)
	}
	out := make([]Diagnosis, n)
	copy(out, r.Diagnoses[:n])
	return out
}
