package entities

import (
	"fmt"
	"strings"
	"time"
)

// FormatConfidence renders a 0..1 score as a percentage with one decimal
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}

// FormatDiagnosis renders a diagnosis for display
func FormatDiagnosis(d Diagnosis) string {
	disease := d.Disease
	if disease == "" {
		disease = "Unknown"
	}
	return fmt.Sprintf("%s (Confidence: %s)", disease, FormatConfidence(d.ConfidenceScore))
}

// FormatTreatment renders a treatment recommendation for display
func FormatTreatment(t Treatment) string {
	rec := t.Recommendation
	if rec == "" {
		rec = "N/A"
	}
	formatted := fmt.Sprintf("[%s] %s", strings.ToUpper(string(t.Type)), rec)
	if t.Justification != "" {
		formatted += fmt.Sprintf(" (%s)", t.Justification)
	}
	return formatted
}

// FormatDate renders a timestamp as a date-only string
func FormatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("2006-01-02")
}

// RiskLevel derives a coarse risk grade from an assessment quality score
func RiskLevel(qualityScore float64) string {
	switch {
	case qualityScore >= 0.75:
		return "LOW"
	case qualityScore >= 0.5:
		return "MODERATE"
	default:
		return "HIGH"
	}
}

// FormatSummary shapes a final summary into display fields
func FormatSummary(s *FinalSummary) map[string]any {
	if s == nil {
		return nil
	}
	symptoms := strings.Join(s.SymptomsAnalyzed, ", ")
	if symptoms == "" {
		symptoms = "None"
	}
	name := s.PatientName
	if name == "" {
		name = "Unknown"
	}
	return map[string]any{
		"patient_name":      name,
		"assessment_date":   FormatDate(s.AssessmentDate),
		"quality_score":     FormatConfidence(s.QualityScore),
		"risk_level":        RiskLevel(s.QualityScore),
		"symptoms_analyzed": symptoms,
		"num_diagnoses":     len(s.ProbableDiagnoses),
		"num_treatments":    len(s.Treatments),
		"num_tests":         len(s.DiagnosticTests),
	}
}
